package taskdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/twsync/internal/shared"
	"github.com/desertthunder/twsync/internal/taskwarrior"
	"github.com/desertthunder/twsync/internal/tasks"
)

// SQLiteStore implements [taskwarrior.Store] over the sqlite schema created
// by shared.RunMigrations. Annotations and associations live in side tables,
// keyed per provider, so a record can hold at most one association per
// upstream source.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLiteStore over an open, migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// LoadAll fetches every record, grouped by status.
func (s *SQLiteStore) LoadAll(ctx context.Context) (map[string][]taskwarrior.Record, error) {
	annotations, err := s.loadKeyed(ctx, "SELECT task_uuid, key, value FROM task_annotations")
	if err != nil {
		return nil, fmt.Errorf("failed to load annotations: %w", err)
	}
	associations, err := s.loadKeyed(ctx, "SELECT task_uuid, provider, upstream_id FROM task_associations")
	if err != nil {
		return nil, fmt.Errorf("failed to load associations: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT uuid, status, description, project, due, end_ts, etag
		FROM tasks
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	groups := make(map[string][]taskwarrior.Record)
	for rows.Next() {
		rec, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		rec.Annotations = annotations[rec.UUID]
		rec.Associations = associations[rec.UUID]
		groups[rec.Status] = append(groups[rec.Status], rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return groups, nil
}

// Add inserts a new record, assigning its identifier, and returns the stored
// form.
func (s *SQLiteStore) Add(ctx context.Context, rec taskwarrior.Record) (taskwarrior.Record, error) {
	rec.UUID = shared.GenerateID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return taskwarrior.Record{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (uuid, status, description, project, due, end_ts, etag)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.UUID, rec.Status, rec.Description, rec.Project, rec.Due, rec.End, etagValue(rec))
	if err != nil {
		return taskwarrior.Record{}, fmt.Errorf("failed to insert task: %w", err)
	}

	if err := insertSideTables(ctx, tx, rec); err != nil {
		return taskwarrior.Record{}, err
	}

	if err := tx.Commit(); err != nil {
		return taskwarrior.Record{}, fmt.Errorf("failed to commit: %w", err)
	}

	return s.get(ctx, rec.UUID)
}

// Update rewrites an existing record by its identifier and returns the stored
// form.
func (s *SQLiteStore) Update(ctx context.Context, rec taskwarrior.Record) (taskwarrior.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return taskwarrior.Record{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET status = ?, description = ?, project = ?, due = ?, end_ts = ?, etag = ?
		WHERE uuid = ?
	`, rec.Status, rec.Description, rec.Project, rec.Due, rec.End, etagValue(rec), rec.UUID)
	if err != nil {
		return taskwarrior.Record{}, fmt.Errorf("failed to update task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return taskwarrior.Record{}, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return taskwarrior.Record{}, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, rec.UUID)
	}

	for _, table := range []string{"task_annotations", "task_associations"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE task_uuid = ?", table), rec.UUID); err != nil {
			return taskwarrior.Record{}, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := insertSideTables(ctx, tx, rec); err != nil {
		return taskwarrior.Record{}, err
	}

	if err := tx.Commit(); err != nil {
		return taskwarrior.Record{}, fmt.Errorf("failed to commit: %w", err)
	}

	return s.get(ctx, rec.UUID)
}

// Delete removes a record and its side tables by identifier.
func (s *SQLiteStore) Delete(ctx context.Context, uuid string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE uuid = ?", uuid)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTaskNotFound, uuid)
	}

	for _, table := range []string{"task_annotations", "task_associations"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE task_uuid = ?", table), uuid); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

// Complete runs the completion transition: status flips to completed and the
// completion timestamp is recorded, nothing else changes.
func (s *SQLiteStore) Complete(ctx context.Context, uuid string, end time.Time) (taskwarrior.Record, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET status = ?, end_ts = ?
		WHERE uuid = ?
	`, tasks.StatusCompleted, fmt.Sprintf("%d", end.Unix()), uuid)
	if err != nil {
		return taskwarrior.Record{}, fmt.Errorf("failed to complete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return taskwarrior.Record{}, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return taskwarrior.Record{}, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, uuid)
	}

	return s.get(ctx, uuid)
}

// get reads one record with its side tables.
func (s *SQLiteStore) get(ctx context.Context, uuid string) (taskwarrior.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT uuid, status, description, project, due, end_ts, etag
		FROM tasks
		WHERE uuid = ?
	`, uuid)

	rec, err := scanTask(row)
	if err == sql.ErrNoRows {
		return taskwarrior.Record{}, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, uuid)
	}
	if err != nil {
		return taskwarrior.Record{}, err
	}

	annotations, err := s.loadKeyed(ctx, "SELECT task_uuid, key, value FROM task_annotations WHERE task_uuid = ?", uuid)
	if err != nil {
		return taskwarrior.Record{}, fmt.Errorf("failed to load annotations: %w", err)
	}
	associations, err := s.loadKeyed(ctx, "SELECT task_uuid, provider, upstream_id FROM task_associations WHERE task_uuid = ?", uuid)
	if err != nil {
		return taskwarrior.Record{}, fmt.Errorf("failed to load associations: %w", err)
	}

	rec.Annotations = annotations[uuid]
	rec.Associations = associations[uuid]
	return rec, nil
}

// loadKeyed reads (task_uuid, key, value) triples into per-task maps.
func (s *SQLiteStore) loadKeyed(ctx context.Context, query string, args ...any) (map[string]map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]map[string]string)
	for rows.Next() {
		var uuid, key, value string
		if err := rows.Scan(&uuid, &key, &value); err != nil {
			return nil, err
		}
		if out[uuid] == nil {
			out[uuid] = make(map[string]string)
		}
		out[uuid][key] = value
	}

	return out, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (taskwarrior.Record, error) {
	var (
		rec  taskwarrior.Record
		etag sql.NullString
	)

	err := row.Scan(&rec.UUID, &rec.Status, &rec.Description, &rec.Project, &rec.Due, &rec.End, &etag)
	if err == sql.ErrNoRows {
		return taskwarrior.Record{}, err
	}
	if err != nil {
		return taskwarrior.Record{}, fmt.Errorf("failed to scan task: %w", err)
	}

	if etag.Valid {
		rec.Etag = &etag.String
	}
	return rec, nil
}

func etagValue(rec taskwarrior.Record) any {
	if rec.Etag == nil {
		return nil
	}
	return *rec.Etag
}

func insertSideTables(ctx context.Context, tx *sql.Tx, rec taskwarrior.Record) error {
	for key, value := range rec.Annotations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_annotations (task_uuid, key, value) VALUES (?, ?, ?)
		`, rec.UUID, key, value); err != nil {
			return fmt.Errorf("failed to insert annotation: %w", err)
		}
	}

	for provider, upstreamID := range rec.Associations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_associations (task_uuid, provider, upstream_id) VALUES (?, ?, ?)
		`, rec.UUID, provider, upstreamID); err != nil {
			return fmt.Errorf("failed to insert association: %w", err)
		}
	}

	return nil
}
