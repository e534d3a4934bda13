// package formatter provides functions to export task listings to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/twsync/internal/shared"
	"github.com/desertthunder/twsync/internal/taskwarrior"
)

// dateLayout is the rendering format for record timestamps.
const dateLayout = "2006-01-02"

// formatDate renders an epoch-second field for display. Empty fields render
// empty; unparseable fields render as-is rather than failing the export.
func formatDate(epoch string) string {
	if epoch == "" {
		return ""
	}
	secs, err := strconv.ParseInt(epoch, 10, 64)
	if err != nil {
		return epoch
	}
	return time.Unix(secs, 0).UTC().Format(dateLayout)
}

// providerList renders a record's associations as "provider:id" pairs in
// sorted provider order.
func providerList(rec taskwarrior.Record) string {
	if len(rec.Associations) == 0 {
		return ""
	}

	providers := make([]string, 0, len(rec.Associations))
	for provider := range rec.Associations {
		providers = append(providers, provider)
	}
	sort.Strings(providers)

	pairs := make([]string, 0, len(providers))
	for _, provider := range providers {
		pairs = append(pairs, provider+":"+rec.Associations[provider])
	}
	return strings.Join(pairs, " ")
}

// ExportToCSV converts task records to CSV format with columns: UUID, Status, Description, Project, Due, Completed, Associations
func ExportToCSV(records []taskwarrior.Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"UUID", "Status", "Description", "Project", "Due", "Completed", "Associations"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.UUID,
			rec.Status,
			rec.Description,
			rec.Project,
			formatDate(rec.Due),
			formatDate(rec.End),
			providerList(rec),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts task records to a Markdown listing under the given title
func ExportToMarkdown(records []taskwarrior.Record, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Tasks"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tasks**: %d\n\n", len(records)))

	for i, rec := range records {
		projectPart := ""
		if rec.Project != "" {
			projectPart = fmt.Sprintf(" (%s)", rec.Project)
		}
		duePart := ""
		if due := formatDate(rec.Due); due != "" {
			duePart = fmt.Sprintf(" [due %s]", due)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s%s\n", i+1, rec.Status, rec.Description, projectPart, duePart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts task records to plain text format
func ExportToText(records []taskwarrior.Record) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tasks: %d\n\n", len(records)))

	for i, rec := range records {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, rec.Status, rec.Description))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts task records to pretty-printed JSON
func ExportToJSON(records []taskwarrior.Record) ([]byte, error) {
	return shared.MarshalJSON(records, true)
}

// WriteCSVExport exports task records to a CSV file.
//
// Defaults to tasks.csv as the filename.
func WriteCSVExport(records []taskwarrior.Record, filepath string) (string, error) {
	if filepath == "" {
		filepath = "tasks.csv"
	}

	data, err := ExportToCSV(records)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}

// WriteMarkdownExport exports task records to a Markdown file.
//
// Defaults to tasks.md as the filename.
func WriteMarkdownExport(records []taskwarrior.Record, title, filepath string) (string, error) {
	if filepath == "" {
		filepath = "tasks.md"
	}

	data, err := ExportToMarkdown(records, title)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport exports task records to a plain text file.
//
// Defaults to tasks.txt as the filename.
func WriteTextExport(records []taskwarrior.Record, filepath string) (string, error) {
	if filepath == "" {
		filepath = "tasks.txt"
	}

	data, err := ExportToText(records)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteJSONExport exports task records to a JSON file.
//
// Defaults to tasks.json as the filename.
func WriteJSONExport(records []taskwarrior.Record, filepath string) (string, error) {
	if filepath == "" {
		filepath = "tasks.json"
	}

	data, err := ExportToJSON(records)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filepath, nil
}
