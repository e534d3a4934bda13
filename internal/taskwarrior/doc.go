// Package taskwarrior adapts Taskwarrior-style task records to the neutral
// task contracts in the tasks package.
//
// # Pieces
//
// [Record] is one local task in a typed layout; [ParseRecord] and
// [Record.Flatten] translate to and from the store's flat field mapping.
// [Task] wraps a record behind normalized accessors and tracks its upstream
// association. [Factory] is the single construction point (record snapshot or
// upstream counterpart). [Repository] exposes list/save/delete over a
// [Store], special-casing the pending → completed transition at save time.
//
// # Extension Fields
//
// The adapter owns two namespaced extension fields per record, named by
// [Keys]: <ns>_assoc_<provider> holds the upstream identifier and <ns>_etag
// the last-synced change tag. The default namespace is "twgs".
//
// All operations are synchronous and single-threaded; a wrapper exclusively
// owns its record, and the store's own serialization is the only consistency
// guard.
package taskwarrior
