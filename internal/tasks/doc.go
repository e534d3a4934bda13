// Package tasks defines the neutral task contracts between the sync engine and provider adapters.
//
// # Contracts
//
// Three capability sets mirror what the engine expects of a downstream store:
//
//  1. [Task] : one local task behind normalized accessors
//     - Typed views over the store's native field encodings
//     - Association bookkeeping (provider-scoped upstream identifiers)
//     - Staleness detection via opaque upstream etags
//
//  2. [UpstreamTask] : the read-only counterpart in an upstream provider
//
//  3. [Repository] : enumeration and persistence over a local store
//     - Generic over the adapter's concrete task type
//     - Save covers both the create and update paths
//
// # Status Lifecycle
//
// A task moves unsaved → pending → {completed, deleted}. The recurring status
// is store-managed and excluded from outbound sync by [Task.ShouldSync].
//
// Adapters implement these contracts over their store's record format; see
// the taskwarrior package for the reference implementation.
package tasks
