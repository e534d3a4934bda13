// package taskdb provides the persistence backends for taskwarrior records.
//
// Two stores satisfy the same contract: SQLiteStore keeps records in a local
// database for environments without the task binary, and CLIStore drives a
// real taskwarrior installation through its import/export boundary.
package taskdb
