// Package store persists session state between process runs.
//
// Two snapshots are kept in a single SQLite database: the queue (one
// row per job, ordered) and the settings (a key-value entry). The queue
// is written after every mutation; LoadQueue applies restart semantics,
// resetting in-flight job statuses to pending and clearing the running
// flag.
package store
