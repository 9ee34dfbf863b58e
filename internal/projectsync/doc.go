// Package projectsync mirrors accepted timeline mutations to the remote
// Studio project record, one field-group patch at a time.
//
// Sync is fire-and-forget: the PATCH runs on its own goroutine and the caller
// returns immediately with optimistic local state as the source of truth. A
// failed write is logged and surfaced as a non-fatal warning; local state is
// never rolled back, because local edits represent user intent and a
// transient network failure should not erase in-progress work. Patches for
// one project are not ordered relative to each other: last-write-wins is the
// accepted risk under the single-editor model.
package projectsync
