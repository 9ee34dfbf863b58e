// Package draftstore persists local working copies of project timelines in
// SQLite. A draft is the full timeline snapshot for one project, written
// after every edit so a crashed or closed session can resume exactly where
// it left off, independent of whether the remote sync landed.
package draftstore
