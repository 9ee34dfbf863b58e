// Package httpapi exposes a small read-only HTTP surface over the open
// editing session: health, the current timeline snapshot, and stitch
// progress. The dashboard's stitch-watch view polls it instead of holding a
// handle into the process.
package httpapi
