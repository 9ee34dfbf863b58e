// Command clipdeck is the timeline editor CLI: it opens editing sessions
// against Studio projects, applies clip and overlay edits, previews trim
// windows, and drives stitch renders to completion.
package main
