// Package session owns one open project end to end: it loads the timeline
// (remote record or local draft), applies edits, persists a draft after
// every accepted mutation, mirrors changes to the Studio API in the
// background, tracks the selected clip, and drives the stitch lifecycle.
//
// Exclusive ownership is enforced with a per-project lock file: a second
// concurrent open of the same project fails fast instead of interleaving
// edits.
package session
