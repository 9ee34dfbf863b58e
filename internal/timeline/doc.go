// Package timeline holds the authoritative in-memory project state for the
// editor: the ordered main track, the overlay (broll) set, and the
// project-level audio/thumbnail overrides.
//
// Every operation is a pure transform. It deep-clones the input project,
// applies the change, and returns the new value; on error the input project
// is returned unchanged so callers never observe partial mutation. Invariants
// are enforced by clamping rather than erroring wherever the input is driven
// by a live scrubber (trim ranges, broll offsets and scale); unknown
// identifiers and missing source URLs are the only hard failures.
package timeline
