// Package preflight verifies the editor's environment before a session
// opens: configuration sanity, local data directories, free disk space, and
// Studio API reachability. Checks report pass/fail with a detail string and
// never abort each other.
package preflight
