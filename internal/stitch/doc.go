// Package stitch drives the asynchronous render ("stitch") lifecycle for
// open projects: submit a render request built from a timeline snapshot, then
// poll the job status on a fixed interval until it reaches a terminal
// outcome.
//
// The state machine per project is idle -> stitching -> {ready, failed}.
// Observed status never regresses within a submission; a superseding submit
// replaces the tracked job and the obsolete loop's late writes are dropped.
// Polling is single-flight per project id: starting a loop cancels any
// previous loop for that id, and project switch or shutdown cancels
// unconditionally. There is no hard timeout on a running render; after a
// configurable stall threshold the snapshot is flagged and a single
// taking-too-long notification fires while polling continues.
package stitch
