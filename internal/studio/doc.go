// Package studio is the HTTP client for the remote Studio API: project CRUD,
// render submission, and render status. The dashboard UI consumes the same
// API, so every payload uses camelCase JSON. Transport failures wrap the
// underlying error; a 404 maps to ErrNotFound and a 4xx stitch submission
// maps to ErrSubmissionRejected carrying the server-provided reason.
package studio
