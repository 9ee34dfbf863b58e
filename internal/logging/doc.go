// Package logging configures the structured slog logger shared by the CLI
// and the editor components.
//
// New builds a logger from explicit options; NewFromConfig derives those
// options from application config, teeing output to stdout and the session
// log file under the data directory. Two formats are supported: "console"
// (timestamp, level, component prefix, flattened key=value pairs) and "json"
// (slog's JSON handler with normalized ts/level/msg keys).
//
// Components obtain their logger through NewComponentLogger so every record
// carries a component attribute, and attach domain identifiers with the
// exported Field* keys. Tests use NewNop.
package logging
