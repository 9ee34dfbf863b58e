// Package config loads, normalizes, and validates Clipdeck configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CLIPDECK_STUDIO_TOKEN and CLIPDECK_NTFY_TOPIC. The Config type centralizes
// every knob the CLI and editor components need: Studio API endpoint and
// credentials, stitch polling cadence, draft/log directories, notification
// topics, and the local progress API bind address.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
