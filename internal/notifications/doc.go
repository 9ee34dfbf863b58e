// Package notifications delivers push notifications for render and sync
// events over ntfy. When no topic is configured the service degrades to a
// noop so callers never need to branch. Per-event enable flags and the
// request timeout come from config.
package notifications
