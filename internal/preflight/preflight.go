package preflight

import (
	"context"

	"clipdeck/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Draft directory", cfg.DraftDir()))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckFreeSpace("Draft disk space", cfg.Paths.DataDir, minFreeBytes))
	results = append(results, CheckStudio(ctx, cfg.Studio.BaseURL, cfg.Studio.Token))

	if cfg.Notifications.NtfyTopic != "" {
		results = append(results, CheckNtfyTopic(cfg.Notifications.NtfyTopic))
	}

	return results
}

// AllPassed reports whether every check in results passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
