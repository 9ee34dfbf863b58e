package logging

import (
	"io"
	"log/slog"
	"os"

	"clipdeck/internal/config"
)

// NewFromConfig builds the application logger from config, teeing output to
// stdout and the session log file under the log directory.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	var writer io.Writer = os.Stdout
	if cfg != nil {
		tee, err := FileWriter(cfg.LogFile(), os.Stdout)
		if err != nil {
			return nil, err
		}
		writer = tee
	}
	opts := Options{Writer: writer}
	if cfg != nil {
		opts.Level = cfg.Logging.Level
		opts.Format = cfg.Logging.Format
	}
	return New(opts)
}
