package config

const (
	defaultStudioBaseURL        = "https://studio.clipdeck.app"
	defaultStudioRequestTimeout = 15
	defaultDataDir              = "~/.local/share/clipdeck"
	defaultLogDir               = "~/.local/share/clipdeck/logs"
	defaultAPIBind              = "127.0.0.1:7419"
	defaultStitchPollInterval   = 3
	defaultStallWarnSeconds     = 180
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Studio: Studio{
			BaseURL:        defaultStudioBaseURL,
			RequestTimeout: defaultStudioRequestTimeout,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Stitch: Stitch{
			PollInterval:     defaultStitchPollInterval,
			StallWarnSeconds: defaultStallWarnSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Stitch:         true,
			Sync:           true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
