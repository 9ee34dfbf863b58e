package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStudio()
	c.normalizeStitch()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeStudio() {
	c.Studio.BaseURL = strings.TrimRight(strings.TrimSpace(c.Studio.BaseURL), "/")
	if c.Studio.BaseURL == "" {
		c.Studio.BaseURL = defaultStudioBaseURL
	}
	c.Studio.Token = strings.TrimSpace(c.Studio.Token)
	if c.Studio.Token == "" {
		if value, ok := os.LookupEnv("CLIPDECK_STUDIO_TOKEN"); ok {
			c.Studio.Token = strings.TrimSpace(value)
		}
	}
	if c.Studio.RequestTimeout <= 0 {
		c.Studio.RequestTimeout = defaultStudioRequestTimeout
	}
}

func (c *Config) normalizeStitch() {
	if c.Stitch.PollInterval <= 0 {
		c.Stitch.PollInterval = defaultStitchPollInterval
	}
	if c.Stitch.StallWarnSeconds < 0 {
		c.Stitch.StallWarnSeconds = 0
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("CLIPDECK_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
