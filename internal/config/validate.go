package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStudio(); err != nil {
		return err
	}
	if err := c.validateStitch(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStudio() error {
	parsed, err := url.Parse(c.Studio.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("studio.base_url %q must be an absolute http(s) url", c.Studio.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("studio.base_url scheme %q is not supported", parsed.Scheme)
	}
	if c.Studio.RequestTimeout <= 0 {
		return errors.New("studio.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateStitch() error {
	if c.Stitch.PollInterval <= 0 {
		return errors.New("stitch.poll_interval must be positive (seconds)")
	}
	if c.Stitch.StallWarnSeconds > 0 && c.Stitch.StallWarnSeconds <= c.Stitch.PollInterval {
		return errors.New("stitch.stall_warn_seconds must be greater than stitch.poll_interval")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	if topic := c.Notifications.NtfyTopic; topic != "" && !strings.Contains(topic, "://") {
		return fmt.Errorf("notifications.ntfy_topic %q must be a full ntfy url (e.g. https://ntfy.sh/clipdeck)", topic)
	}
	return nil
}
