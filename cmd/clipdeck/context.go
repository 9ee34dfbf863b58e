package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"clipdeck/internal/config"
	"clipdeck/internal/draftstore"
	"clipdeck/internal/logging"
	"clipdeck/internal/notifications"
	"clipdeck/internal/session"
	"clipdeck/internal/studio"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// deps assembles the session collaborators. The returned cleanup closes the
// draft store.
func (c *commandContext) deps() (session.Deps, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return session.Deps{}, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return session.Deps{}, nil, err
	}
	store, err := draftstore.Open(cfg)
	if err != nil {
		return session.Deps{}, nil, err
	}
	deps := session.Deps{
		Logger:   logger,
		API:      studio.NewClient(cfg),
		Store:    store,
		Notifier: notifications.NewService(cfg),
	}
	return deps, func() { _ = store.Close() }, nil
}

// withSession opens a session on the project, runs fn, and tears everything
// down afterward.
func (c *commandContext) withSession(ctx context.Context, projectID string, fn func(*session.Session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	deps, cleanup, err := c.deps()
	if err != nil {
		return err
	}
	defer cleanup()

	sess, err := session.Open(ctx, cfg, deps, projectID)
	if err != nil {
		return err
	}
	defer func() {
		_ = sess.Close()
	}()
	return fn(sess)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
