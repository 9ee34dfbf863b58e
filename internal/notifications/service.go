package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"clipdeck/internal/config"
)

const userAgent = "Clipdeck-Go/0.1.0"

// Service defines the notification surface exposed to editor components.
type Service interface {
	NotifyStitchSubmitted(ctx context.Context, projectTitle string) error
	NotifyStitchReady(ctx context.Context, projectTitle, videoURL string) error
	NotifyStitchFailed(ctx context.Context, projectTitle, reason string) error
	NotifyStitchTakingTooLong(ctx context.Context, projectTitle string, elapsed time.Duration) error
	NotifySyncFailure(ctx context.Context, projectTitle string, err error) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		stitchOn: cfg.Notifications.Stitch,
		syncOn:   cfg.Notifications.Sync,
		errorsOn: cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	stitchOn bool
	syncOn   bool
	errorsOn bool
}

func (n *ntfyService) NotifyStitchSubmitted(ctx context.Context, projectTitle string) error {
	if !n.stitchOn {
		return nil
	}
	data := payload{
		title:   "Clipdeck - Stitch Submitted",
		message: fmt.Sprintf("Render started: %s", strings.TrimSpace(projectTitle)),
		tags:    []string{"clipdeck", "stitch", "submitted"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyStitchReady(ctx context.Context, projectTitle, videoURL string) error {
	if !n.stitchOn {
		return nil
	}
	message := fmt.Sprintf("Render ready: %s", strings.TrimSpace(projectTitle))
	if videoURL = strings.TrimSpace(videoURL); videoURL != "" {
		message = fmt.Sprintf("%s\n%s", message, videoURL)
	}
	data := payload{
		title:    "Clipdeck - Render Ready",
		message:  message,
		tags:     []string{"clipdeck", "stitch", "ready"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyStitchFailed(ctx context.Context, projectTitle, reason string) error {
	if !n.stitchOn {
		return nil
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unknown"
	}
	data := payload{
		title:    "Clipdeck - Render Failed",
		message:  fmt.Sprintf("Render failed: %s\nReason: %s", strings.TrimSpace(projectTitle), reason),
		tags:     []string{"clipdeck", "stitch", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyStitchTakingTooLong(ctx context.Context, projectTitle string, elapsed time.Duration) error {
	if !n.stitchOn {
		return nil
	}
	elapsed = elapsed.Round(time.Second)
	data := payload{
		title:   "Clipdeck - Render Taking Long",
		message: fmt.Sprintf("Render still running after %s: %s", elapsed, strings.TrimSpace(projectTitle)),
		tags:    []string{"clipdeck", "stitch", "stalled"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySyncFailure(ctx context.Context, projectTitle string, err error) error {
	if !n.syncOn {
		return nil
	}
	detail := "unknown"
	if err != nil {
		detail = strings.TrimSpace(err.Error())
	}
	data := payload{
		title:   "Clipdeck - Sync Warning",
		message: fmt.Sprintf("Remote save failed for %s (local edits kept): %s", strings.TrimSpace(projectTitle), detail),
		tags:    []string{"clipdeck", "sync", "warning"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errorsOn {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Clipdeck - Error",
		message:  builder.String(),
		tags:     []string{"clipdeck", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Clipdeck - Test",
		message:  "Notification system test",
		tags:     []string{"clipdeck", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyStitchSubmitted(context.Context, string) error                   { return nil }
func (noopService) NotifyStitchReady(context.Context, string, string) error               { return nil }
func (noopService) NotifyStitchFailed(context.Context, string, string) error              { return nil }
func (noopService) NotifyStitchTakingTooLong(context.Context, string, time.Duration) error { return nil }
func (noopService) NotifySyncFailure(context.Context, string, error) error                { return nil }
func (noopService) NotifyError(context.Context, error, string) error                      { return nil }
func (noopService) TestNotification(context.Context) error                                { return nil }
