package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clipdeck/internal/config"
	"clipdeck/internal/renderspec"
	"clipdeck/internal/timeline"
)

const userAgent = "Clipdeck-Go/0.1.0"

var (
	// ErrNotFound marks a 404 for an unknown project id.
	ErrNotFound = errors.New("project not found")
	// ErrSubmissionRejected marks a stitch submission the server refused
	// synchronously. The wrapped message carries the server reason.
	ErrSubmissionRejected = errors.New("stitch submission rejected")
)

// HTTPDoer describes the HTTP client used by the Studio service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the Studio REST API.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
}

// NewClient builds a Studio client from application config.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Studio.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return NewClientWith(cfg.Studio.BaseURL, cfg.Studio.Token, &http.Client{Timeout: timeout})
}

// NewClientWith constructs a client with an injectable HTTP doer (used in tests).
func NewClientWith(baseURL, token string, client HTTPDoer) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  client,
	}
}

// StitchState is the render worker's view of a project's stitch job.
type StitchState struct {
	Status           timeline.StitchStatus `json:"status"`
	StitchedVideoURL string                `json:"stitchedVideoUrl,omitempty"`
	StitchError      string                `json:"stitchError,omitempty"`
}

// CreateProject creates a remote project record.
func (c *Client) CreateProject(ctx context.Context, title string) (timeline.Project, error) {
	body := struct {
		Title string `json:"title"`
	}{Title: strings.TrimSpace(title)}

	var project timeline.Project
	if err := c.do(ctx, http.MethodPost, "/api/v1/projects", body, &project); err != nil {
		return timeline.Project{}, fmt.Errorf("create project: %w", err)
	}
	if project.StitchStatus == "" {
		project.StitchStatus = timeline.StitchIdle
	}
	return project, nil
}

// GetProject fetches a project record by id.
func (c *Client) GetProject(ctx context.Context, projectID string) (timeline.Project, error) {
	var project timeline.Project
	if err := c.do(ctx, http.MethodGet, "/api/v1/projects/"+url.PathEscape(projectID), nil, &project); err != nil {
		return timeline.Project{}, fmt.Errorf("get project %s: %w", projectID, err)
	}
	if project.StitchStatus == "" {
		project.StitchStatus = timeline.StitchIdle
	}
	return project, nil
}

// ListProjects returns every project visible to the authenticated editor.
func (c *Client) ListProjects(ctx context.Context) ([]timeline.Project, error) {
	var projects []timeline.Project
	if err := c.do(ctx, http.MethodGet, "/api/v1/projects", nil, &projects); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// PatchProject applies a partial update to the remote project record.
func (c *Client) PatchProject(ctx context.Context, projectID string, patch ProjectPatch) error {
	if patch.Empty() {
		return nil
	}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/projects/"+url.PathEscape(projectID), patch, nil); err != nil {
		return fmt.Errorf("patch project %s: %w", projectID, err)
	}
	return nil
}

// SubmitStitch posts a render request document for the project.
func (c *Client) SubmitStitch(ctx context.Context, projectID string, doc renderspec.Document) error {
	path := "/api/v1/projects/" + url.PathEscape(projectID) + "/stitch"
	if err := c.do(ctx, http.MethodPost, path, doc, nil); err != nil {
		return fmt.Errorf("submit stitch %s: %w", projectID, err)
	}
	return nil
}

// GetStitchStatus fetches the current render job status for the project.
func (c *Client) GetStitchStatus(ctx context.Context, projectID string) (StitchState, error) {
	var state StitchState
	path := "/api/v1/projects/" + url.PathEscape(projectID) + "/stitch"
	if err := c.do(ctx, http.MethodGet, path, nil, &state); err != nil {
		return StitchState{}, fmt.Errorf("get stitch status %s: %w", projectID, err)
	}
	return state, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.baseURL == "" {
		return errors.New("studio base url is not configured")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("studio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	reason := readReason(resp.Body)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && method == http.MethodPost && strings.HasSuffix(path, "/stitch"):
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%w: %s", ErrSubmissionRejected, reason)
	default:
		if reason != "" {
			return fmt.Errorf("studio returned %d: %s", resp.StatusCode, reason)
		}
		return fmt.Errorf("studio returned %d", resp.StatusCode)
	}
}

// readReason extracts a failure reason from an error body, tolerating both
// {"reason": ...} and {"error": ...} shapes as well as bare text.
func readReason(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return ""
	}
	var payload struct {
		Reason string `json:"reason"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Reason != "" {
			return payload.Reason
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}
