package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clipdeck/internal/httpapi"
	"clipdeck/internal/logging"
	"clipdeck/internal/stitch"
	"clipdeck/internal/timeline"
)

type fakeSession struct {
	project  timeline.Project
	snapshot stitch.Snapshot
	hasJob   bool
}

func (f *fakeSession) Project() timeline.Project { return f.project }

func (f *fakeSession) StitchSnapshot() (stitch.Snapshot, bool) { return f.snapshot, f.hasJob }

func newTestSession(t *testing.T) *fakeSession {
	t.Helper()
	project := timeline.NewProject("API View")
	project, _, err := timeline.AddClip(project, timeline.ClipInput{SourceURL: "intro.mp4"})
	if err != nil {
		t.Fatalf("AddClip: %v", err)
	}
	return &fakeSession{project: project}
}

func get(t *testing.T, handler http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := httpapi.NewRouter(httpapi.Options{Logger: logging.NewNop(), Session: newTestSession(t)})

	rec := get(t, router, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var health httpapi.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "ok" {
		t.Fatalf("health = %+v", health)
	}
}

func TestProjectEndpointReturnsTimeline(t *testing.T) {
	sess := newTestSession(t)
	router := httpapi.NewRouter(httpapi.Options{Logger: logging.NewNop(), Session: sess})

	rec := get(t, router, "/api/v1/project", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var project timeline.Project
	if err := json.Unmarshal(rec.Body.Bytes(), &project); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if project.ID != sess.project.ID || len(project.Clips) != 1 {
		t.Fatalf("unexpected project: %+v", project)
	}
}

func TestStitchEndpointMergesSnapshot(t *testing.T) {
	sess := newTestSession(t)
	sess.hasJob = true
	sess.snapshot = stitch.Snapshot{
		ProjectID:   sess.project.ID,
		Status:      timeline.StitchStitching,
		SubmittedAt: time.Now().UTC(),
		Stalled:     true,
	}
	router := httpapi.NewRouter(httpapi.Options{Logger: logging.NewNop(), Session: sess})

	rec := get(t, router, "/api/v1/stitch", "")
	var resp httpapi.StitchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ProjectID != sess.project.ID || resp.Status != timeline.StitchStitching {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.Stalled || resp.SubmittedAt == "" {
		t.Fatalf("snapshot fields missing: %+v", resp)
	}
}

func TestStitchEndpointWithoutJobFallsBackToProject(t *testing.T) {
	sess := newTestSession(t)
	sess.project = timeline.ApplyStitchResult(sess.project, timeline.StitchReady, "https://cdn.example.com/final.mp4", "")
	router := httpapi.NewRouter(httpapi.Options{Logger: logging.NewNop(), Session: sess})

	rec := get(t, router, "/api/v1/stitch", "")
	var resp httpapi.StitchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != timeline.StitchReady || resp.VideoURL != "https://cdn.example.com/final.mp4" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthRequiredWhenTokenConfigured(t *testing.T) {
	router := httpapi.NewRouter(httpapi.Options{
		Logger:  logging.NewNop(),
		Session: newTestSession(t),
		Token:   "secret",
	})

	if rec := get(t, router, "/api/v1/project", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", rec.Code)
	}
	if rec := get(t, router, "/api/v1/project", "wrong"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token status = %d", rec.Code)
	}
	if rec := get(t, router, "/api/v1/project", "secret"); rec.Code != http.StatusOK {
		t.Fatalf("valid token status = %d", rec.Code)
	}
	// Health stays open for probes.
	if rec := get(t, router, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}
