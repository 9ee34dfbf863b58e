package preflight_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"clipdeck/internal/preflight"
	"clipdeck/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := preflight.CheckDirectoryAccess("Data directory", dir)
	if !result.Passed {
		t.Fatalf("expected pass for %s: %s", dir, result.Detail)
	}

	missing := preflight.CheckDirectoryAccess("Data directory", filepath.Join(dir, "missing"))
	if missing.Passed {
		t.Fatal("expected failure for a missing directory")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	result := preflight.CheckFreeSpace("Draft disk space", t.TempDir(), 1)
	if !result.Passed {
		t.Fatalf("expected pass: %s", result.Detail)
	}

	// An absurd requirement fails with a detail rather than an error.
	huge := preflight.CheckFreeSpace("Draft disk space", t.TempDir(), 1<<60)
	if huge.Passed {
		t.Fatal("expected failure for unreachable free-space floor")
	}
}

func TestCheckStudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	ctx := context.Background()

	ok := preflight.CheckStudio(ctx, server.URL, "good-token")
	if !ok.Passed {
		t.Fatalf("expected pass: %s", ok.Detail)
	}

	bad := preflight.CheckStudio(ctx, server.URL, "bad-token")
	if bad.Passed || bad.Detail != "auth failed (invalid token)" {
		t.Fatalf("unexpected result: %+v", bad)
	}

	if missing := preflight.CheckStudio(ctx, "", "token"); missing.Passed {
		t.Fatal("expected failure for missing base url")
	}
}

func TestCheckNtfyTopic(t *testing.T) {
	if result := preflight.CheckNtfyTopic("https://ntfy.sh/clipdeck"); !result.Passed {
		t.Fatalf("expected pass: %s", result.Detail)
	}
	if result := preflight.CheckNtfyTopic("clipdeck"); result.Passed {
		t.Fatal("expected failure for bare topic name")
	}
}

func TestRunAllAgainstTestConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithStudio(server.URL, "token"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := preflight.RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if !preflight.AllPassed(results) {
		for _, result := range results {
			t.Logf("%s: passed=%v %s", result.Name, result.Passed, result.Detail)
		}
		t.Fatal("expected all checks to pass")
	}
}
