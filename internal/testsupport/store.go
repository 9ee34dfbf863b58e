package testsupport

import (
	"context"
	"testing"

	"clipdeck/internal/config"
	"clipdeck/internal/draftstore"
	"clipdeck/internal/timeline"
)

// MustOpenStore opens a draftstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *draftstore.Store {
	t.Helper()

	store, err := draftstore.Open(cfg)
	if err != nil {
		t.Fatalf("draftstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewProject builds a project with one main clip per source URL.
func NewProject(t testing.TB, title string, sources ...string) timeline.Project {
	t.Helper()

	project := timeline.NewProject(title)
	for _, source := range sources {
		next, _, err := timeline.AddClip(project, timeline.ClipInput{SourceURL: source})
		if err != nil {
			t.Fatalf("timeline.AddClip(%q): %v", source, err)
		}
		project = next
	}
	return project
}

// SaveDraft persists a project snapshot for tests.
func SaveDraft(t testing.TB, store *draftstore.Store, project timeline.Project) {
	t.Helper()

	if err := store.Save(context.Background(), project); err != nil {
		t.Fatalf("store.Save: %v", err)
	}
}
