package draftstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"clipdeck/internal/draftstore"
	"clipdeck/internal/testsupport"
	"clipdeck/internal/timeline"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	project := testsupport.NewProject(t, "Launch Teaser", "intro.mp4", "demo.mp4")
	trimEnd := 4.5
	project, err := timeline.SetTrim(project, project.Clips[0].ID, timeline.TrimUpdate{TrimEnd: &trimEnd})
	if err != nil {
		t.Fatalf("SetTrim: %v", err)
	}
	project, _, err = timeline.AddBroll(project, timeline.BrollInput{SourceURL: "overlay.mp4", OffsetSeconds: 2})
	if err != nil {
		t.Fatalf("AddBroll: %v", err)
	}

	if err := store.Save(ctx, project); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(ctx, project.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != project.ID || loaded.Title != "Launch Teaser" {
		t.Fatalf("unexpected project: %+v", loaded)
	}
	if len(loaded.Clips) != 2 || len(loaded.BrollClips) != 1 {
		t.Fatalf("clips=%d broll=%d", len(loaded.Clips), len(loaded.BrollClips))
	}
	if loaded.Clips[0].TrimEnd == nil || *loaded.Clips[0].TrimEnd != 4.5 {
		t.Fatalf("trimEnd = %v", loaded.Clips[0].TrimEnd)
	}
	if loaded.Clips[0].Order != 0 || loaded.Clips[1].Order != 1 {
		t.Fatalf("order = %d,%d", loaded.Clips[0].Order, loaded.Clips[1].Order)
	}
}

func TestSaveOverwritesPriorSnapshot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	project := testsupport.NewProject(t, "Draft", "a.mp4")
	testsupport.SaveDraft(t, store, project)

	project, err := timeline.RemoveClip(project, project.Clips[0].ID)
	if err != nil {
		t.Fatalf("RemoveClip: %v", err)
	}
	project = timeline.ApplyStitchResult(project, timeline.StitchFailed, "", "no clips")
	testsupport.SaveDraft(t, store, project)

	loaded, err := store.Load(ctx, project.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Clips) != 0 {
		t.Fatalf("expected empty timeline, got %d clips", len(loaded.Clips))
	}
	if loaded.StitchStatus != timeline.StitchFailed || loaded.StitchError != "no clips" {
		t.Fatalf("stitch state = %v / %q", loaded.StitchStatus, loaded.StitchError)
	}

	summaries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one draft row, got %d", len(summaries))
	}
}

func TestLoadMissingDraft(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := store.Load(context.Background(), "nope")
	if !errors.Is(err, draftstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListOrdersByRecency(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := testsupport.NewProject(t, "First", "a.mp4")
	second := testsupport.NewProject(t, "Second", "b.mp4")
	testsupport.SaveDraft(t, store, first)
	time.Sleep(2 * time.Millisecond)
	testsupport.SaveDraft(t, store, second)
	time.Sleep(2 * time.Millisecond)
	// Touch the first draft again so it becomes the most recent.
	testsupport.SaveDraft(t, store, first)

	summaries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(summaries))
	}
	if summaries[0].ProjectID != first.ID {
		t.Fatalf("expected %s first, got %s", first.ID, summaries[0].ProjectID)
	}
	if summaries[0].ProjectTitle != "First" || summaries[0].StitchStatus != timeline.StitchIdle {
		t.Fatalf("unexpected summary: %+v", summaries[0])
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	project := testsupport.NewProject(t, "Gone Soon", "a.mp4")
	testsupport.SaveDraft(t, store, project)

	if err := store.Delete(ctx, project.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, project.ID); !errors.Is(err, draftstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, project.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}
