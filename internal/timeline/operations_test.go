package timeline_test

import (
	"errors"
	"testing"

	"clipdeck/internal/timeline"
)

func newTimeline(t *testing.T, sources ...string) timeline.Project {
	t.Helper()
	project := timeline.NewProject("Launch Teaser")
	for _, source := range sources {
		var err error
		project, _, err = timeline.AddClip(project, timeline.ClipInput{SourceURL: source})
		if err != nil {
			t.Fatalf("AddClip(%q): %v", source, err)
		}
	}
	return project
}

func assertDenseOrder(t *testing.T, project timeline.Project) {
	t.Helper()
	for i, clip := range project.Clips {
		if clip.Order != i {
			t.Fatalf("clip %d has order %d, want %d", i, clip.Order, i)
		}
	}
}

func TestAddClipRequiresSource(t *testing.T) {
	project := timeline.NewProject("Empty")
	_, _, err := timeline.AddClip(project, timeline.ClipInput{SourceURL: "   "})
	if !errors.Is(err, timeline.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAddClipAssignsDenseOrderAndName(t *testing.T) {
	project := newTimeline(t, "https://cdn.example.com/media/intro_take-02.mp4", "https://cdn.example.com/media/outro.mp4")
	assertDenseOrder(t, project)
	if got := project.Clips[0].DisplayName; got != "Intro Take 02" {
		t.Fatalf("derived display name = %q", got)
	}
	if project.Clips[0].ID == "" || project.Clips[1].ID == "" {
		t.Fatal("expected generated clip ids")
	}
}

func TestRemoveClipReindexes(t *testing.T) {
	project := newTimeline(t, "a.mp4", "b.mp4", "c.mp4")
	removed := project.Clips[1].ID

	next, err := timeline.RemoveClip(project, removed)
	if err != nil {
		t.Fatalf("RemoveClip: %v", err)
	}
	if len(next.Clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(next.Clips))
	}
	assertDenseOrder(t, next)
	if len(project.Clips) != 3 {
		t.Fatal("input project mutated by RemoveClip")
	}

	if _, err := timeline.RemoveClip(next, "missing"); !errors.Is(err, timeline.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReorderClipsKeepsDensePermutation(t *testing.T) {
	project := newTimeline(t, "a.mp4", "b.mp4", "c.mp4", "d.mp4")
	first := project.Clips[0].ID

	next, err := timeline.ReorderClips(project, 0, 2)
	if err != nil {
		t.Fatalf("ReorderClips: %v", err)
	}
	if next.Clips[2].ID != first {
		t.Fatalf("expected clip %s at index 2, got %s", first, next.Clips[2].ID)
	}
	assertDenseOrder(t, next)

	// Out-of-range destination clamps; out-of-range source fails.
	next, err = timeline.ReorderClips(next, 3, 99)
	if err != nil {
		t.Fatalf("ReorderClips with clamped destination: %v", err)
	}
	assertDenseOrder(t, next)
	if _, err := timeline.ReorderClips(next, 9, 0); !errors.Is(err, timeline.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bad source index, got %v", err)
	}
}

func TestOrderStaysDenseAcrossEditSequences(t *testing.T) {
	project := newTimeline(t, "a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4")
	steps := []func(timeline.Project) (timeline.Project, error){
		func(p timeline.Project) (timeline.Project, error) { return timeline.ReorderClips(p, 4, 0) },
		func(p timeline.Project) (timeline.Project, error) { return timeline.RemoveClip(p, p.Clips[2].ID) },
		func(p timeline.Project) (timeline.Project, error) {
			next, _, err := timeline.AddClip(p, timeline.ClipInput{SourceURL: "f.mp4"})
			return next, err
		},
		func(p timeline.Project) (timeline.Project, error) { return timeline.ReorderClips(p, 1, 3) },
		func(p timeline.Project) (timeline.Project, error) { return timeline.RemoveClip(p, p.Clips[0].ID) },
	}
	for i, step := range steps {
		var err error
		project, err = step(project)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		assertDenseOrder(t, project)
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestSetTrimClampsIntoDuration(t *testing.T) {
	project := newTimeline(t, "a.mp4")
	clipID := project.Clips[0].ID
	project, err := timeline.SetDuration(project, clipID, 10)
	if err != nil {
		t.Fatalf("SetDuration: %v", err)
	}

	project, err = timeline.SetTrim(project, clipID, timeline.TrimUpdate{
		TrimStart: floatPtr(-3),
		TrimEnd:   floatPtr(42),
	})
	if err != nil {
		t.Fatalf("SetTrim: %v", err)
	}
	clip := project.Clips[0]
	if clip.TrimStart != 0 {
		t.Fatalf("trimStart = %v, want 0", clip.TrimStart)
	}
	if clip.TrimEnd == nil || *clip.TrimEnd != 10 {
		t.Fatalf("trimEnd = %v, want 10", clip.TrimEnd)
	}
}

func TestSetTrimStartNeverCrossesTrimEnd(t *testing.T) {
	project := newTimeline(t, "a.mp4")
	clipID := project.Clips[0].ID
	project, err := timeline.SetDuration(project, clipID, 10)
	if err != nil {
		t.Fatalf("SetDuration: %v", err)
	}
	project, err = timeline.SetTrim(project, clipID, timeline.TrimUpdate{TrimEnd: floatPtr(10)})
	if err != nil {
		t.Fatalf("SetTrim(trimEnd): %v", err)
	}
	project, err = timeline.SetTrim(project, clipID, timeline.TrimUpdate{TrimStart: floatPtr(12)})
	if err != nil {
		t.Fatalf("SetTrim(trimStart): %v", err)
	}

	clip := project.Clips[0]
	if clip.TrimEnd == nil {
		t.Fatal("trimEnd cleared unexpectedly")
	}
	if clip.TrimStart >= *clip.TrimEnd {
		t.Fatalf("stored trimStart %v >= trimEnd %v", clip.TrimStart, *clip.TrimEnd)
	}
	if clip.TrimStart > 10 {
		t.Fatalf("trimStart %v exceeds duration", clip.TrimStart)
	}
}

func TestSetTrimEndPushedAboveStart(t *testing.T) {
	project := newTimeline(t, "a.mp4")
	clipID := project.Clips[0].ID
	project, _ = timeline.SetDuration(project, clipID, 20)
	project, _ = timeline.SetTrim(project, clipID, timeline.TrimUpdate{TrimStart: floatPtr(5)})

	project, err := timeline.SetTrim(project, clipID, timeline.TrimUpdate{TrimEnd: floatPtr(3)})
	if err != nil {
		t.Fatalf("SetTrim: %v", err)
	}
	clip := project.Clips[0]
	if clip.TrimEnd == nil || *clip.TrimEnd <= clip.TrimStart {
		t.Fatalf("trim window collapsed: start=%v end=%v", clip.TrimStart, clip.TrimEnd)
	}
}

func TestSetTrimClearTrimEnd(t *testing.T) {
	project := newTimeline(t, "a.mp4")
	clipID := project.Clips[0].ID
	project, _ = timeline.SetTrim(project, clipID, timeline.TrimUpdate{TrimEnd: floatPtr(4)})
	project, err := timeline.SetTrim(project, clipID, timeline.TrimUpdate{ClearTrimEnd: true})
	if err != nil {
		t.Fatalf("SetTrim: %v", err)
	}
	if project.Clips[0].TrimEnd != nil {
		t.Fatalf("trimEnd = %v, want nil", *project.Clips[0].TrimEnd)
	}
}

func TestSetDurationReclampsExistingTrim(t *testing.T) {
	project := newTimeline(t, "a.mp4")
	clipID := project.Clips[0].ID
	// Duration unknown: a generous trim window is accepted as-is.
	project, _ = timeline.SetTrim(project, clipID, timeline.TrimUpdate{TrimStart: floatPtr(8), TrimEnd: floatPtr(30)})

	project, err := timeline.SetDuration(project, clipID, 6)
	if err != nil {
		t.Fatalf("SetDuration: %v", err)
	}
	clip := project.Clips[0]
	if clip.TrimEnd == nil || *clip.TrimEnd > 6 {
		t.Fatalf("trimEnd = %v, want <= 6", clip.TrimEnd)
	}
	if clip.TrimStart >= *clip.TrimEnd {
		t.Fatalf("trim window invalid after reclamp: start=%v end=%v", clip.TrimStart, *clip.TrimEnd)
	}
}

func TestSetMutedIdempotent(t *testing.T) {
	project := newTimeline(t, "a.mp4")
	clipID := project.Clips[0].ID

	once, err := timeline.SetMuted(project, clipID, true)
	if err != nil {
		t.Fatalf("SetMuted: %v", err)
	}
	twice, err := timeline.SetMuted(once, clipID, true)
	if err != nil {
		t.Fatalf("SetMuted (second): %v", err)
	}
	if !twice.Clips[0].Muted || once.Clips[0].Muted != twice.Clips[0].Muted {
		t.Fatalf("expected identical muted state, got %v then %v", once.Clips[0].Muted, twice.Clips[0].Muted)
	}

	if _, err := timeline.SetMuted(project, "missing", true); !errors.Is(err, timeline.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBrollClampsAndKeepsListOrder(t *testing.T) {
	project := newTimeline(t, "a.mp4")

	project, first, err := timeline.AddBroll(project, timeline.BrollInput{
		SourceURL:     "https://cdn.example.com/broll/reaction.mp4",
		OffsetSeconds: -4,
		Scale:         3,
	})
	if err != nil {
		t.Fatalf("AddBroll: %v", err)
	}
	if first.OffsetSeconds != 0 {
		t.Fatalf("offset = %v, want clamped to 0", first.OffsetSeconds)
	}
	if first.Scale != 1 {
		t.Fatalf("scale = %v, want clamped to 1", first.Scale)
	}
	if first.Position != timeline.PositionCenter {
		t.Fatalf("position = %v, want default center", first.Position)
	}

	project, second, err := timeline.AddBroll(project, timeline.BrollInput{
		SourceURL: "b.mp4",
		Position:  timeline.PositionTopRight,
		Scale:     0.25,
	})
	if err != nil {
		t.Fatalf("AddBroll (second): %v", err)
	}

	// Overlapping overlays composite last-added-wins, so updating the first
	// must not move it behind the second.
	project, err = timeline.UpdateBroll(project, first.ID, timeline.BrollInput{OffsetSeconds: 12, Scale: 0.5})
	if err != nil {
		t.Fatalf("UpdateBroll: %v", err)
	}
	if project.BrollClips[0].ID != first.ID || project.BrollClips[1].ID != second.ID {
		t.Fatal("broll list order changed across update")
	}
	if project.BrollClips[0].OffsetSeconds != 12 || project.BrollClips[0].Scale != 0.5 {
		t.Fatalf("unexpected updated broll: %+v", project.BrollClips[0])
	}

	if _, _, err := timeline.AddBroll(project, timeline.BrollInput{SourceURL: "c.mp4", Position: "middle"}); !errors.Is(err, timeline.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown position, got %v", err)
	}
	if _, err := timeline.RemoveBroll(project, "missing"); !errors.Is(err, timeline.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	project, err = timeline.RemoveBroll(project, first.ID)
	if err != nil {
		t.Fatalf("RemoveBroll: %v", err)
	}
	if len(project.BrollClips) != 1 || project.BrollClips[0].ID != second.ID {
		t.Fatalf("unexpected broll list after removal: %+v", project.BrollClips)
	}
}

func TestMediaOverrides(t *testing.T) {
	project := newTimeline(t, "a.mp4")

	project, err := timeline.SetAudioOverride(project, "https://cdn.example.com/audio/voiceover.m4a")
	if err != nil {
		t.Fatalf("SetAudioOverride: %v", err)
	}
	if project.AudioURL == "" {
		t.Fatal("audio override not stored")
	}
	project = timeline.ClearAudioOverride(project)
	if project.AudioURL != "" {
		t.Fatal("audio override not cleared")
	}

	if _, err := timeline.SetThumbnail(project, " "); !errors.Is(err, timeline.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	project, err = timeline.SetThumbnail(project, "https://cdn.example.com/thumbs/cover.png")
	if err != nil {
		t.Fatalf("SetThumbnail: %v", err)
	}
	project = timeline.ClearThumbnail(project)
	if project.ThumbnailURL != "" {
		t.Fatal("thumbnail not cleared")
	}
}

func TestApplyStitchResult(t *testing.T) {
	project := newTimeline(t, "a.mp4")

	project = timeline.ApplyStitchResult(project, timeline.StitchStitching, "", "")
	if project.StitchStatus != timeline.StitchStitching || project.StitchedVideoURL != "" || project.StitchError != "" {
		t.Fatalf("unexpected stitching state: %+v", project)
	}

	ready := timeline.ApplyStitchResult(project, timeline.StitchReady, "https://cdn.example.com/out/final.mp4", "")
	if ready.StitchedVideoURL == "" || ready.StitchError != "" {
		t.Fatalf("unexpected ready state: %+v", ready)
	}

	failed := timeline.ApplyStitchResult(project, timeline.StitchFailed, "", "renderer out of disk")
	if failed.StitchError != "renderer out of disk" || failed.StitchedVideoURL != "" {
		t.Fatalf("unexpected failed state: %+v", failed)
	}
}
