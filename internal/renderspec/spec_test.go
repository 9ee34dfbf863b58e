package renderspec_test

import (
	"errors"
	"strings"
	"testing"

	"clipdeck/internal/renderspec"
	"clipdeck/internal/timeline"
)

func floatPtr(v float64) *float64 { return &v }

func buildProject(t *testing.T) timeline.Project {
	t.Helper()
	project := timeline.NewProject("Render Me")
	for _, source := range []string{"one.mp4", "two.mp4", "three.mp4"} {
		var err error
		project, _, err = timeline.AddClip(project, timeline.ClipInput{SourceURL: source})
		if err != nil {
			t.Fatalf("AddClip: %v", err)
		}
	}
	return project
}

func TestBuildRejectsEmptyTimeline(t *testing.T) {
	_, err := renderspec.Build(timeline.NewProject("empty"))
	if !errors.Is(err, renderspec.ErrEmptyTimeline) {
		t.Fatalf("expected ErrEmptyTimeline, got %v", err)
	}
}

func TestBuildFollowsTimelineOrderAfterReorder(t *testing.T) {
	project := buildProject(t)
	project, err := timeline.ReorderClips(project, 2, 0)
	if err != nil {
		t.Fatalf("ReorderClips: %v", err)
	}

	doc, err := renderspec.Build(project)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"three.mp4", "one.mp4", "two.mp4"}
	for i, entry := range doc.Clips {
		if entry.SourceURL != want[i] {
			t.Fatalf("clip %d = %q, want %q", i, entry.SourceURL, want[i])
		}
	}
}

func TestBuildResolvesTrimMuteOverlaysAndAudio(t *testing.T) {
	project := buildProject(t)
	clipID := project.Clips[0].ID
	project, _ = timeline.SetDuration(project, clipID, 30)
	project, _ = timeline.SetTrim(project, clipID, timeline.TrimUpdate{TrimStart: floatPtr(2.5), TrimEnd: floatPtr(9)})
	project, _ = timeline.SetMuted(project, clipID, true)
	project, _, err := timeline.AddBroll(project, timeline.BrollInput{
		SourceURL:     "overlay.mp4",
		OffsetSeconds: 4,
		Position:      timeline.PositionBottomRight,
		Scale:         0.4,
	})
	if err != nil {
		t.Fatalf("AddBroll: %v", err)
	}
	project, _ = timeline.SetAudioOverride(project, "voiceover.m4a")
	project, _ = timeline.SetThumbnail(project, "cover.png")

	doc, err := renderspec.Build(project)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	first := doc.Clips[0]
	if first.TrimStart != 2.5 || first.TrimEnd == nil || *first.TrimEnd != 9 || !first.Muted {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	// Untouched clips keep default trim and omit trimEnd entirely.
	if doc.Clips[1].TrimEnd != nil {
		t.Fatalf("expected nil trimEnd for untrimmed clip, got %v", *doc.Clips[1].TrimEnd)
	}
	if len(doc.Overlays) != 1 || doc.Overlays[0].Position != timeline.PositionBottomRight {
		t.Fatalf("unexpected overlays: %+v", doc.Overlays)
	}
	if doc.AudioURL != "voiceover.m4a" {
		t.Fatalf("audio override = %q", doc.AudioURL)
	}

	encoded, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(encoded, "cover.png") {
		t.Fatal("thumbnail leaked into render spec")
	}
	if strings.Contains(encoded, `"trimEnd"`) && doc.Clips[1].TrimEnd == nil {
		// trimEnd must appear only for the trimmed clip.
		if strings.Count(encoded, `"trimEnd"`) != 1 {
			t.Fatalf("trimEnd emitted for untrimmed clips: %s", encoded)
		}
	}

	parsed, err := renderspec.Parse(encoded)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed.Clips) != 3 || parsed.ProjectID != project.ID {
		t.Fatalf("round trip lost data: %+v", parsed)
	}
}

func TestParseBlankInput(t *testing.T) {
	doc, err := renderspec.Parse("   ")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Clips) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}
