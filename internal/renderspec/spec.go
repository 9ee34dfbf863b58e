package renderspec

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"clipdeck/internal/timeline"
)

// ErrEmptyTimeline marks a build attempt against a project with no main clips.
var ErrEmptyTimeline = errors.New("timeline has no clips")

// Document is the render request payload submitted alongside a stitch job.
type Document struct {
	ProjectID string         `json:"projectId"`
	Clips     []MainEntry    `json:"clips"`
	Overlays  []OverlayEntry `json:"overlays,omitempty"`
	AudioURL  string         `json:"audioUrl,omitempty"`
}

// MainEntry is one concatenated segment of the main track. TrimEnd omitted
// means "to natural end".
type MainEntry struct {
	SourceURL string   `json:"sourceUrl"`
	TrimStart float64  `json:"trimStart"`
	TrimEnd   *float64 `json:"trimEnd,omitempty"`
	Muted     bool     `json:"muted"`
}

// OverlayEntry is one picture-in-picture overlay. Entries keep timeline list
// order because the worker composites overlapping overlays last-entry-wins.
type OverlayEntry struct {
	SourceURL     string                 `json:"sourceUrl"`
	OffsetSeconds float64                `json:"offsetSeconds"`
	Position      timeline.BrollPosition `json:"position"`
	Scale         float64                `json:"scale"`
}

// Build resolves a render document from a timeline snapshot. Clips are
// emitted in order-value order regardless of slice layout; the thumbnail is
// metadata only and never appears.
func Build(project timeline.Project) (Document, error) {
	if len(project.Clips) == 0 {
		return Document{}, fmt.Errorf("build render spec for %s: %w", project.ID, ErrEmptyTimeline)
	}

	clips := make([]timeline.Clip, len(project.Clips))
	for i, clip := range project.Clips {
		clips[i] = clip.Clone()
	}
	sort.SliceStable(clips, func(i, j int) bool { return clips[i].Order < clips[j].Order })

	doc := Document{
		ProjectID: project.ID,
		Clips:     make([]MainEntry, 0, len(clips)),
		AudioURL:  strings.TrimSpace(project.AudioURL),
	}
	for _, clip := range clips {
		entry := MainEntry{
			SourceURL: clip.SourceURL,
			TrimStart: clip.TrimStart,
			Muted:     clip.Muted,
		}
		if clip.TrimEnd != nil {
			end := *clip.TrimEnd
			entry.TrimEnd = &end
		}
		doc.Clips = append(doc.Clips, entry)
	}

	for _, broll := range project.BrollClips {
		doc.Overlays = append(doc.Overlays, OverlayEntry{
			SourceURL:     broll.SourceURL,
			OffsetSeconds: broll.OffsetSeconds,
			Position:      broll.Position,
			Scale:         broll.Scale,
		})
	}
	return doc, nil
}

// Parse loads a document from JSON, returning an empty document on blank input.
func Parse(raw string) (Document, error) {
	var doc Document
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return doc, nil
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Document{}, fmt.Errorf("parse render spec: %w", err)
	}
	return doc, nil
}

// Encode serialises the document to JSON.
func (d Document) Encode() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode render spec: %w", err)
	}
	return string(data), nil
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := d
	if len(d.Clips) > 0 {
		out.Clips = make([]MainEntry, len(d.Clips))
		for i, entry := range d.Clips {
			out.Clips[i] = entry
			if entry.TrimEnd != nil {
				end := *entry.TrimEnd
				out.Clips[i].TrimEnd = &end
			}
		}
	}
	if len(d.Overlays) > 0 {
		out.Overlays = make([]OverlayEntry, len(d.Overlays))
		copy(out.Overlays, d.Overlays)
	}
	return out
}
