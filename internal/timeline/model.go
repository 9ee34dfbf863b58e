package timeline

import (
	"strings"

	"github.com/google/uuid"
)

// StitchStatus represents the render lifecycle of a project.
type StitchStatus string

const (
	StitchIdle      StitchStatus = "idle"
	StitchStitching StitchStatus = "stitching"
	StitchReady     StitchStatus = "ready"
	StitchFailed    StitchStatus = "failed"
)

// Terminal reports whether the status is a terminal render outcome.
func (s StitchStatus) Terminal() bool {
	return s == StitchReady || s == StitchFailed
}

// Rank orders stitch states along the forward-only lifecycle. Ready and
// failed are equally terminal.
func (s StitchStatus) Rank() int {
	switch s {
	case StitchIdle:
		return 0
	case StitchStitching:
		return 1
	case StitchReady, StitchFailed:
		return 2
	default:
		return 0
	}
}

// BrollPosition is the picture-in-picture corner (or center) an overlay is
// composited at.
type BrollPosition string

const (
	PositionTopLeft     BrollPosition = "top-left"
	PositionTopRight    BrollPosition = "top-right"
	PositionBottomLeft  BrollPosition = "bottom-left"
	PositionBottomRight BrollPosition = "bottom-right"
	PositionCenter      BrollPosition = "center"
)

var brollPositions = map[BrollPosition]struct{}{
	PositionTopLeft:     {},
	PositionTopRight:    {},
	PositionBottomLeft:  {},
	PositionBottomRight: {},
	PositionCenter:      {},
}

// ValidPosition reports whether value is a known overlay position.
func ValidPosition(value BrollPosition) bool {
	_, ok := brollPositions[value]
	return ok
}

// Clip is a segment of the main track. Order values are dense within a
// project: always a permutation 0..N-1.
type Clip struct {
	ID          string   `json:"id"`
	SourceURL   string   `json:"sourceUrl"`
	DisplayName string   `json:"displayName"`
	Duration    float64  `json:"duration,omitempty"` // natural seconds; 0 = unknown until media loads
	Order       int      `json:"order"`
	TrimStart   float64  `json:"trimStart"`
	TrimEnd     *float64 `json:"trimEnd,omitempty"` // nil = to natural end
	Muted       bool     `json:"muted"`
}

// Clone returns a deep copy of the clip.
func (c Clip) Clone() Clip {
	out := c
	if c.TrimEnd != nil {
		end := *c.TrimEnd
		out.TrimEnd = &end
	}
	return out
}

// BrollClip is an overlay segment composited on top of the main track during
// its own time window. Offsets are relative to the start of the stitched main
// track, not to any single clip. List order is stable because the render
// worker composites overlapping overlays last-added-wins.
type BrollClip struct {
	ID            string        `json:"id"`
	SourceURL     string        `json:"sourceUrl"`
	DisplayName   string        `json:"displayName"`
	OffsetSeconds float64       `json:"offsetSeconds"`
	Position      BrollPosition `json:"position"`
	Scale         float64       `json:"scale"` // fraction of frame width/height, (0, 1]
}

// Project is the aggregate root the editor operates on.
type Project struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Clips           []Clip       `json:"clips"`
	BrollClips      []BrollClip  `json:"brollClips"`
	AudioURL        string       `json:"audioUrl,omitempty"`
	ThumbnailURL    string       `json:"thumbnailUrl,omitempty"`
	StitchStatus    StitchStatus `json:"stitchStatus"`
	StitchedVideoURL string      `json:"stitchedVideoUrl,omitempty"`
	StitchError     string       `json:"stitchError,omitempty"`
}

// NewProject constructs an empty project with a fresh identifier.
func NewProject(title string) Project {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled Project"
	}
	return Project{
		ID:           uuid.NewString(),
		Title:        title,
		StitchStatus: StitchIdle,
	}
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	out := p
	if len(p.Clips) > 0 {
		out.Clips = make([]Clip, len(p.Clips))
		for i, clip := range p.Clips {
			out.Clips[i] = clip.Clone()
		}
	} else {
		out.Clips = nil
	}
	if len(p.BrollClips) > 0 {
		out.BrollClips = make([]BrollClip, len(p.BrollClips))
		copy(out.BrollClips, p.BrollClips)
	} else {
		out.BrollClips = nil
	}
	return out
}

// ClipByID returns the clip with the supplied id.
func (p Project) ClipByID(id string) (Clip, bool) {
	for _, clip := range p.Clips {
		if clip.ID == id {
			return clip.Clone(), true
		}
	}
	return Clip{}, false
}

// BrollByID returns the overlay clip with the supplied id.
func (p Project) BrollByID(id string) (BrollClip, bool) {
	for _, broll := range p.BrollClips {
		if broll.ID == id {
			return broll, true
		}
	}
	return BrollClip{}, false
}

// ClipInput carries the caller-supplied fields for a new main-track clip.
type ClipInput struct {
	ID          string
	SourceURL   string
	DisplayName string
	Duration    float64
}

// BrollInput carries the caller-supplied fields for a new or updated overlay.
type BrollInput struct {
	ID            string
	SourceURL     string
	DisplayName   string
	OffsetSeconds float64
	Position      BrollPosition
	Scale         float64
}

// TrimUpdate describes a partial trim change. Nil fields are left untouched;
// ClearTrimEnd resets the out point to the clip's natural end.
type TrimUpdate struct {
	TrimStart    *float64
	TrimEnd      *float64
	ClearTrimEnd bool
}
