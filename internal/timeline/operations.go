package timeline

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// trimEpsilon is the minimum width of a trim window. Clamping pulls an
// in point below the out point by at least this much.
const trimEpsilon = 0.001

// defaultBrollScale applies when a caller supplies a non-positive scale.
const defaultBrollScale = 0.3

// AddClip appends a clip to the end of the main track with the next dense
// order value.
func AddClip(p Project, in ClipInput) (Project, Clip, error) {
	source := strings.TrimSpace(in.SourceURL)
	if source == "" {
		return p, Clip{}, fmt.Errorf("add clip: source url is required: %w", ErrValidation)
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		name = DeriveDisplayName(source)
	}
	duration := in.Duration
	if duration < 0 {
		duration = 0
	}

	next := p.Clone()
	clip := Clip{
		ID:          id,
		SourceURL:   source,
		DisplayName: name,
		Duration:    duration,
		Order:       len(next.Clips),
	}
	next.Clips = append(next.Clips, clip)
	return next, clip.Clone(), nil
}

// RemoveClip deletes a clip and re-denses order for the remaining clips.
// Callers holding a selected-clip reference to the removed id must clear it.
func RemoveClip(p Project, clipID string) (Project, error) {
	idx := clipIndex(p, clipID)
	if idx < 0 {
		return p, fmt.Errorf("remove clip %s: %w", clipID, ErrNotFound)
	}
	next := p.Clone()
	next.Clips = append(next.Clips[:idx], next.Clips[idx+1:]...)
	reindexClips(next.Clips)
	return next, nil
}

// ReorderClips moves the clip at fromIndex to toIndex and re-denses order for
// every clip. toIndex is clamped into range; fromIndex out of range is an
// error so a stale drag handle cannot silently move the wrong clip.
func ReorderClips(p Project, fromIndex, toIndex int) (Project, error) {
	if fromIndex < 0 || fromIndex >= len(p.Clips) {
		return p, fmt.Errorf("reorder clips: index %d out of range: %w", fromIndex, ErrNotFound)
	}
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex >= len(p.Clips) {
		toIndex = len(p.Clips) - 1
	}

	next := p.Clone()
	moved := next.Clips[fromIndex]
	next.Clips = append(next.Clips[:fromIndex], next.Clips[fromIndex+1:]...)
	rest := append([]Clip{}, next.Clips[toIndex:]...)
	next.Clips = append(append(next.Clips[:toIndex], moved), rest...)
	reindexClips(next.Clips)
	return next, nil
}

// SetTrim applies a partial trim update, clamping into [0, duration] (when
// the natural duration is known) and keeping trimStart < trimEnd. Out-of-range
// input is clamped rather than rejected because trim is driven by a live
// scrubber that can momentarily disagree with the loaded duration.
func SetTrim(p Project, clipID string, upd TrimUpdate) (Project, error) {
	idx := clipIndex(p, clipID)
	if idx < 0 {
		return p, fmt.Errorf("set trim %s: %w", clipID, ErrNotFound)
	}

	next := p.Clone()
	clip := &next.Clips[idx]

	startChanged := upd.TrimStart != nil
	endChanged := upd.TrimEnd != nil
	if startChanged {
		clip.TrimStart = *upd.TrimStart
	}
	switch {
	case upd.ClearTrimEnd:
		clip.TrimEnd = nil
	case endChanged:
		end := *upd.TrimEnd
		clip.TrimEnd = &end
	}

	clampTrim(clip, startChanged && !endChanged)
	return next, nil
}

// SetMuted toggles the clip's audio contribution. Idempotent.
func SetMuted(p Project, clipID string, muted bool) (Project, error) {
	idx := clipIndex(p, clipID)
	if idx < 0 {
		return p, fmt.Errorf("set muted %s: %w", clipID, ErrNotFound)
	}
	next := p.Clone()
	next.Clips[idx].Muted = muted
	return next, nil
}

// SetDuration records the natural duration once media metadata loads and
// re-clamps any existing trim against the now-known bound.
func SetDuration(p Project, clipID string, seconds float64) (Project, error) {
	idx := clipIndex(p, clipID)
	if idx < 0 {
		return p, fmt.Errorf("set duration %s: %w", clipID, ErrNotFound)
	}
	if seconds < 0 {
		seconds = 0
	}
	next := p.Clone()
	clip := &next.Clips[idx]
	clip.Duration = seconds
	clampTrim(clip, true)
	return next, nil
}

// AddBroll appends an overlay clip. Offset and scale are clamped; the
// position defaults to center when empty and is otherwise validated.
func AddBroll(p Project, in BrollInput) (Project, BrollClip, error) {
	source := strings.TrimSpace(in.SourceURL)
	if source == "" {
		return p, BrollClip{}, fmt.Errorf("add broll: source url is required: %w", ErrValidation)
	}
	position := in.Position
	if position == "" {
		position = PositionCenter
	}
	if !ValidPosition(position) {
		return p, BrollClip{}, fmt.Errorf("add broll: unknown position %q: %w", in.Position, ErrValidation)
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		name = DeriveDisplayName(source)
	}

	next := p.Clone()
	broll := BrollClip{
		ID:            id,
		SourceURL:     source,
		DisplayName:   name,
		OffsetSeconds: clampOffset(in.OffsetSeconds),
		Position:      position,
		Scale:         clampScale(in.Scale),
	}
	next.BrollClips = append(next.BrollClips, broll)
	return next, broll, nil
}

// UpdateBroll replaces the mutable fields of an existing overlay in place so
// the list order (and therefore compositing order) stays stable.
func UpdateBroll(p Project, brollID string, in BrollInput) (Project, error) {
	idx := brollIndex(p, brollID)
	if idx < 0 {
		return p, fmt.Errorf("update broll %s: %w", brollID, ErrNotFound)
	}
	position := in.Position
	if position == "" {
		position = p.BrollClips[idx].Position
	}
	if !ValidPosition(position) {
		return p, fmt.Errorf("update broll %s: unknown position %q: %w", brollID, in.Position, ErrValidation)
	}

	next := p.Clone()
	broll := &next.BrollClips[idx]
	if source := strings.TrimSpace(in.SourceURL); source != "" {
		broll.SourceURL = source
	}
	if name := strings.TrimSpace(in.DisplayName); name != "" {
		broll.DisplayName = name
	}
	broll.OffsetSeconds = clampOffset(in.OffsetSeconds)
	broll.Position = position
	if in.Scale > 0 {
		broll.Scale = clampScale(in.Scale)
	}
	return next, nil
}

// RemoveBroll deletes an overlay clip. No reindexing is needed: overlays
// carry no ordering invariant beyond stable list order.
func RemoveBroll(p Project, brollID string) (Project, error) {
	idx := brollIndex(p, brollID)
	if idx < 0 {
		return p, fmt.Errorf("remove broll %s: %w", brollID, ErrNotFound)
	}
	next := p.Clone()
	next.BrollClips = append(next.BrollClips[:idx], next.BrollClips[idx+1:]...)
	return next, nil
}

// SetAudioOverride replaces the audio of the entire concatenated main track.
func SetAudioOverride(p Project, url string) (Project, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return p, fmt.Errorf("set audio override: url is required: %w", ErrValidation)
	}
	next := p.Clone()
	next.AudioURL = url
	return next, nil
}

// ClearAudioOverride restores per-clip audio.
func ClearAudioOverride(p Project) Project {
	next := p.Clone()
	next.AudioURL = ""
	return next
}

// SetThumbnail records the project thumbnail. Metadata only, never composited
// into the video stream.
func SetThumbnail(p Project, url string) (Project, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return p, fmt.Errorf("set thumbnail: url is required: %w", ErrValidation)
	}
	next := p.Clone()
	next.ThumbnailURL = url
	return next, nil
}

// ClearThumbnail removes the project thumbnail.
func ClearThumbnail(p Project) Project {
	next := p.Clone()
	next.ThumbnailURL = ""
	return next
}

// ApplyStitchResult feeds a render outcome back into the project. A stitching
// transition clears any prior output and error; terminal transitions record
// exactly one of the two.
func ApplyStitchResult(p Project, status StitchStatus, videoURL, errMsg string) Project {
	next := p.Clone()
	next.StitchStatus = status
	switch status {
	case StitchStitching, StitchIdle:
		next.StitchedVideoURL = ""
		next.StitchError = ""
	case StitchReady:
		next.StitchedVideoURL = strings.TrimSpace(videoURL)
		next.StitchError = ""
	case StitchFailed:
		next.StitchedVideoURL = ""
		next.StitchError = strings.TrimSpace(errMsg)
	}
	return next
}

func clipIndex(p Project, clipID string) int {
	for i, clip := range p.Clips {
		if clip.ID == clipID {
			return i
		}
	}
	return -1
}

func brollIndex(p Project, brollID string) int {
	for i, broll := range p.BrollClips {
		if broll.ID == brollID {
			return i
		}
	}
	return -1
}

func reindexClips(clips []Clip) {
	for i := range clips {
		clips[i].Order = i
	}
}

// clampTrim enforces 0 <= trimStart < trimEnd <= duration in place.
// preferStart controls which bound gives way when the window collapses: a
// start-driven change pulls the start below the end, an end-driven change
// pushes the end above the start.
func clampTrim(clip *Clip, preferStart bool) {
	if clip.TrimStart < 0 {
		clip.TrimStart = 0
	}
	if clip.Duration > 0 && clip.TrimStart > clip.Duration {
		clip.TrimStart = clip.Duration
	}
	if clip.TrimEnd == nil {
		return
	}
	end := *clip.TrimEnd
	if clip.Duration > 0 && end > clip.Duration {
		end = clip.Duration
	}
	if end <= 0 {
		clip.TrimEnd = nil
		return
	}
	if clip.TrimStart >= end {
		if preferStart {
			clip.TrimStart = end - trimEpsilon
			if clip.TrimStart < 0 {
				clip.TrimStart = 0
			}
		} else {
			end = clip.TrimStart + trimEpsilon
			if clip.Duration > 0 && end > clip.Duration {
				end = clip.Duration
				clip.TrimStart = end - trimEpsilon
				if clip.TrimStart < 0 {
					clip.TrimStart = 0
				}
			}
		}
	}
	clip.TrimEnd = &end
}

func clampOffset(offset float64) float64 {
	if offset < 0 {
		return 0
	}
	return offset
}

func clampScale(scale float64) float64 {
	if scale <= 0 {
		return defaultBrollScale
	}
	if scale > 1 {
		return 1
	}
	return scale
}
