package playback

import (
	"errors"
	"fmt"
	"log/slog"

	"clipdeck/internal/logging"
	"clipdeck/internal/timeline"
)

// ErrNoClip marks a playback operation with no clip selected.
var ErrNoClip = errors.New("no clip selected")

// TrimApplier applies a trim update to the selected clip in the timeline
// and returns the clip as stored, after clamping. The session supplies it
// so mark-in/mark-out flow through the same path as every other edit.
type TrimApplier func(clipID string, upd timeline.TrimUpdate) (timeline.Clip, error)

// State is a snapshot of the synchronizer for UI consumption.
type State struct {
	ClipID          string
	Cursor          float64
	Playing         bool
	NaturalDuration float64
	TrimStart       float64
	TrimEnd         *float64
}

// Synchronizer tracks the playback cursor for one selected clip at a time.
// It is single-threaded by design: every call arrives on the editor's event
// loop, mirroring the player element driving it.
type Synchronizer struct {
	logger *slog.Logger
	trim   TrimApplier

	clipID          string
	trimStart       float64
	trimEnd         *float64
	naturalDuration float64
	cursor          float64
	playing         bool
}

// New constructs a synchronizer. trim may be nil when mark-in/mark-out is
// not wired (read-only previews).
func New(logger *slog.Logger, trim TrimApplier) *Synchronizer {
	return &Synchronizer{
		logger: logging.NewComponentLogger(logger, "playback"),
		trim:   trim,
	}
}

// Select makes clip the playback target and resets all cursor state.
// There is no cross-clip continuity.
func (s *Synchronizer) Select(clip timeline.Clip) {
	s.clipID = clip.ID
	s.trimStart = clip.TrimStart
	s.trimEnd = cloneFloat(clip.TrimEnd)
	s.naturalDuration = 0
	s.cursor = 0
	s.playing = false
}

// Deselect clears the selection, e.g. after the clip is removed from the
// timeline.
func (s *Synchronizer) Deselect() {
	s.clipID = ""
	s.trimStart = 0
	s.trimEnd = nil
	s.naturalDuration = 0
	s.cursor = 0
	s.playing = false
}

// Refresh re-reads the trim window after an external edit to the selected
// clip. Other clips are ignored.
func (s *Synchronizer) Refresh(clip timeline.Clip) {
	if clip.ID != s.clipID {
		return
	}
	s.trimStart = clip.TrimStart
	s.trimEnd = cloneFloat(clip.TrimEnd)
}

// OnLoaded records the natural duration reported by the player and seeds
// the cursor to the in point when one is set.
func (s *Synchronizer) OnLoaded(naturalDuration float64) {
	if s.clipID == "" {
		return
	}
	if naturalDuration < 0 {
		naturalDuration = 0
	}
	s.naturalDuration = naturalDuration
	if s.trimStart > 0 {
		s.cursor = s.trimStart
	}
}

// Play starts playback from the current cursor.
func (s *Synchronizer) Play() {
	if s.clipID == "" {
		return
	}
	s.playing = true
}

// Pause stops playback in place.
func (s *Synchronizer) Pause() {
	s.playing = false
}

// OnTimeUpdate ingests a time tick from the player. Reaching the out point
// pauses playback and loops the cursor back to the in point so the trimmed
// segment can be previewed repeatedly.
func (s *Synchronizer) OnTimeUpdate(currentTime float64) {
	if s.clipID == "" {
		return
	}
	if s.trimEnd != nil && currentTime >= *s.trimEnd {
		s.cursor = s.trimStart
		s.playing = false
		return
	}
	s.cursor = currentTime
}

// Seek moves the cursor, clamped into [0, naturalDuration]. The trim window
// does not bound seeking: scrubbing outside it is how new trim points get
// placed.
func (s *Synchronizer) Seek(target float64) {
	if s.clipID == "" {
		return
	}
	if target < 0 {
		target = 0
	}
	if s.naturalDuration > 0 && target > s.naturalDuration {
		target = s.naturalDuration
	}
	s.cursor = target
}

// SetIn captures the cursor as the clip's new trim start.
func (s *Synchronizer) SetIn() error {
	return s.applyTrim(timeline.TrimUpdate{TrimStart: cloneFloat(&s.cursor)})
}

// SetOut captures the cursor as the clip's new trim end.
func (s *Synchronizer) SetOut() error {
	return s.applyTrim(timeline.TrimUpdate{TrimEnd: cloneFloat(&s.cursor)})
}

func (s *Synchronizer) applyTrim(upd timeline.TrimUpdate) error {
	if s.clipID == "" {
		return ErrNoClip
	}
	if s.trim == nil {
		return errors.New("trim updates are not wired for this preview")
	}
	clip, err := s.trim(s.clipID, upd)
	if err != nil {
		return fmt.Errorf("apply trim mark: %w", err)
	}
	s.Refresh(clip)
	s.logger.Debug("trim mark placed",
		logging.String(logging.FieldClipID, s.clipID),
		logging.Float64("cursor", s.cursor),
	)
	return nil
}

// State reports the current cursor state.
func (s *Synchronizer) State() State {
	return State{
		ClipID:          s.clipID,
		Cursor:          s.cursor,
		Playing:         s.playing,
		NaturalDuration: s.naturalDuration,
		TrimStart:       s.trimStart,
		TrimEnd:         cloneFloat(s.trimEnd),
	}
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
