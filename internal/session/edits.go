package session

import (
	"context"

	"clipdeck/internal/studio"
	"clipdeck/internal/timeline"
)

// AddClip appends a main clip to the end of the timeline.
func (s *Session) AddClip(ctx context.Context, in timeline.ClipInput) (timeline.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return timeline.Clip{}, ErrClosed
	}
	next, clip, err := timeline.AddClip(s.project, in)
	if err != nil {
		return timeline.Clip{}, err
	}
	s.commit(ctx, next, studio.ClipsPatch(next))
	return clip, nil
}

// RemoveClip deletes a main clip. Removing the selected clip clears the
// selection and resets the player.
func (s *Session) RemoveClip(ctx context.Context, clipID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next, err := timeline.RemoveClip(s.project, clipID)
	if err != nil {
		return err
	}
	if s.selected == clipID {
		s.selected = ""
		s.player.Deselect()
	}
	s.commit(ctx, next, studio.ClipsPatch(next))
	return nil
}

// MoveClip moves a main clip from one timeline index to another.
func (s *Session) MoveClip(ctx context.Context, fromIndex, toIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next, err := timeline.ReorderClips(s.project, fromIndex, toIndex)
	if err != nil {
		return err
	}
	s.commit(ctx, next, studio.ClipsPatch(next))
	return nil
}

// SetTrim updates a clip's trim window and returns the clip as stored.
func (s *Session) SetTrim(ctx context.Context, clipID string, upd timeline.TrimUpdate) (timeline.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setTrimLocked(ctx, clipID, upd)
}

func (s *Session) setTrimLocked(ctx context.Context, clipID string, upd timeline.TrimUpdate) (timeline.Clip, error) {
	if s.closed {
		return timeline.Clip{}, ErrClosed
	}
	next, err := timeline.SetTrim(s.project, clipID, upd)
	if err != nil {
		return timeline.Clip{}, err
	}
	s.commit(ctx, next, studio.ClipsPatch(next))
	clip, _ := next.ClipByID(clipID)
	if s.selected == clipID {
		s.player.Refresh(clip)
	}
	return clip, nil
}

// applyPlayerTrim routes mark-in/mark-out from the playback synchronizer
// through the same commit path as direct trim edits.
func (s *Session) applyPlayerTrim(clipID string, upd timeline.TrimUpdate) (timeline.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setTrimLocked(context.Background(), clipID, upd)
}

// SetMuted toggles a clip's audio contribution to the stitched output.
func (s *Session) SetMuted(ctx context.Context, clipID string, muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next, err := timeline.SetMuted(s.project, clipID, muted)
	if err != nil {
		return err
	}
	s.commit(ctx, next, studio.ClipsPatch(next))
	return nil
}

// SetClipDuration records a clip's natural duration once the media has been
// probed, re-clamping any stored trim window against it.
func (s *Session) SetClipDuration(ctx context.Context, clipID string, seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next, err := timeline.SetDuration(s.project, clipID, seconds)
	if err != nil {
		return err
	}
	s.commit(ctx, next, studio.ClipsPatch(next))
	if s.selected == clipID {
		clip, _ := next.ClipByID(clipID)
		s.player.Refresh(clip)
	}
	return nil
}

// AddBroll adds an overlay clip.
func (s *Session) AddBroll(ctx context.Context, in timeline.BrollInput) (timeline.BrollClip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return timeline.BrollClip{}, ErrClosed
	}
	next, broll, err := timeline.AddBroll(s.project, in)
	if err != nil {
		return timeline.BrollClip{}, err
	}
	s.commit(ctx, next, studio.BrollPatch(next))
	return broll, nil
}

// UpdateBroll adjusts an overlay clip's offset, position, or scale in place.
func (s *Session) UpdateBroll(ctx context.Context, brollID string, in timeline.BrollInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next, err := timeline.UpdateBroll(s.project, brollID, in)
	if err != nil {
		return err
	}
	s.commit(ctx, next, studio.BrollPatch(next))
	return nil
}

// RemoveBroll deletes an overlay clip.
func (s *Session) RemoveBroll(ctx context.Context, brollID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next, err := timeline.RemoveBroll(s.project, brollID)
	if err != nil {
		return err
	}
	s.commit(ctx, next, studio.BrollPatch(next))
	return nil
}

// SetAudioOverride replaces the stitched output's audio track.
func (s *Session) SetAudioOverride(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next, err := timeline.SetAudioOverride(s.project, url)
	if err != nil {
		return err
	}
	s.commit(ctx, next, studio.AudioPatch(next))
	return nil
}

// ClearAudioOverride restores the clips' own audio.
func (s *Session) ClearAudioOverride(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next := timeline.ClearAudioOverride(s.project)
	s.commit(ctx, next, studio.AudioPatch(next))
	return nil
}

// SetThumbnail records the project's cover image URL.
func (s *Session) SetThumbnail(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next, err := timeline.SetThumbnail(s.project, url)
	if err != nil {
		return err
	}
	s.commit(ctx, next, studio.ThumbnailPatch(next))
	return nil
}

// ClearThumbnail removes the cover image.
func (s *Session) ClearThumbnail(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next := timeline.ClearThumbnail(s.project)
	s.commit(ctx, next, studio.ThumbnailPatch(next))
	return nil
}

// Rename changes the project title.
func (s *Session) Rename(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next := s.project.Clone()
	next.Title = title
	s.commit(ctx, next, studio.ProjectPatch{Title: &title})
	return nil
}
