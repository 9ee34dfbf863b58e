package session

import (
	"context"
	"fmt"

	"clipdeck/internal/logging"
	"clipdeck/internal/renderspec"
	"clipdeck/internal/stitch"
	"clipdeck/internal/studio"
	"clipdeck/internal/timeline"
)

// renderAdapter narrows the Studio client to the orchestrator's view of the
// render endpoints.
type renderAdapter struct {
	api StudioAPI
}

func (a renderAdapter) SubmitStitch(ctx context.Context, projectID string, doc renderspec.Document) error {
	return a.api.SubmitStitch(ctx, projectID, doc)
}

func (a renderAdapter) GetStitchStatus(ctx context.Context, projectID string) (stitch.JobStatus, error) {
	state, err := a.api.GetStitchStatus(ctx, projectID)
	if err != nil {
		return stitch.JobStatus{}, err
	}
	return stitch.JobStatus{
		State:        state.Status,
		VideoURL:     state.StitchedVideoURL,
		ErrorMessage: state.StitchError,
	}, nil
}

// SubmitStitch snapshots the timeline, submits the render, and marks the
// project stitching. A rejected submission leaves the project untouched.
func (s *Session) SubmitStitch(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	snapshot := s.project.Clone()
	s.mu.Unlock()

	if err := s.orch.Submit(ctx, snapshot); err != nil {
		return fmt.Errorf("stitch %s: %w", snapshot.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := timeline.ApplyStitchResult(s.project, timeline.StitchStitching, "", "")
	s.commit(ctx, next, studio.StitchPatch(next))
	return nil
}

// StitchSnapshot reports the orchestrator's view of the project's render.
func (s *Session) StitchSnapshot() (stitch.Snapshot, bool) {
	s.mu.Lock()
	projectID := s.project.ID
	s.mu.Unlock()
	return s.orch.Status(projectID)
}

// applyOutcome folds a terminal render result back into the timeline and
// mirrors it remotely. Runs on the orchestrator's poll goroutine.
func (s *Session) applyOutcome(outcome stitch.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || outcome.ProjectID != s.project.ID {
		return
	}
	next := timeline.ApplyStitchResult(s.project, outcome.Status, outcome.VideoURL, outcome.ErrorMessage)
	s.commit(context.Background(), next, studio.StitchPatch(next))
	s.logger.Info("stitch outcome applied",
		logging.String(logging.FieldProjectID, outcome.ProjectID),
		logging.String(logging.FieldStitchState, string(outcome.Status)),
	)
}
