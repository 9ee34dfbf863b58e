package projectsync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"clipdeck/internal/logging"
	"clipdeck/internal/notifications"
	"clipdeck/internal/studio"
)

// PatchAPI is the slice of the Studio client the syncer depends on.
type PatchAPI interface {
	PatchProject(ctx context.Context, projectID string, patch studio.ProjectPatch) error
}

// Syncer pushes partial project updates to the Studio API in the background.
type Syncer struct {
	api      PatchAPI
	logger   *slog.Logger
	notifier notifications.Service
	timeout  time.Duration

	wg sync.WaitGroup
}

// New constructs a syncer. A zero timeout falls back to 15 seconds per write.
func New(api PatchAPI, logger *slog.Logger, notifier notifications.Service, timeout time.Duration) *Syncer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Syncer{
		api:      api,
		logger:   logging.NewComponentLogger(logger, "projectsync"),
		notifier: notifier,
		timeout:  timeout,
	}
}

// Sync launches a remote PATCH for the project and returns immediately.
// An empty patch is dropped without a write.
func (s *Syncer) Sync(projectID, projectTitle string, patch studio.ProjectPatch) {
	if s == nil || s.api == nil || patch.Empty() {
		return
	}
	correlationID := uuid.NewString()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.api.PatchProject(ctx, projectID, patch); err != nil {
			s.logger.Warn("remote project sync failed; local edits kept",
				logging.Error(err),
				logging.String(logging.FieldProjectID, projectID),
				logging.String(logging.FieldCorrelationID, correlationID),
				logging.String(logging.FieldEventType, "sync_failed"),
				logging.String(logging.FieldErrorHint, "check studio connectivity and token"),
			)
			if s.notifier != nil {
				notifyCtx, notifyCancel := context.WithTimeout(context.Background(), s.timeout)
				defer notifyCancel()
				_ = s.notifier.NotifySyncFailure(notifyCtx, projectTitle, err)
			}
			return
		}
		s.logger.Debug("remote project sync completed",
			logging.String(logging.FieldProjectID, projectID),
			logging.String(logging.FieldCorrelationID, correlationID),
		)
	}()
}

// Wait joins every in-flight write. Shutdown and tests use it; the editor
// never blocks on it mid-session.
func (s *Syncer) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}
