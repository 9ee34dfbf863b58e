package stitch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"clipdeck/internal/logging"
	"clipdeck/internal/notifications"
	"clipdeck/internal/renderspec"
	"clipdeck/internal/timeline"
)

// ErrSubmissionRejected marks a submit refused before any render started:
// empty timeline, already-stitching project, or a synchronous server
// rejection. The orchestrator state is unchanged when it is returned.
var ErrSubmissionRejected = errors.New("stitch submission rejected")

// JobStatus is the render worker's answer to a status poll.
type JobStatus struct {
	State        timeline.StitchStatus
	VideoURL     string
	ErrorMessage string
}

// RenderAPI is the slice of the Studio client the orchestrator depends on.
type RenderAPI interface {
	SubmitStitch(ctx context.Context, projectID string, doc renderspec.Document) error
	GetStitchStatus(ctx context.Context, projectID string) (JobStatus, error)
}

// Outcome is a terminal render result delivered to the OnOutcome hook.
type Outcome struct {
	ProjectID    string
	Status       timeline.StitchStatus
	VideoURL     string
	ErrorMessage string
}

// Snapshot is the orchestrator state exposed to the UI for one project.
type Snapshot struct {
	ProjectID    string
	Status       timeline.StitchStatus
	VideoURL     string
	ErrorMessage string
	SubmittedAt  time.Time
	Stalled      bool
}

// Options configures orchestrator behavior.
type Options struct {
	// PollInterval is the fixed delay between status polls.
	PollInterval time.Duration
	// StallAfter flags a submission as stalled once this much time passes
	// without a terminal outcome. Zero disables stall tracking.
	StallAfter time.Duration
	// RequestTimeout bounds each individual status poll.
	RequestTimeout time.Duration
	// OnOutcome receives terminal outcomes. Called outside internal locks.
	OnOutcome func(Outcome)
}

// Orchestrator owns the poll loops for every project the session touches.
type Orchestrator struct {
	api      RenderAPI
	logger   *slog.Logger
	notifier notifications.Service
	opts     Options

	mu     sync.Mutex
	jobs   map[string]*job
	closed bool
	wg     sync.WaitGroup
}

type job struct {
	projectID    string
	projectTitle string
	cancel       context.CancelFunc
	submittedAt  time.Time
	status       timeline.StitchStatus
	videoURL     string
	errorMessage string
	stalled      bool
	stallWarned  bool
}

// New constructs an orchestrator.
func New(api RenderAPI, logger *slog.Logger, notifier notifications.Service, opts Options) *Orchestrator {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 3 * time.Second
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	return &Orchestrator{
		api:      api,
		logger:   logging.NewComponentLogger(logger, "stitch"),
		notifier: notifier,
		opts:     opts,
		jobs:     make(map[string]*job),
	}
}

// Submit builds a render request from a snapshot of the project's timeline,
// posts it, and starts the poll loop. A project with no main clips or one
// already stitching is rejected synchronously with ErrSubmissionRejected and
// the orchestrator stays in its prior state.
func (o *Orchestrator) Submit(ctx context.Context, project timeline.Project) error {
	doc, err := renderspec.Build(project)
	if err != nil {
		if errors.Is(err, renderspec.ErrEmptyTimeline) {
			return fmt.Errorf("submit %s: timeline has no clips: %w", project.ID, ErrSubmissionRejected)
		}
		return fmt.Errorf("submit %s: %w", project.ID, err)
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return errors.New("stitch orchestrator is closed")
	}
	if existing := o.jobs[project.ID]; existing != nil && existing.status == timeline.StitchStitching {
		o.mu.Unlock()
		return fmt.Errorf("submit %s: render already in progress: %w", project.ID, ErrSubmissionRejected)
	}
	o.mu.Unlock()

	if err := o.api.SubmitStitch(ctx, project.ID, doc); err != nil {
		return fmt.Errorf("submit %s: %w", project.ID, err)
	}

	o.logger.Info("stitch submitted",
		logging.String(logging.FieldProjectID, project.ID),
		logging.Int("clips", len(doc.Clips)),
		logging.Int("overlays", len(doc.Overlays)),
		logging.String(logging.FieldEventType, "stitch_submitted"),
	)
	if o.notifier != nil {
		_ = o.notifier.NotifyStitchSubmitted(ctx, project.Title)
	}

	o.startLoop(project.ID, project.Title)
	return nil
}

// Resume starts polling a project whose render was already in flight when
// the session opened (e.g. a draft recorded stitchStatus=stitching). No new
// render is submitted.
func (o *Orchestrator) Resume(project timeline.Project) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	if existing := o.jobs[project.ID]; existing != nil && existing.status == timeline.StitchStitching {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	o.logger.Info("resuming stitch polling",
		logging.String(logging.FieldProjectID, project.ID),
		logging.String(logging.FieldEventType, "stitch_resumed"),
	)
	o.startLoop(project.ID, project.Title)
}

// startLoop installs a fresh job for the project, cancelling any previous
// loop for the same id so two loops never race on one project's state.
func (o *Orchestrator) startLoop(projectID, projectTitle string) {
	runCtx, cancel := context.WithCancel(context.Background())

	o.mu.Lock()
	if prev := o.jobs[projectID]; prev != nil && prev.cancel != nil {
		prev.cancel()
	}
	j := &job{
		projectID:    projectID,
		projectTitle: projectTitle,
		cancel:       cancel,
		submittedAt:  time.Now().UTC(),
		status:       timeline.StitchStitching,
	}
	o.jobs[projectID] = j
	o.wg.Add(1)
	o.mu.Unlock()

	go o.poll(runCtx, j)
}

func (o *Orchestrator) poll(ctx context.Context, j *job) {
	defer o.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(o.opts.PollInterval):
		}

		pollCtx, cancel := context.WithTimeout(ctx, o.opts.RequestTimeout)
		status, err := o.api.GetStitchStatus(pollCtx, j.projectID)
		cancel()
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			o.logger.Warn("stitch status poll failed; will retry",
				logging.Error(err),
				logging.String(logging.FieldProjectID, j.projectID),
				logging.String(logging.FieldEventType, "stitch_poll_failed"),
				logging.String(logging.FieldErrorHint, "check studio connectivity"),
			)
			continue
		}

		switch status.State {
		case timeline.StitchReady, timeline.StitchFailed:
			o.complete(ctx, j, status)
			return
		default:
			o.checkStall(ctx, j)
		}
	}
}

// complete records a terminal outcome, unless a superseding submit already
// replaced this job, in which case the obsolete write is dropped.
func (o *Orchestrator) complete(ctx context.Context, j *job, status JobStatus) {
	o.mu.Lock()
	if o.jobs[j.projectID] != j {
		o.mu.Unlock()
		return
	}
	j.status = status.State
	j.videoURL = status.VideoURL
	j.errorMessage = status.ErrorMessage
	j.cancel = nil
	o.mu.Unlock()

	o.logger.Info("stitch finished",
		logging.String(logging.FieldProjectID, j.projectID),
		logging.String(logging.FieldStitchState, string(status.State)),
		logging.String(logging.FieldEventType, "stitch_finished"),
	)
	if o.notifier != nil {
		switch status.State {
		case timeline.StitchReady:
			_ = o.notifier.NotifyStitchReady(ctx, j.projectTitle, status.VideoURL)
		case timeline.StitchFailed:
			_ = o.notifier.NotifyStitchFailed(ctx, j.projectTitle, status.ErrorMessage)
		}
	}
	if o.opts.OnOutcome != nil {
		o.opts.OnOutcome(Outcome{
			ProjectID:    j.projectID,
			Status:       status.State,
			VideoURL:     status.VideoURL,
			ErrorMessage: status.ErrorMessage,
		})
	}
}

func (o *Orchestrator) checkStall(ctx context.Context, j *job) {
	if o.opts.StallAfter <= 0 {
		return
	}

	o.mu.Lock()
	if o.jobs[j.projectID] != j || j.stallWarned {
		o.mu.Unlock()
		return
	}
	elapsed := time.Since(j.submittedAt)
	if elapsed < o.opts.StallAfter {
		o.mu.Unlock()
		return
	}
	j.stalled = true
	j.stallWarned = true
	o.mu.Unlock()

	o.logger.Warn("stitch is taking longer than expected; still polling",
		logging.String(logging.FieldProjectID, j.projectID),
		logging.Duration("elapsed", elapsed),
		logging.String(logging.FieldEventType, "stitch_stalled"),
	)
	if o.notifier != nil {
		_ = o.notifier.NotifyStitchTakingTooLong(ctx, j.projectTitle, elapsed)
	}
}

// Status returns the orchestrator snapshot for a project.
func (o *Orchestrator) Status(projectID string) (Snapshot, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	j := o.jobs[projectID]
	if j == nil {
		return Snapshot{}, false
	}
	return Snapshot{
		ProjectID:    j.projectID,
		Status:       j.status,
		VideoURL:     j.videoURL,
		ErrorMessage: j.errorMessage,
		SubmittedAt:  j.submittedAt,
		Stalled:      j.stalled,
	}, true
}

// Cancel stops any poll loop for the project and forgets its job. This is
// the project-switch/unmount path, the only supported cancellation.
func (o *Orchestrator) Cancel(projectID string) {
	o.mu.Lock()
	j := o.jobs[projectID]
	if j != nil {
		if j.cancel != nil {
			j.cancel()
		}
		delete(o.jobs, projectID)
	}
	o.mu.Unlock()
}

// Close cancels every poll loop and waits for them to exit.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		o.wg.Wait()
		return
	}
	o.closed = true
	for id, j := range o.jobs {
		if j.cancel != nil {
			j.cancel()
		}
		delete(o.jobs, id)
	}
	o.mu.Unlock()
	o.wg.Wait()
}
