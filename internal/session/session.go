package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"clipdeck/internal/config"
	"clipdeck/internal/draftstore"
	"clipdeck/internal/logging"
	"clipdeck/internal/notifications"
	"clipdeck/internal/playback"
	"clipdeck/internal/projectsync"
	"clipdeck/internal/renderspec"
	"clipdeck/internal/stitch"
	"clipdeck/internal/studio"
	"clipdeck/internal/timeline"
)

var (
	// ErrLocked marks a project already open in another session.
	ErrLocked = errors.New("project is open in another session")
	// ErrClosed marks an operation on a closed session.
	ErrClosed = errors.New("session is closed")
	// ErrNoProject marks an open with neither a remote record nor a draft.
	ErrNoProject = errors.New("project has no remote record and no local draft")
)

// StudioAPI is the slice of the Studio client a session depends on.
type StudioAPI interface {
	CreateProject(ctx context.Context, title string) (timeline.Project, error)
	GetProject(ctx context.Context, projectID string) (timeline.Project, error)
	PatchProject(ctx context.Context, projectID string, patch studio.ProjectPatch) error
	SubmitStitch(ctx context.Context, projectID string, doc renderspec.Document) error
	GetStitchStatus(ctx context.Context, projectID string) (studio.StitchState, error)
}

// Deps bundles the collaborators a session is built from.
type Deps struct {
	Logger   *slog.Logger
	API      StudioAPI
	Store    *draftstore.Store
	Notifier notifications.Service
}

// Session holds the authoritative in-memory Project for one open editor.
type Session struct {
	cfg      *config.Config
	logger   *slog.Logger
	api      StudioAPI
	store    *draftstore.Store
	notifier notifications.Service
	syncer   *projectsync.Syncer
	orch     *stitch.Orchestrator
	player   *playback.Synchronizer
	lock     *flock.Flock

	mu       sync.Mutex
	project  timeline.Project
	selected string
	closed   bool
}

// Create makes a new remote project and opens a session on it.
func Create(ctx context.Context, cfg *config.Config, deps Deps, title string) (*Session, error) {
	project, err := deps.API.CreateProject(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return open(ctx, cfg, deps, project)
}

// Open loads an existing project and acquires its session lock. A local
// draft, when present, wins over the remote record: the draft is the working
// copy and may hold edits that never reached the server. When the remote
// fetch fails but a draft exists the session opens offline.
func Open(ctx context.Context, cfg *config.Config, deps Deps, projectID string) (*Session, error) {
	project, draftErr := deps.Store.Load(ctx, projectID)
	if draftErr == nil {
		return open(ctx, cfg, deps, project)
	}
	if !errors.Is(draftErr, draftstore.ErrNotFound) {
		return nil, draftErr
	}

	project, remoteErr := deps.API.GetProject(ctx, projectID)
	if remoteErr != nil {
		if errors.Is(remoteErr, studio.ErrNotFound) {
			return nil, fmt.Errorf("open %s: %w", projectID, ErrNoProject)
		}
		return nil, fmt.Errorf("open %s: %w", projectID, remoteErr)
	}
	return open(ctx, cfg, deps, project)
}

func open(ctx context.Context, cfg *config.Config, deps Deps, project timeline.Project) (*Session, error) {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.LockDir(), project.ID+".lock"))
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !held {
		return nil, fmt.Errorf("open %s: %w", project.ID, ErrLocked)
	}

	requestTimeout := time.Duration(cfg.Studio.RequestTimeout) * time.Second

	s := &Session{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "session"),
		api:      deps.API,
		store:    deps.Store,
		notifier: deps.Notifier,
		syncer:   projectsync.New(deps.API, logger, deps.Notifier, requestTimeout),
		lock:     lock,
		project:  project,
	}
	s.orch = stitch.New(renderAdapter{api: deps.API}, logger, deps.Notifier, stitch.Options{
		PollInterval:   time.Duration(cfg.Stitch.PollInterval) * time.Second,
		StallAfter:     time.Duration(cfg.Stitch.StallWarnSeconds) * time.Second,
		RequestTimeout: requestTimeout,
		OnOutcome:      s.applyOutcome,
	})
	s.player = playback.New(logger, s.applyPlayerTrim)

	if err := s.store.Save(ctx, project); err != nil {
		s.logger.Warn("initial draft save failed",
			logging.Error(err),
			logging.String(logging.FieldProjectID, project.ID),
		)
	}

	if project.StitchStatus == timeline.StitchStitching {
		s.orch.Resume(project)
	}

	s.logger.Info("session opened",
		logging.String(logging.FieldProjectID, project.ID),
		logging.String(logging.FieldStitchState, string(project.StitchStatus)),
		logging.Int("clips", len(project.Clips)),
	)
	return s, nil
}

// Project returns a deep copy of the current timeline state.
func (s *Session) Project() timeline.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.Clone()
}

// Player returns the playback synchronizer bound to this session.
func (s *Session) Player() *playback.Synchronizer {
	return s.player
}

// SelectClip makes a main clip the playback/editing target.
func (s *Session) SelectClip(clipID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	clip, ok := s.project.ClipByID(clipID)
	if !ok {
		return fmt.Errorf("select clip %s: %w", clipID, timeline.ErrNotFound)
	}
	s.selected = clip.ID
	s.player.Select(clip)
	return nil
}

// SelectedClipID returns the id of the selected clip, empty when none.
func (s *Session) SelectedClipID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// commit installs the mutated project, persists the draft, and queues the
// remote patch. Callers hold s.mu. The draft write is best-effort: the edit
// already happened in memory and the remote sync still runs.
func (s *Session) commit(ctx context.Context, next timeline.Project, patch studio.ProjectPatch) {
	s.project = next
	if err := s.store.Save(ctx, next); err != nil {
		s.logger.Warn("draft save failed after edit",
			logging.Error(err),
			logging.String(logging.FieldProjectID, next.ID),
			logging.String(logging.FieldErrorHint, "check draft database permissions"),
		)
	}
	s.syncer.Sync(next.ID, next.Title, patch)
}

// Close releases everything the session holds: the stitch poll loop, any
// in-flight sync writes, and the project lock. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	projectID := s.project.ID
	s.mu.Unlock()

	s.orch.Cancel(projectID)
	s.orch.Close()
	s.syncer.Wait()

	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("release session lock: %w", err)
	}
	s.logger.Info("session closed", logging.String(logging.FieldProjectID, projectID))
	return nil
}
