package draftstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"clipdeck/internal/config"
	"clipdeck/internal/timeline"
)

// ErrNotFound marks a lookup for a project with no saved draft.
var ErrNotFound = errors.New("draft not found")

// Store manages draft persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Summary is one row of the draft listing, newest first.
type Summary struct {
	ProjectID    string
	ProjectTitle string
	StitchStatus timeline.StitchStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Open initializes or connects to the draft database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.DraftDir(), "drafts.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Save upserts the full timeline snapshot for the project. Every edit goes
// through here, so the draft on disk always matches the in-memory model.
func (s *Store) Save(ctx context.Context, project timeline.Project) error {
	if project.ID == "" {
		return errors.New("save draft: project id is empty")
	}
	snapshot, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("marshal timeline snapshot: %w", err)
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO drafts (project_id, project_title, timeline_json, stitch_status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(project_id) DO UPDATE SET
             project_title = excluded.project_title,
             timeline_json = excluded.timeline_json,
             stitch_status = excluded.stitch_status,
             updated_at = excluded.updated_at`,
		project.ID,
		project.Title,
		string(snapshot),
		string(project.StitchStatus),
		timestamp,
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load returns the stored timeline snapshot for a project.
func (s *Store) Load(ctx context.Context, projectID string) (timeline.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT timeline_json FROM drafts WHERE project_id = ?`, projectID)

	var snapshot string
	if err := row.Scan(&snapshot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return timeline.Project{}, fmt.Errorf("load draft %s: %w", projectID, ErrNotFound)
		}
		return timeline.Project{}, fmt.Errorf("load draft %s: %w", projectID, err)
	}

	var project timeline.Project
	if err := json.Unmarshal([]byte(snapshot), &project); err != nil {
		return timeline.Project{}, fmt.Errorf("decode draft %s: %w", projectID, err)
	}
	return project, nil
}

// List returns summaries for every saved draft, most recently edited first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT project_id, project_title, stitch_status, created_at, updated_at
         FROM drafts ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			summary              Summary
			status               string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&summary.ProjectID, &summary.ProjectTitle, &status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan draft row: %w", err)
		}
		summary.StitchStatus = timeline.StitchStatus(status)
		summary.CreatedAt = parseTimestamp(createdAt)
		summary.UpdatedAt = parseTimestamp(updatedAt)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drafts: %w", err)
	}
	return summaries, nil
}

// Delete removes the draft for a project. Deleting a missing draft is not
// an error.
func (s *Store) Delete(ctx context.Context, projectID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("delete draft %s: %w", projectID, err)
	}
	return nil
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
