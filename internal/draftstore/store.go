// Package draftstore keeps client-side state in a local SQLite database:
// offline report drafts and a cached copy of the last issue listing.
package draftstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Singhtanuhub/civicstrack5/pkg/civictrack"
)

// Draft is a report prepared locally for later submission. Images hold
// local file paths; they are read at submit time.
type Draft struct {
	ID          string
	Title       string
	Description string
	Category    string
	Latitude    float64
	Longitude   float64
	Anonymous   bool
	Images      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Store is the SQLite-backed client state store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New opens (or creates) the database at dbPath. Use ":memory:" in tests.
func New(dbPath string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger.With("component", "draftstore"),
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// SaveDraft inserts the draft, assigning an id and timestamps when unset.
// Saving an existing id replaces it.
func (s *Store) SaveDraft(ctx context.Context, d *Draft) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	s.logger.Debug("sql", "op", "upsert", "table", "drafts", "id", d.ID)

	imagesJSON, err := json.Marshal(d.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO drafts (id, title, description, category, latitude, longitude, is_anonymous, images, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Title, d.Description, d.Category, d.Latitude, d.Longitude,
		boolToInt(d.Anonymous), string(imagesJSON),
		d.CreatedAt.Format(time.RFC3339Nano), d.UpdatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// GetDraft returns the draft with the given id, or nil when absent.
func (s *Store) GetDraft(ctx context.Context, id string) (*Draft, error) {
	s.logger.Debug("sql", "op", "select", "table", "drafts", "id", id)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, category, latitude, longitude, is_anonymous, images, created_at, updated_at
		 FROM drafts WHERE id = ?`, id)

	d, err := scanDraft(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListDrafts returns all drafts, oldest first.
func (s *Store) ListDrafts(ctx context.Context) ([]*Draft, error) {
	s.logger.Debug("sql", "op", "select", "table", "drafts")

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, category, latitude, longitude, is_anonymous, images, created_at, updated_at
		 FROM drafts ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []*Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

// DeleteDraft removes a draft. Deleting a missing id is not an error.
func (s *Store) DeleteDraft(ctx context.Context, id string) error {
	s.logger.Debug("sql", "op", "delete", "table", "drafts", "id", id)
	_, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	return err
}

// ReplaceCache swaps the cached listing for a fresh fetch result.
func (s *Store) ReplaceCache(ctx context.Context, issues []civictrack.Issue) error {
	s.logger.Debug("sql", "op", "replace", "table", "issue_cache", "count", len(issues))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM issue_cache`); err != nil {
		return err
	}

	fetchedAt := time.Now().UTC().Format(time.RFC3339Nano)
	for i := range issues {
		payload, err := json.Marshal(&issues[i])
		if err != nil {
			return fmt.Errorf("marshal issue %d: %w", issues[i].ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO issue_cache (issue_id, payload, fetched_at) VALUES (?, ?, ?)`,
			issues[i].ID, string(payload), fetchedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CachedIssues returns the last cached listing and when it was fetched.
// An empty cache yields a nil slice and zero time.
func (s *Store) CachedIssues(ctx context.Context) ([]civictrack.Issue, time.Time, error) {
	s.logger.Debug("sql", "op", "select", "table", "issue_cache")

	rows, err := s.db.QueryContext(ctx, `SELECT payload, fetched_at FROM issue_cache ORDER BY issue_id`)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var issues []civictrack.Issue
	var fetchedAt time.Time
	for rows.Next() {
		var payload, fetched string
		if err := rows.Scan(&payload, &fetched); err != nil {
			return nil, time.Time{}, err
		}
		var issue civictrack.Issue
		if err := json.Unmarshal([]byte(payload), &issue); err != nil {
			return nil, time.Time{}, fmt.Errorf("unmarshal cached issue: %w", err)
		}
		issues = append(issues, issue)
		if fetchedAt.IsZero() {
			if ts, err := time.Parse(time.RFC3339Nano, fetched); err == nil {
				fetchedAt = ts
			}
		}
	}
	return issues, fetchedAt, rows.Err()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(row scanner) (*Draft, error) {
	var d Draft
	var anonymous int
	var imagesJSON, createdAt, updatedAt string

	err := row.Scan(&d.ID, &d.Title, &d.Description, &d.Category, &d.Latitude, &d.Longitude,
		&anonymous, &imagesJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	d.Anonymous = anonymous != 0
	if err := json.Unmarshal([]byte(imagesJSON), &d.Images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		d.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		d.UpdatedAt = ts
	}
	return &d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
