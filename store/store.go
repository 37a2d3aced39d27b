// Package store keeps experience records in a local SQLite database
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ramedia/lovescroll/model"
)

var (
	// ErrNotFound means no experience has the slug
	ErrNotFound = errors.New("experience not found")
	// ErrExpired means the experience exists but its hosting period is over
	ErrExpired = errors.New("experience has expired")
)

// Store manages experience persistence backed by SQLite
type Store struct {
	db   *sql.DB
	path string
}

// Summary is one row of the listing
type Summary struct {
	Slug      string
	Tier      model.TierName
	FromName  string
	ToName    string
	Photos    int
	Views     int
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Open initializes or connects to the database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
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

	s := &Store{db: db, path: path}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file
func (s *Store) Path() string { return s.path }

// Put inserts or replaces an experience and its photos
func (s *Store) Put(ctx context.Context, exp *model.Experience) error {
	if err := exp.Validate(); err != nil {
		return err
	}
	if exp.Slug == "" || exp.ID == "" {
		return fmt.Errorf("%w: slug and id are required", model.ErrInvalidRecord)
	}

	features, err := json.Marshal(exp.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM experiences WHERE slug = ? OR id = ?", exp.Slug, exp.ID); err != nil {
		return fmt.Errorf("replace %s: %w", exp.Slug, err)
	}

	created := exp.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO experiences (
            id, slug, tier, from_name, to_name, final_letter, features_json, expires_at, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.ID,
		exp.Slug,
		string(exp.Tier),
		exp.FromName,
		exp.ToName,
		exp.FinalLetter,
		string(features),
		nullableTime(exp.ExpiresAt),
		formatTime(created),
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", exp.Slug, err)
	}

	for _, p := range exp.Photos {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO photos (experience_id, sort_order, url, caption) VALUES (?, ?, ?, ?)",
			exp.ID, p.Order, p.URL, p.Caption,
		); err != nil {
			return fmt.Errorf("insert photo %d of %s: %w", p.Order, exp.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", exp.Slug, err)
	}
	return nil
}

// Get loads an experience by slug with photos sorted by order
// An expired record is returned together with ErrExpired
func (s *Store) Get(ctx context.Context, slug string, now time.Time) (*model.Experience, error) {
	exp := &model.Experience{}
	var (
		tier      string
		features  string
		expiresAt sql.NullString
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, slug, tier, from_name, to_name, final_letter, features_json, expires_at, created_at
        FROM experiences WHERE slug = ?`, slug,
	).Scan(&exp.ID, &exp.Slug, &tier, &exp.FromName, &exp.ToName, &exp.FinalLetter, &features, &expiresAt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", slug, err)
	}

	exp.Tier = model.TierName(tier)
	if err := json.Unmarshal([]byte(features), &exp.Features); err != nil {
		return nil, fmt.Errorf("decode features of %s: %w", slug, err)
	}
	if expiresAt.Valid {
		exp.ExpiresAt = parseTime(expiresAt.String)
	}
	exp.CreatedAt = parseTime(createdAt)

	rows, err := s.db.QueryContext(ctx,
		"SELECT sort_order, url, caption FROM photos WHERE experience_id = ? ORDER BY sort_order", exp.ID)
	if err != nil {
		return nil, fmt.Errorf("query photos of %s: %w", slug, err)
	}
	defer rows.Close()
	for rows.Next() {
		var p model.Photo
		if err := rows.Scan(&p.Order, &p.URL, &p.Caption); err != nil {
			return nil, fmt.Errorf("scan photo of %s: %w", slug, err)
		}
		exp.Photos = append(exp.Photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photos of %s: %w", slug, err)
	}

	if exp.Expired(now) {
		return exp, fmt.Errorf("%s: %w", slug, ErrExpired)
	}
	return exp, nil
}

// List returns every experience, newest first
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.slug, e.tier, e.from_name, e.to_name, e.views, e.expires_at, e.created_at,
            (SELECT COUNT(1) FROM photos p WHERE p.experience_id = e.id)
        FROM experiences e ORDER BY e.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum       Summary
			tier      string
			expiresAt sql.NullString
			createdAt string
		)
		if err := rows.Scan(&sum.Slug, &tier, &sum.FromName, &sum.ToName, &sum.Views, &expiresAt, &createdAt, &sum.Photos); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		sum.Tier = model.TierName(tier)
		if expiresAt.Valid {
			sum.ExpiresAt = parseTime(expiresAt.String)
		}
		sum.CreatedAt = parseTime(createdAt)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// RecordView increments the view counter of a slug
func (s *Store) RecordView(ctx context.Context, slug string) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE experiences SET views = views + 1 WHERE slug = ?", slug); err != nil {
		return fmt.Errorf("record view of %s: %w", slug, err)
	}
	return nil
}

// Delete removes an experience; deleting a missing slug returns ErrNotFound
func (s *Store) Delete(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM experiences WHERE slug = ?", slug)
	if err != nil {
		return fmt.Errorf("delete %s: %w", slug, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", slug, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", slug, ErrNotFound)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
