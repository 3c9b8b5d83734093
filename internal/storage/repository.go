package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/headlines-cli/internal/newsapi"
)

const (
	keyTheme         = "theme"
	keyUsername      = "username"
	keyNotifications = "notifications"
)

// ErrNotFound is returned when a preference has never been saved.
var ErrNotFound = errors.New("preference not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read preference %q: %w", key, err)
	}
	return value, nil
}

func (r *Repository) set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO preferences (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  updated_at=excluded.updated_at
`, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save preference %q: %w", key, err)
	}
	return nil
}

func (r *Repository) remove(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove preference %q: %w", key, err)
	}
	return nil
}

// Theme returns the stored theme index, or ErrNotFound.
func (r *Repository) Theme(ctx context.Context) (int, error) {
	raw, err := r.get(ctx, keyTheme)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse stored theme %q: %w", raw, err)
	}
	return n, nil
}

func (r *Repository) SaveTheme(ctx context.Context, theme int) error {
	return r.set(ctx, keyTheme, strconv.Itoa(theme))
}

func (r *Repository) RemoveTheme(ctx context.Context) error {
	return r.remove(ctx, keyTheme)
}

// Username reports the onboarding name and whether one was saved.
func (r *Repository) Username(ctx context.Context) (string, bool, error) {
	name, err := r.get(ctx, keyUsername)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

func (r *Repository) SaveUsername(ctx context.Context, name string) error {
	return r.set(ctx, keyUsername, name)
}

func (r *Repository) RemoveUsername(ctx context.Context) error {
	return r.remove(ctx, keyUsername)
}

// NotificationsEnabled defaults to false when never saved.
func (r *Repository) NotificationsEnabled(ctx context.Context) (bool, error) {
	raw, err := r.get(ctx, keyNotifications)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse stored notification flag %q: %w", raw, err)
	}
	return enabled, nil
}

func (r *Repository) SaveNotificationsEnabled(ctx context.Context, enabled bool) error {
	return r.set(ctx, keyNotifications, strconv.FormatBool(enabled))
}

// SaveHeadlines replaces the cached first page of top headlines.
func (r *Repository) SaveHeadlines(ctx context.Context, articles []newsapi.Article) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM headlines`); err != nil {
		return fmt.Errorf("clear headlines: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO headlines (position, source_id, source_name, author, title, description, url, image_url, published_at, content, cached_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for i, a := range articles {
		_, err := stmt.ExecContext(ctx,
			i,
			a.Source.ID,
			a.Source.Name,
			a.Author,
			a.Title,
			a.Description,
			a.URL,
			a.ImageURL,
			a.PublishedAt,
			a.Content,
			now,
		)
		if err != nil {
			return fmt.Errorf("save headline %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListHeadlines returns the cached headlines in their original order.
func (r *Repository) ListHeadlines(ctx context.Context, limit int) ([]newsapi.Article, error) {
	if limit < 1 {
		limit = newsapi.DefaultPageSize
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT source_id, source_name, author, title, description, url, image_url, published_at, content
FROM headlines
ORDER BY position ASC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query headlines: %w", err)
	}
	defer rows.Close()

	articles := make([]newsapi.Article, 0, limit)
	for rows.Next() {
		var a newsapi.Article
		if err := rows.Scan(
			&a.Source.ID,
			&a.Source.Name,
			&a.Author,
			&a.Title,
			&a.Description,
			&a.URL,
			&a.ImageURL,
			&a.PublishedAt,
			&a.Content,
		); err != nil {
			return nil, fmt.Errorf("scan headline: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return articles, nil
}
