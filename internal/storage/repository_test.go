package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glabrego/headlines-cli/internal/newsapi"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "data", "headlines.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	version, err := repo.Migrate()
	require.NoError(t, err)
	require.Equal(t, uint(2), version)
	return repo
}

func TestRepository_MigrateIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	version, err := repo.Migrate()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}

func TestRepository_Theme(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Theme(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.SaveTheme(ctx, 2))
	require.NoError(t, repo.SaveTheme(ctx, 1))
	theme, err := repo.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, theme)

	require.NoError(t, repo.RemoveTheme(ctx))
	_, err = repo.Theme(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Username(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	name, ok, err := repo.Username(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, name)

	require.NoError(t, repo.SaveUsername(ctx, "Ada"))
	name, ok, err = repo.Username(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Ada", name)

	require.NoError(t, repo.RemoveUsername(ctx))
	_, ok, err = repo.Username(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_NotificationsDefaultOff(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	enabled, err := repo.NotificationsEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, repo.SaveNotificationsEnabled(ctx, true))
	enabled, err = repo.NotificationsEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestRepository_SaveHeadlinesReplacesCache(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := []newsapi.Article{
		{Title: "Old A", URL: "https://example.com/a"},
		{Title: "Old B", URL: "https://example.com/b"},
		{Title: "Old C", URL: "https://example.com/c"},
	}
	require.NoError(t, repo.SaveHeadlines(ctx, first))

	second := []newsapi.Article{
		{
			Source:      newsapi.Source{ID: "bbc-news", Name: "BBC News"},
			Title:       "Second",
			URL:         "https://example.com/2",
			ImageURL:    "https://example.com/2.jpg",
			PublishedAt: "2026-02-02T10:00:00Z",
			Content:     "Body [+120 chars]",
		},
		{Title: "Third", URL: "https://example.com/3"},
	}
	require.NoError(t, repo.SaveHeadlines(ctx, second))

	listed, err := repo.ListHeadlines(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, second, listed)

	limited, err := repo.ListHeadlines(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Second", limited[0].Title)
}

func TestRepository_ListHeadlinesEmpty(t *testing.T) {
	repo := newTestRepository(t)
	listed, err := repo.ListHeadlines(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
