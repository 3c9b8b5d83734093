package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/glabrego/headlines-cli/internal/newsapi"
	"github.com/glabrego/headlines-cli/internal/settings"
	"github.com/glabrego/headlines-cli/internal/storage"
)

type NewsClient interface {
	TopHeadlines(ctx context.Context, country string, page, pageSize int) ([]newsapi.Article, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]newsapi.Article, error)
}

type Repository interface {
	Theme(ctx context.Context) (int, error)
	SaveTheme(ctx context.Context, theme int) error
	Username(ctx context.Context) (string, bool, error)
	SaveUsername(ctx context.Context, name string) error
	NotificationsEnabled(ctx context.Context) (bool, error)
	SaveNotificationsEnabled(ctx context.Context, enabled bool) error
	SaveHeadlines(ctx context.Context, articles []newsapi.Article) error
	ListHeadlines(ctx context.Context, limit int) ([]newsapi.Article, error)
}

// Preferences is the persisted user state read at startup.
type Preferences struct {
	Username      string
	HasUsername   bool
	Theme         settings.ThemeMode
	Notifications bool
}

type Service struct {
	client NewsClient
	repo   Repository
	logger *slog.Logger
}

func NewService(client NewsClient, repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{client: client, repo: repo, logger: logger}
}

// TopHeadlines fetches a page of top headlines. The first page is also written
// to the headline cache; a cache failure is logged and does not fail the fetch.
func (s *Service) TopHeadlines(ctx context.Context, country string, page, pageSize int) ([]newsapi.Article, error) {
	articles, err := s.client.TopHeadlines(ctx, country, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch top headlines: %w", err)
	}
	if page == 1 {
		if err := s.repo.SaveHeadlines(ctx, articles); err != nil {
			s.logger.Warn("save headlines to cache failed", "err", err, "count", len(articles))
		}
	}
	return articles, nil
}

func (s *Service) Search(ctx context.Context, query string, page, pageSize int) ([]newsapi.Article, error) {
	articles, err := s.client.Search(ctx, query, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	return articles, nil
}

func (s *Service) ListCached(ctx context.Context, limit int) ([]newsapi.Article, error) {
	articles, err := s.repo.ListHeadlines(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load headlines from cache: %w", err)
	}
	return articles, nil
}

// LoadPreferences reads all persisted preferences. A theme that was never
// saved is reported as the system theme.
func (s *Service) LoadPreferences(ctx context.Context) (Preferences, error) {
	var prefs Preferences

	name, ok, err := s.repo.Username(ctx)
	if err != nil {
		return Preferences{}, fmt.Errorf("load username: %w", err)
	}
	prefs.Username, prefs.HasUsername = name, ok

	theme, err := s.repo.Theme(ctx)
	switch {
	case err == nil:
		prefs.Theme = settings.ThemeFromInt(theme)
	case errors.Is(err, storage.ErrNotFound):
		prefs.Theme = settings.ThemeSystem
	default:
		return Preferences{}, fmt.Errorf("load theme: %w", err)
	}

	prefs.Notifications, err = s.repo.NotificationsEnabled(ctx)
	if err != nil {
		return Preferences{}, fmt.Errorf("load notification preference: %w", err)
	}
	return prefs, nil
}

func (s *Service) SaveUsername(ctx context.Context, name string) error {
	if err := s.repo.SaveUsername(ctx, name); err != nil {
		return fmt.Errorf("save username: %w", err)
	}
	return nil
}

func (s *Service) SaveTheme(ctx context.Context, mode settings.ThemeMode) error {
	if err := s.repo.SaveTheme(ctx, int(mode)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

func (s *Service) SaveNotifications(ctx context.Context, enabled bool) error {
	if err := s.repo.SaveNotificationsEnabled(ctx, enabled); err != nil {
		return fmt.Errorf("save notification preference: %w", err)
	}
	return nil
}
