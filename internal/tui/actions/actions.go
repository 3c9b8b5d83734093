package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/headlines-cli/internal/app"
	"github.com/glabrego/headlines-cli/internal/newsapi"
	"github.com/glabrego/headlines-cli/internal/settings"
)

const (
	storageTimeout = 5 * time.Second
	imageTimeout   = 10 * time.Second
)

type Service interface {
	ListCached(ctx context.Context, limit int) ([]newsapi.Article, error)
	LoadPreferences(ctx context.Context) (app.Preferences, error)
	SaveUsername(ctx context.Context, name string) error
	SaveTheme(ctx context.Context, mode settings.ThemeMode) error
	SaveNotifications(ctx context.Context, enabled bool) error
}

type ImageLoader interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type PreferencesLoadedMsg struct {
	Prefs app.Preferences
}

type PreferencesLoadErrorMsg struct {
	Err error
}

type CachedLoadedMsg struct {
	Articles []newsapi.Article
	Duration time.Duration
}

type CachedLoadErrorMsg struct {
	Err error
}

type PreferenceSavedMsg struct {
	Status string
}

type PreferenceSaveErrorMsg struct {
	Err error
}

type NotificationAuthMsg struct {
	Granted bool
	Err     error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

type ImagePreviewSuccessMsg struct {
	URL     string
	Preview string
}

type ImagePreviewErrorMsg struct {
	URL string
	Err error
}

func LoadPreferencesCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		prefs, err := service.LoadPreferences(ctx)
		if err != nil {
			return PreferencesLoadErrorMsg{Err: err}
		}
		return PreferencesLoadedMsg{Prefs: prefs}
	}
}

func LoadCachedCmd(service Service, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()
		start := time.Now()

		articles, err := service.ListCached(ctx, limit)
		if err != nil {
			return CachedLoadErrorMsg{Err: err}
		}
		return CachedLoadedMsg{Articles: articles, Duration: time.Since(start)}
	}
}

func SaveUsernameCmd(service Service, name string) tea.Cmd {
	return saveCmd(fmt.Sprintf("Welcome, %s", name), func(ctx context.Context) error {
		return service.SaveUsername(ctx, name)
	})
}

func SaveThemeCmd(service Service, mode settings.ThemeMode) tea.Cmd {
	return saveCmd("Theme: "+mode.String(), func(ctx context.Context) error {
		return service.SaveTheme(ctx, mode)
	})
}

func SaveNotificationsCmd(service Service, enabled bool) tea.Cmd {
	status := "Notifications: off"
	if enabled {
		status = "Notifications: on"
	}
	return saveCmd(status, func(ctx context.Context) error {
		return service.SaveNotifications(ctx, enabled)
	})
}

func saveCmd(status string, save func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		if err := save(ctx); err != nil {
			return PreferenceSaveErrorMsg{Err: err}
		}
		return PreferenceSavedMsg{Status: status}
	}
}

func RequestNotificationsCmd(authorize func() (bool, error)) tea.Cmd {
	return func() tea.Msg {
		if authorize == nil {
			return NotificationAuthMsg{Granted: false}
		}
		granted, err := authorize()
		return NotificationAuthMsg{Granted: granted && err == nil, Err: err}
	}
}

// OpenURLCmd opens url in the browser and falls back to copying it.
func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened URL in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

// ShareURLCmd copies url to the clipboard.
func ShareURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Link copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy link to clipboard")}
	}
}

func ImagePreviewCmd(loader ImageLoader, url string, width int, render func([]byte, int) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), imageTimeout)
		defer cancel()

		data, err := loader.Get(ctx, url)
		if err != nil {
			return ImagePreviewErrorMsg{URL: url, Err: err}
		}
		preview, err := render(data, width)
		if err != nil {
			return ImagePreviewErrorMsg{URL: url, Err: err}
		}
		return ImagePreviewSuccessMsg{URL: url, Preview: preview}
	}
}
