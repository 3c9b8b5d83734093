package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/headlines-cli/internal/tui/theme"
)

type Screen int

const (
	ScreenSplash Screen = iota
	ScreenOnboarding
	ScreenFeed
	ScreenDetail
	ScreenSettings
)

func (s Screen) String() string {
	switch s {
	case ScreenSplash:
		return "splash"
	case ScreenOnboarding:
		return "onboarding"
	case ScreenFeed:
		return "feed"
	case ScreenDetail:
		return "detail"
	case ScreenSettings:
		return "settings"
	}
	return "unknown"
}

func Toolbar(screen Screen, searching bool) string {
	switch screen {
	case ScreenOnboarding:
		return "type your name | enter: continue | esc: quit"
	case ScreenDetail:
		return "j/k scroll | o open | s share | esc back | q quit"
	case ScreenSettings:
		return "j/k move | enter select | esc back | q quit"
	case ScreenFeed:
		if searching {
			return "type to search | enter: done | esc: clear search"
		}
		return "j/k move | enter open | / search | r refresh | , settings | q quit"
	}
	return "any key: continue"
}

// Header renders the app title followed by a pill naming what is on screen.
func Header(title, pill string, th tuitheme.Theme) string {
	if pill == "" {
		return th.Title.Render(title)
	}
	return th.Title.Render(title) + " " + th.ModePill.Render(pill)
}

type FooterParams struct {
	Mode          string
	Page          int
	Shown         int
	Exhausted     bool
	SearchPending bool
}

func Footer(p FooterParams, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("mode") + " " + th.MetaValue.Render(p.Mode),
		th.MetaLabel.Render("page") + " " + th.MetaValue.Render(fmt.Sprintf("%d", p.Page)),
		th.MetaValue.Render(fmt.Sprintf("%d shown", p.Shown)),
	}
	if p.SearchPending {
		parts = append(parts, th.StateLoad.Render("search pending"))
	}
	if p.Exhausted {
		parts = append(parts, th.MetaLabel.Render("end of feed"))
	}
	return strings.Join(parts, " • ")
}

// StatusLine reports the loading state and the latest status or warning.
// spinner is drawn in front of the label while loading.
func StatusLine(loading bool, spinner, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	label := th.StateIdle.Render("state")
	switch {
	case warning != "":
		state = "warning"
		label = th.StateWarn.Render("state")
	case loading:
		state = "loading"
		label = th.StateLoad.Render("state")
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if warning != "" {
		main = warning
	}
	line := fmt.Sprintf("%s: %s | %s", label, state, th.MetaValue.Render(main))
	if loading && spinner != "" {
		line = spinner + " " + line
	}
	return line
}
