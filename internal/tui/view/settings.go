package view

import (
	"strings"

	"github.com/glabrego/headlines-cli/internal/settings"
	tuitheme "github.com/glabrego/headlines-cli/internal/tui/theme"
)

type SettingsState struct {
	Theme         settings.ThemeMode
	Notifications bool
	Cursor        int
	Width         int
}

// SettingsLines renders every section with its items. Cursor indexes the
// flattened item list.
func SettingsLines(s SettingsState, th tuitheme.Theme) []string {
	var lines []string
	index := 0
	for i, section := range settings.Sections() {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, th.Section.Render(section.Title))
		for _, item := range section.Items {
			active := index == s.Cursor
			cursor := "  "
			if active {
				cursor = "> "
			}
			left := cursor + item.Title
			right := settingValue(item.Kind, s)
			gap := s.Width - visibleLen(left) - visibleLen(right)
			if gap < 1 {
				gap = 1
			}
			line := left
			if right != "" {
				line += strings.Repeat(" ", gap) + th.MetaValue.Render(right)
			}
			lines = append(lines, th.RenderActiveLine(active, line))
			index++
		}
	}
	return lines
}

func settingValue(kind settings.ItemKind, s SettingsState) string {
	switch kind {
	case settings.ItemTheme:
		return s.Theme.String()
	case settings.ItemNotification:
		if s.Notifications {
			return "[on]"
		}
		return "[off]"
	}
	if kind.IsLink() {
		return "↗"
	}
	return ""
}
