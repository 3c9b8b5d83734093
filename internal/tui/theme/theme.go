package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/glabrego/headlines-cli/internal/render/article"
	"github.com/glabrego/headlines-cli/internal/settings"
)

type palette struct {
	accent, title, headline, text, subtext, muted, surface lipgloss.Color
	link, quote, code, warn, ok, load                      lipgloss.Color
}

// Catppuccin Mocha.
var dark = palette{
	accent:   "#cba6f7",
	title:    "#b4befe",
	headline: "#cdd6f4",
	text:     "#cdd6f4",
	subtext:  "#bac2de",
	muted:    "#7f849c",
	surface:  "#313244",
	link:     "#89b4fa",
	quote:    "#a6adc8",
	code:     "#fab387",
	warn:     "#f38ba8",
	ok:       "#a6e3a1",
	load:     "#fab387",
}

// Catppuccin Latte.
var light = palette{
	accent:   "#8839ef",
	title:    "#7287fd",
	headline: "#4c4f69",
	text:     "#4c4f69",
	subtext:  "#5c5f77",
	muted:    "#8c8fa1",
	surface:  "#ccd0da",
	link:     "#1e66f5",
	quote:    "#6c6f85",
	code:     "#fe640b",
	warn:     "#d20f39",
	ok:       "#40a02b",
	load:     "#fe640b",
}

type Theme struct {
	Mode settings.ThemeMode
	Dark bool

	Title      lipgloss.Style
	ModePill   lipgloss.Style
	Section    lipgloss.Style
	Headline   lipgloss.Style
	Source     lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style

	article article.Styles
}

// DetectDarkBackground asks the terminal for its background color.
func DetectDarkBackground() bool {
	return termenv.HasDarkBackground()
}

// ForMode resolves mode to a palette. The system mode follows the terminal
// background reported by systemDark.
func ForMode(mode settings.ThemeMode, systemDark bool) Theme {
	isDark := systemDark
	switch mode {
	case settings.ThemeLight:
		isDark = false
	case settings.ThemeDark:
		isDark = true
	}
	p := light
	if isDark {
		p = dark
	}
	return Theme{
		Mode:       mode,
		Dark:       isDark,
		Title:      lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		ModePill:   lipgloss.NewStyle().Foreground(p.title).Background(p.surface).Padding(0, 1),
		Section:    lipgloss.NewStyle().Bold(true).Foreground(p.title),
		Headline:   lipgloss.NewStyle().Bold(true).Foreground(p.headline),
		Source:     lipgloss.NewStyle().Foreground(p.muted),
		ActiveLine: lipgloss.NewStyle().Background(p.surface).Foreground(p.text),
		MetaLabel:  lipgloss.NewStyle().Foreground(p.muted),
		MetaValue:  lipgloss.NewStyle().Foreground(p.subtext),
		StateIdle:  lipgloss.NewStyle().Foreground(p.ok),
		StateWarn:  lipgloss.NewStyle().Foreground(p.warn),
		StateLoad:  lipgloss.NewStyle().Foreground(p.load),
		article: article.Styles{
			Heading: lipgloss.NewStyle().Bold(true).Foreground(p.title),
			Link:    lipgloss.NewStyle().Foreground(p.link).Faint(true),
			Quote:   lipgloss.NewStyle().Italic(true).Foreground(p.quote),
			Code:    lipgloss.NewStyle().Foreground(p.code),
			Caption: lipgloss.NewStyle().Italic(true).Foreground(p.muted).Faint(true),
		},
	}
}

// Article returns the styles used for article bodies.
func (t Theme) Article() article.Styles {
	return t.article
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
