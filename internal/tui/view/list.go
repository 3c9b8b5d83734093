package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/glabrego/headlines-cli/internal/newsapi"
	tuitheme "github.com/glabrego/headlines-cli/internal/tui/theme"
)

type ArticleLineParams struct {
	Article newsapi.Article
	Now     time.Time
	Index   int
	Active  bool
	Width   int
}

func RenderArticleLine(p ArticleLineParams, th tuitheme.Theme) string {
	cursor := " "
	if p.Active {
		cursor = ">"
	}
	prefix := fmt.Sprintf(" %s%3d. ", cursor, p.Index+1)

	right := RelativeTimeLabel(p.Now, p.Article.PublishedTime())
	if source := strings.TrimSpace(p.Article.Source.Name); source != "" {
		right = source + " · " + right
	}
	available := p.Width - visibleLen(prefix) - 1 - visibleLen(right)
	if available < 1 {
		available = 1
	}
	title := truncate(ArticleLabel(p.Article), available)

	gap := p.Width - visibleLen(prefix) - visibleLen(title) - visibleLen(right)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, prefix+th.Headline.Render(title)+strings.Repeat(" ", gap)+th.Source.Render(right))
}

func ArticleLabel(a newsapi.Article) string {
	if title := strings.TrimSpace(a.Title); title != "" {
		return title
	}
	return "(untitled)"
}

// EmptyFeedMessage explains an empty list.
func EmptyFeedMessage(loading bool, query string) string {
	switch {
	case loading:
		return "Loading headlines..."
	case query != "":
		return fmt.Sprintf("No articles match %q.", query)
	}
	return "No headlines yet. Press r to refresh."
}

func RelativeTimeLabel(now, then time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}
	if then.IsZero() {
		return "unknown"
	}
	if then.After(now) {
		return "just now"
	}
	d := now.Sub(then)
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		n := int(d / time.Minute)
		if n == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", n)
	}
	if d < 24*time.Hour {
		n := int(d / time.Hour)
		if n == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", n)
	}
	n := int(d / (24 * time.Hour))
	if n == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", n)
}

// truncate shortens s to width cells, ending in "..." when cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return strings.Repeat(".", width)
	}
	return ansi.Truncate(s, width, "...")
}

func visibleLen(s string) int {
	return ansi.StringWidth(s)
}
