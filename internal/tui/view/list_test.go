package view

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/headlines-cli/internal/newsapi"
)

func TestRenderArticleLine_RightAlignsSourceAndTime(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	line := RenderArticleLine(ArticleLineParams{
		Article: newsapi.Article{
			Title:       "Markets rally",
			Source:      newsapi.Source{Name: "Reuters"},
			PublishedAt: now.Add(-2 * time.Hour).Format(time.RFC3339),
		},
		Now:   now,
		Index: 0,
		Width: 60,
	}, testTheme())
	plain := stripANSI(line)
	if !strings.HasSuffix(plain, "Reuters · 2 hours ago") {
		t.Fatalf("expected source and time at right edge, got %q", plain)
	}
	if !strings.HasPrefix(plain, "    1. Markets rally") {
		t.Fatalf("unexpected prefix: %q", plain)
	}
	if w := lipgloss.Width(plain); w != 60 {
		t.Fatalf("line width = %d, want 60", w)
	}
}

func TestRenderArticleLine_TruncatesLongTitles(t *testing.T) {
	line := stripANSI(RenderArticleLine(ArticleLineParams{
		Article: newsapi.Article{Title: strings.Repeat("long ", 30)},
		Now:     time.Now(),
		Active:  true,
		Width:   40,
	}, testTheme()))
	if !strings.Contains(line, "...") {
		t.Fatalf("expected truncated title, got %q", line)
	}
	if !strings.HasPrefix(line, " >") {
		t.Fatalf("expected active cursor, got %q", line)
	}
	if !strings.HasSuffix(line, "unknown") {
		t.Fatalf("expected unknown time for missing date, got %q", line)
	}
}

func TestArticleLabel(t *testing.T) {
	if got := ArticleLabel(newsapi.Article{Title: "  "}); got != "(untitled)" {
		t.Fatalf("ArticleLabel() = %q", got)
	}
}

func TestEmptyFeedMessage(t *testing.T) {
	if !strings.Contains(EmptyFeedMessage(true, ""), "Loading") {
		t.Fatal("expected loading message")
	}
	if !strings.Contains(EmptyFeedMessage(false, "golang"), `"golang"`) {
		t.Fatal("expected query in message")
	}
	if !strings.Contains(EmptyFeedMessage(false, ""), "refresh") {
		t.Fatal("expected refresh hint")
	}
}

func TestRelativeTimeLabel(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		then time.Time
		want string
	}{
		{then: now.Add(-30 * time.Second), want: "just now"},
		{then: now.Add(time.Hour), want: "just now"},
		{then: now.Add(-1 * time.Minute), want: "1 minute ago"},
		{then: now.Add(-3 * time.Minute), want: "3 minutes ago"},
		{then: now.Add(-1 * time.Hour), want: "1 hour ago"},
		{then: now.Add(-7 * time.Hour), want: "7 hours ago"},
		{then: now.Add(-1 * 24 * time.Hour), want: "1 day ago"},
		{then: now.Add(-7 * 24 * time.Hour), want: "7 days ago"},
		{then: time.Time{}, want: "unknown"},
	}
	for _, tc := range cases {
		if got := RelativeTimeLabel(now, tc.then); got != tc.want {
			t.Fatalf("RelativeTimeLabel(%s) = %q, want %q", tc.then.UTC().Format(time.RFC3339), got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("héllo wörld", 8); got != "héllo..." {
		t.Fatalf("truncate() = %q", got)
	}
	if got := truncate("abc", 2); got != ".." {
		t.Fatalf("truncate() = %q", got)
	}
	if got := truncate("日本語のニュース", 7); lipgloss.Width(got) > 7 {
		t.Fatalf("truncate() = %q is wider than 7 cells", got)
	}
}
