package view

import (
	"strings"

	"github.com/glabrego/headlines-cli/internal/newsapi"
	"github.com/glabrego/headlines-cli/internal/render/article"
	tuitheme "github.com/glabrego/headlines-cli/internal/tui/theme"
)

const publishedLayout = "Jan 2, 2006 15:04 MST"

type ImagePreviewState struct {
	Enabled bool
	Loading bool
	Raw     string
	Err     string
}

func DetailMetaLines(a newsapi.Article, width int, th tuitheme.Theme) []string {
	title := ArticleLabel(a)
	lines := make([]string, 0, 12)
	for _, line := range article.Wrap(title, width) {
		lines = append(lines, th.Headline.Render(line))
	}
	lines = append(lines, strings.Repeat("=", max(1, min(width, visibleLen(title)))))
	lines = append(lines, "")

	meta := func(label, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		for i, line := range article.Wrap(label+": "+value, width) {
			if i == 0 {
				line = th.MetaLabel.Render(label+":") + th.MetaValue.Render(strings.TrimPrefix(line, label+":"))
			}
			lines = append(lines, line)
		}
	}
	meta("Source", a.Source.Name)
	meta("Author", a.Author)
	if published := a.PublishedTime(); !published.IsZero() {
		meta("Published", published.UTC().Format(publishedLayout))
	} else {
		meta("Published", a.PublishedAt)
	}
	meta("URL", a.URL)
	return lines
}

// DetailLines is the full detail screen body: metadata, image preview,
// description and content.
func DetailLines(a newsapi.Article, width int, th tuitheme.Theme, preview ImagePreviewState) []string {
	lines := DetailMetaLines(a, width, th)
	if previewLines := imagePreviewLines(preview, width); len(previewLines) > 0 {
		lines = append(lines, "")
		lines = append(lines, previewLines...)
	}

	description := strings.TrimSpace(a.Description)
	body := article.Body(a)
	if description != "" && description != body {
		lines = append(lines, "")
		lines = append(lines, article.RenderLines(description, width, th.Article())...)
	}
	if content := article.Lines(a, width, th.Article()); len(content) > 0 {
		lines = append(lines, "")
		lines = append(lines, content...)
	}
	return lines
}

func imagePreviewLines(preview ImagePreviewState, width int) []string {
	if !preview.Enabled {
		return nil
	}
	if preview.Loading {
		return []string{"Loading image preview..."}
	}
	if raw := strings.TrimRight(preview.Raw, "\r\n"); strings.TrimSpace(raw) != "" {
		if ContainsKittyGraphicsEscape(raw) {
			return []string{raw}
		}
		return centerLines(strings.Split(raw, "\n"), width)
	}
	if msg := strings.TrimSpace(preview.Err); msg != "" {
		return []string{"Image preview unavailable: " + msg}
	}
	return nil
}

func centerLines(lines []string, width int) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		pad := (width - visibleLen(line)) / 2
		if pad > 0 {
			line = strings.Repeat(" ", pad) + line
		}
		out[i] = line
	}
	return out
}
