// Package article turns NewsAPI article text, which may carry HTML fragments,
// into wrapped terminal lines.
package article

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	nethtml "golang.org/x/net/html"

	"github.com/glabrego/headlines-cli/internal/newsapi"
)

var (
	reTruncated = regexp.MustCompile(`\s*…?\s*\[\+\d+ chars\]\s*$`)
	reHTTPURL   = regexp.MustCompile(`https?://[^\s)]+`)
	reHTMLTag   = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
)

// StripTruncation removes NewsAPI's "[+N chars]" suffix from content.
func StripTruncation(content string) string {
	return strings.TrimSpace(reTruncated.ReplaceAllString(content, ""))
}

// Body is the best available text for a: content without the truncation
// marker, or the description when content is empty.
func Body(a newsapi.Article) string {
	if content := StripTruncation(a.Content); content != "" {
		return content
	}
	return strings.TrimSpace(a.Description)
}

// Lines renders the article body at width.
func Lines(a newsapi.Article, width int, styles Styles) []string {
	return RenderLines(Body(a), width, styles)
}

// RenderLines renders plain text or an HTML fragment at width.
func RenderLines(raw string, width int, styles Styles) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	width = max(1, width)
	if !reHTMLTag.MatchString(raw) {
		return wrapText(html.UnescapeString(raw), width)
	}

	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return wrapText(html.UnescapeString(raw), width)
	}
	body := findBody(doc)
	if body == nil {
		return wrapText(html.UnescapeString(raw), width)
	}
	r := renderer{width: width, styles: styles}
	return styleLinks(trimBlankLines(r.nodes(children(body), 0)), styles.Link)
}

// Wrap breaks plain text into lines no wider than width cells.
func Wrap(text string, width int) []string {
	return wrapText(strings.TrimSpace(text), max(1, width))
}

// PlainText flattens raw to unstyled text, paragraphs separated by blank lines.
func PlainText(raw string) string {
	return strings.Join(RenderLines(raw, 1<<16, PlainStyles()), "\n")
}

func styleLinks(lines []string, style lipgloss.Style) []string {
	for i, line := range lines {
		lines[i] = reHTTPURL.ReplaceAllStringFunc(line, func(m string) string {
			return style.Render(m)
		})
	}
	return lines
}

// trimBlankLines drops leading and trailing blank lines and collapses runs.
func trimBlankLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	prevBlank := true
	for _, line := range lines {
		blank := strings.TrimSpace(line) == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, line)
		prevBlank = blank
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// wrapText wraps on word boundaries by display width. Words longer than width
// are split.
func wrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	var out []string
	for _, p := range strings.Split(text, "\n") {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line, lineWidth := "", 0
		for _, word := range words {
			for lipgloss.Width(word) > width {
				if line != "" {
					out = append(out, line)
					line, lineWidth = "", 0
				}
				head, tail := splitAtWidth(word, width)
				out = append(out, head)
				word = tail
			}
			w := lipgloss.Width(word)
			switch {
			case line == "":
				line, lineWidth = word, w
			case lineWidth+1+w <= width:
				line += " " + word
				lineWidth += 1 + w
			default:
				out = append(out, line)
				line, lineWidth = word, w
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitAtWidth(s string, width int) (string, string) {
	used := 0
	for i, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width && i > 0 {
			return s[:i], s[i:]
		}
		used += w
	}
	return s, ""
}

func findBody(node *nethtml.Node) *nethtml.Node {
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBody(child); found != nil {
			return found
		}
	}
	return nil
}

func children(node *nethtml.Node) []*nethtml.Node {
	var out []*nethtml.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.TextNode && strings.TrimSpace(child.Data) == "" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func attr(node *nethtml.Node, name string) string {
	for _, a := range node.Attr {
		if strings.EqualFold(a.Key, name) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func rawText(node *nethtml.Node) string {
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(rawText(child))
	}
	return b.String()
}
