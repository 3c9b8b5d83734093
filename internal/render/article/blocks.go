package article

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	nethtml "golang.org/x/net/html"
)

type renderer struct {
	width  int
	styles Styles
}

// nodes renders siblings, grouping runs of inline content into paragraphs.
func (r renderer) nodes(nodes []*nethtml.Node, depth int) []string {
	var lines, pending []string
	appendBlock := func(block []string) {
		if len(block) == 0 {
			return
		}
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
	}
	flush := func() {
		text := normalizeInline(strings.Join(pending, " "))
		pending = pending[:0]
		if text != "" {
			appendBlock(wrapText(text, r.width))
		}
	}

	for _, node := range nodes {
		switch {
		case node.Type == nethtml.TextNode:
			pending = append(pending, node.Data)
		case node.Type == nethtml.ElementNode && isBlock(node.Data):
			flush()
			appendBlock(r.block(node, depth))
		case node.Type == nethtml.ElementNode:
			pending = append(pending, r.inline(node))
		}
	}
	flush()
	return trimBlankLines(lines)
}

func (r renderer) block(node *nethtml.Node, depth int) []string {
	switch tag := strings.ToLower(node.Data); tag {
	case "script", "style", "noscript", "img", "iframe":
		return nil
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return styled(wrapText(normalizeInline(r.inlineChildren(node)), r.width), r.styles.Heading)
	case "blockquote":
		inner := r.nodes(children(node), depth)
		out := make([]string, len(inner))
		for i, line := range inner {
			if strings.TrimSpace(line) != "" {
				line = "│ " + r.styles.Quote.Render(line)
			}
			out[i] = line
		}
		return out
	case "ul", "ol":
		return r.list(node, tag == "ol", depth+1)
	case "li":
		return r.listItem(node, depth, "• ")
	case "pre":
		var out []string
		for _, line := range strings.Split(strings.ReplaceAll(rawText(node), "\r\n", "\n"), "\n") {
			if line = strings.TrimRight(line, " \t"); line != "" {
				line = "    " + r.styles.Code.Render(line)
			}
			out = append(out, line)
		}
		return trimBlankLines(out)
	case "hr":
		return []string{strings.Repeat("─", min(r.width, 24))}
	case "figcaption", "caption":
		return styled(prefixed(normalizeInline(r.inlineChildren(node)), r.width, "— ", "  "), r.styles.Caption)
	default:
		if hasBlockChild(node) {
			return r.nodes(children(node), depth)
		}
		if text := normalizeInline(r.inlineChildren(node)); text != "" {
			return wrapText(text, r.width)
		}
		return nil
	}
}

func (r renderer) list(node *nethtml.Node, ordered bool, depth int) []string {
	var lines []string
	n := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode || !strings.EqualFold(child.Data, "li") {
			continue
		}
		n++
		marker := "• "
		if ordered {
			marker = fmt.Sprintf("%d. ", n)
		} else if depth > 1 {
			marker = "◦ "
		}
		lines = append(lines, r.listItem(child, depth, marker)...)
	}
	return lines
}

func (r renderer) listItem(node *nethtml.Node, depth int, marker string) []string {
	indent := strings.Repeat("  ", max(0, depth-1))
	var parts []string
	var nested []*nethtml.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && (strings.EqualFold(child.Data, "ul") || strings.EqualFold(child.Data, "ol")) {
			nested = append(nested, child)
			continue
		}
		parts = append(parts, r.inline(child))
	}

	lines := prefixed(normalizeInline(strings.Join(parts, " ")), r.width, indent+marker, indent+strings.Repeat(" ", lipgloss.Width(marker)))
	for _, n := range nested {
		lines = append(lines, r.list(n, strings.EqualFold(n.Data, "ol"), depth+1)...)
	}
	return lines
}

func prefixed(text string, width int, first, rest string) []string {
	if text == "" {
		return nil
	}
	wrapped := wrapText(text, max(1, width-lipgloss.Width(first)))
	for i := range wrapped {
		if i == 0 {
			wrapped[i] = first + wrapped[i]
		} else {
			wrapped[i] = rest + wrapped[i]
		}
	}
	return wrapped
}

func styled(lines []string, style lipgloss.Style) []string {
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = style.Render(line)
		}
	}
	return lines
}

func isBlock(tag string) bool {
	switch strings.ToLower(tag) {
	case "h1", "h2", "h3", "h4", "h5", "h6",
		"p", "div", "section", "article", "main", "header", "footer", "aside", "nav",
		"blockquote", "ul", "ol", "li", "pre", "hr", "figure", "figcaption", "caption",
		"img", "iframe", "script", "style", "noscript":
		return true
	}
	return false
}

func hasBlockChild(node *nethtml.Node) bool {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && isBlock(child.Data) {
			return true
		}
	}
	return false
}
