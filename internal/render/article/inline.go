package article

import (
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
)

var punctuationFix = strings.NewReplacer(
	" .", ".",
	" ,", ",",
	" ;", ";",
	" :", ":",
	" !", "!",
	" ?", "?",
	" )", ")",
	"( ", "(",
)

func (r renderer) inlineChildren(node *nethtml.Node) string {
	var parts []string
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		parts = append(parts, r.inline(child))
	}
	return strings.Join(parts, " ")
}

func (r renderer) inline(node *nethtml.Node) string {
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
	default:
		return ""
	}

	switch strings.ToLower(node.Data) {
	case "script", "style", "noscript", "img", "iframe":
		return ""
	case "br":
		return "\n"
	case "a":
		text := normalizeInline(r.inlineChildren(node))
		href := attr(node, "href")
		switch {
		case href == "" || strings.EqualFold(text, href):
			return text
		case text == "":
			return href
		default:
			return text + " (" + href + ")"
		}
	case "code", "kbd", "samp":
		if text := normalizeInline(r.inlineChildren(node)); text != "" {
			return r.styles.Code.Render("`" + text + "`")
		}
		return ""
	default:
		return r.inlineChildren(node)
	}
}

// normalizeInline unescapes entities and collapses whitespace, keeping explicit
// line breaks.
func normalizeInline(s string) string {
	var out []string
	for _, part := range strings.Split(html.UnescapeString(s), "\n") {
		if part = strings.Join(strings.Fields(part), " "); part != "" {
			out = append(out, part)
		}
	}
	return punctuationFix.Replace(strings.Join(out, "\n"))
}
