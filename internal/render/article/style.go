package article

import "github.com/charmbracelet/lipgloss"

// Styles decorate rendered blocks. The zero value renders plain text.
type Styles struct {
	Heading lipgloss.Style
	Link    lipgloss.Style
	Quote   lipgloss.Style
	Code    lipgloss.Style
	Caption lipgloss.Style
}

// PlainStyles renders without escape sequences.
func PlainStyles() Styles {
	return Styles{}
}
