package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/goliatone/go-wiki/internal/pages"
)

// DefaultWidth is the terminal word wrap width.
const DefaultWidth = 80

// Terminal renders pages for a terminal through glamour.
type Terminal struct {
	markdown *Markdown
	renderer *glamour.TermRenderer
}

// NewTerminal returns a terminal renderer. style is a glamour standard style
// name ("dark", "light", "notty", ...); empty selects "notty".
func NewTerminal(ctx *pages.Context, style string, width int) (*Terminal, error) {
	if style == "" {
		style = "notty"
	}
	if width <= 0 {
		width = DefaultWidth
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("render terminal: %w", err)
	}
	return &Terminal{markdown: &Markdown{ctx: ctx}, renderer: tr}, nil
}

// Page renders one page.
func (t *Terminal) Page(page *pages.Page) (string, error) {
	return t.renderer.Render(t.markdown.Page(page))
}

// Wiki renders a whole wiki.
func (t *Terminal) Wiki(w *pages.Wiki) (string, error) {
	return t.renderer.Render(t.markdown.Wiki(w))
}
