package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-wiki/internal/pages"
)

// SpoilerText replaces the content of spoiler pages and the labels of links
// pointing at them.
const SpoilerText = "???"

// Markdown renders pages as CommonMark. Link targets are resolved through the
// context registry; a nil context disables link resolution and spoilers.
type Markdown struct {
	ctx *pages.Context
	// anchors appends {#id} heading attributes.
	anchors bool
}

// NewMarkdown returns a Markdown renderer bound to ctx.
func NewMarkdown(ctx *pages.Context) *Markdown {
	return &Markdown{ctx: ctx, anchors: true}
}

// Anchor is the fragment identifier of a page heading.
func Anchor(page *pages.Page) string {
	if page == nil {
		return ""
	}
	if anchor, err := slug.Normalize(page.Key()); err == nil && anchor != "" {
		return anchor
	}
	return strings.ToLower(strings.Join(strings.Fields(page.Key()), "-"))
}

// Page renders one page with a level one heading.
func (m *Markdown) Page(page *pages.Page) string {
	var b strings.Builder
	m.page(&b, page, 1)
	return b.String()
}

// Wiki renders every page of w under a table of contents.
func (m *Markdown) Wiki(w *pages.Wiki) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escape(w.Title))
	for _, page := range w.Pages {
		fmt.Fprintf(&b, "- [%s](#%s)\n", escape(m.title(page)), Anchor(page))
	}
	b.WriteString("\n")
	for _, page := range w.Pages {
		m.page(&b, page, 2)
	}
	return b.String()
}

func (m *Markdown) title(page *pages.Page) string {
	if page.IsSpoiler(m.ctx) {
		return SpoilerText
	}
	return page.Title
}

func (m *Markdown) page(b *strings.Builder, page *pages.Page, level int) {
	if page == nil {
		return
	}
	fmt.Fprintf(b, "%s %s", strings.Repeat("#", level), escape(m.title(page)))
	if m.anchors {
		fmt.Fprintf(b, " {#%s}", Anchor(page))
	}
	b.WriteString("\n\n")
	if page.IsSpoiler(m.ctx) {
		fmt.Fprintf(b, "_%s_\n\n", "Research required to reveal this page.")
		return
	}
	if page.Icon != "" {
		fmt.Fprintf(b, "![icon](%s)\n\n", page.Icon)
	}
	if page.ShortDescription != "" {
		fmt.Fprintf(b, "_%s_\n\n", escape(page.ShortDescription))
	}
	m.elements(b, page.Elements, level+1)
}

func (m *Markdown) elements(b *strings.Builder, elements []*pages.Element, level int) {
	for _, e := range elements {
		switch e.Kind() {
		case pages.KindSection:
			fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", min(level, 6)), escape(e.Section.Name))
			m.elements(b, e.Section.Elements, level+1)
		case pages.KindImage:
			title := ""
			if e.ImageSize.IsExplicit() {
				title = fmt.Sprintf(" \"%gx%g\"", e.ImageSize.Width, e.ImageSize.Height)
			}
			fmt.Fprintf(b, "![%s](%s%s)\n\n", escape(e.Image), e.Image, title)
		case pages.KindEntityLink:
			b.WriteString(m.entityLink(e))
			b.WriteString("\n\n")
		case pages.KindPageLink:
			b.WriteString(m.pageLink(e))
			b.WriteString("\n\n")
		case pages.KindText:
			if !e.HasText() {
				continue
			}
			if e.FontSize == pages.FontMedium {
				fmt.Fprintf(b, "**%s**\n\n", escape(e.Text))
			} else {
				fmt.Fprintf(b, "%s\n\n", escape(e.Text))
			}
		}
	}
}

func (m *Markdown) entityLink(e *pages.Element) string {
	label := escape(e.Def.LabelCap())
	suffix := ""
	if e.Text != "" {
		suffix = " " + escape(e.Text)
	}
	if m.ctx == nil || m.ctx.Registry == nil {
		return label + suffix
	}
	_, target := m.ctx.Registry.GlobalFindPageByDef(e.Def)
	switch {
	case target == nil:
		return label + suffix
	case target.IsSpoiler(m.ctx):
		return SpoilerText + suffix
	default:
		return fmt.Sprintf("[%s](#%s)%s", label, Anchor(target), suffix)
	}
}

func (m *Markdown) pageLink(e *pages.Element) string {
	if m.ctx == nil || m.ctx.Registry == nil {
		return escape(e.PageLink)
	}
	_, target, ok := e.ResolveLink(m.ctx.Registry)
	switch {
	case !ok:
		return fmt.Sprintf("~~%s~~", escape(e.PageLink))
	case target.IsSpoiler(m.ctx):
		return SpoilerText
	default:
		return fmt.Sprintf("[%s](#%s)", escape(target.Title), Anchor(target))
	}
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"`", "\\`",
	"#", `\#`,
	"<", `\<`,
)

func escape(text string) string {
	return markdownEscaper.Replace(text)
}
