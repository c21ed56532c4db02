package pages

import (
	"strings"

	"github.com/goliatone/go-wiki/internal/catalog"
)

// FontSize is the text size class of a text element.
type FontSize int

const (
	FontSmall FontSize = iota
	FontMedium
)

func (f FontSize) String() string {
	if f == FontMedium {
		return "medium"
	}
	return "small"
}

// Kind names the conventional role of an element.
type Kind string

const (
	KindText       Kind = "text"
	KindImage      Kind = "image"
	KindEntityLink Kind = "entity_link"
	KindPageLink   Kind = "page_link"
	KindSection    Kind = "section"
)

// ImageSize is an explicit image size. Negative components mean "use the
// image's own size".
type ImageSize struct {
	Width  float64
	Height float64
}

// NaturalSize is the default image size.
var NaturalSize = ImageSize{Width: -1, Height: -1}

// IsExplicit reports whether both components were given.
func (s ImageSize) IsExplicit() bool {
	return s.Width >= 0 && s.Height >= 0
}

// Element is one piece of page content. The fields are not mutually
// exclusive in storage; Kind reports the conventional role.
type Element struct {
	Text     string
	FontSize FontSize

	Image        string
	ImageSize    ImageSize
	AutoFitImage bool

	// Def renders as the entity's icon and label. Text, when set alongside,
	// is shown next to it (cost counts, link labels).
	Def *catalog.Definition

	// PageLink holds the target page ID verbatim.
	PageLink string
	link     linkCell

	Section *Section
}

// Section is a named, collapsible group of elements.
type Section struct {
	Name     string
	Hidden   bool
	Elements []*Element
}

// NewText returns a small text element.
func NewText(text string) *Element {
	return &Element{Text: text, ImageSize: NaturalSize}
}

// NewMediumText returns a medium text element.
func NewMediumText(text string) *Element {
	return &Element{Text: text, FontSize: FontMedium, ImageSize: NaturalSize}
}

// NewImage returns an image element. A nil size keeps the natural size.
func NewImage(ref string, size *ImageSize) *Element {
	el := &Element{Image: ref, ImageSize: NaturalSize}
	if size != nil {
		el.ImageSize = *size
	}
	return el
}

// NewEntityLink returns an element referencing a definition.
func NewEntityLink(def *catalog.Definition, label string) *Element {
	return &Element{Def: def, Text: label, ImageSize: NaturalSize}
}

// MissingDefLinkText is the placeholder shown for an unknown entity reference.
func MissingDefLinkText(name string) string {
	return "MissingDefLink [" + name + "]"
}

// NewPageLink returns an unresolved link to the page with the given ID.
func NewPageLink(pageID string) *Element {
	return &Element{PageLink: pageID, ImageSize: NaturalSize}
}

// NewSection returns a collapsed section.
func NewSection(name string, children ...*Element) *Element {
	return &Element{
		ImageSize: NaturalSize,
		Section: &Section{
			Name:     name,
			Hidden:   true,
			Elements: children,
		},
	}
}

// Kind reports the element's conventional role.
func (e *Element) Kind() Kind {
	switch {
	case e == nil:
		return ""
	case e.Section != nil:
		return KindSection
	case e.PageLink != "":
		return KindPageLink
	case e.Def != nil:
		return KindEntityLink
	case e.Image != "":
		return KindImage
	default:
		return KindText
	}
}

// HasText reports whether the element renders any text.
func (e *Element) HasText() bool {
	return e != nil && (strings.TrimSpace(e.Text) != "" || e.PageLink != "")
}

// HasImage reports whether the element carries an image reference.
func (e *Element) HasImage() bool {
	return e != nil && e.Image != ""
}

// Children returns the section children, or nil for leaf elements.
func (e *Element) Children() []*Element {
	if e == nil || e.Section == nil {
		return nil
	}
	return e.Section.Elements
}

// PageFinder resolves a page ID across every registered wiki.
type PageFinder interface {
	GlobalFindPageByID(pageID string) (*Wiki, *Page)
}

// linkCell is assigned at most once: either a target or the broken flag.
type linkCell struct {
	done   bool
	broken bool
	wiki   *Wiki
	page   *Page
}

// ResolveLink returns the wiki and page the link points at. The first call
// performs the lookup; later calls return the cached result. A link whose
// target cannot be found is marked broken and never looked up again.
func (e *Element) ResolveLink(finder PageFinder) (*Wiki, *Page, bool) {
	if e == nil || e.PageLink == "" {
		return nil, nil, false
	}
	if !e.link.done {
		if finder == nil {
			return nil, nil, false
		}
		w, p := finder.GlobalFindPageByID(e.PageLink)
		e.link.done = true
		if p == nil {
			e.link.broken = true
		} else {
			e.link.wiki, e.link.page = w, p
		}
	}
	if e.link.broken {
		return nil, nil, false
	}
	return e.link.wiki, e.link.page, true
}

// IsLinkBroken reports whether a resolution attempt failed. Unresolved links
// are not broken yet.
func (e *Element) IsLinkBroken() bool {
	return e != nil && e.link.broken
}
