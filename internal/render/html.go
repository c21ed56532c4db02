package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-wiki/internal/pages"
)

// HTML renders pages by converting their Markdown with goldmark. Raw HTML in
// page text is never emitted.
type HTML struct {
	markdown *Markdown
	engine   goldmark.Markdown
}

// HTMLOption customises the HTML renderer.
type HTMLOption func(*htmlConfig)

type htmlConfig struct {
	hardWraps bool
	xhtml     bool
}

// WithHardWraps renders newlines inside paragraphs as line breaks.
func WithHardWraps() HTMLOption {
	return func(c *htmlConfig) { c.hardWraps = true }
}

// WithXHTML emits self-closing void elements.
func WithXHTML() HTMLOption {
	return func(c *htmlConfig) { c.xhtml = true }
}

// NewHTML returns an HTML renderer bound to ctx.
func NewHTML(ctx *pages.Context, opts ...HTMLOption) *HTML {
	cfg := htmlConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &HTML{markdown: NewMarkdown(ctx), engine: newGoldmarkEngine(cfg)}
}

// Page renders one page.
func (h *HTML) Page(page *pages.Page) ([]byte, error) {
	return h.convert(h.markdown.Page(page))
}

// Wiki renders a whole wiki as one document.
func (h *HTML) Wiki(w *pages.Wiki) ([]byte, error) {
	return h.convert(h.markdown.Wiki(w))
}

func (h *HTML) convert(source string) ([]byte, error) {
	var buf bytes.Buffer
	if err := h.engine.Convert([]byte(source), &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func newGoldmarkEngine(cfg htmlConfig) goldmark.Markdown {
	var rendererOptions []renderer.Option
	if cfg.hardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if cfg.xhtml {
		rendererOptions = append(rendererOptions, html.WithXHTML())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		goldmark.WithParserOptions(parser.WithAttribute()),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	return goldmark.New(engineOptions...)
}
