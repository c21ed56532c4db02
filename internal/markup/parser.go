package markup

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-wiki/internal/catalog"
	"github.com/goliatone/go-wiki/internal/custom"
	"github.com/goliatone/go-wiki/internal/logging"
	"github.com/goliatone/go-wiki/internal/pages"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

// Source is one markup document to parse.
type Source struct {
	Text     string
	FileName string
	// Checksum fingerprints Text; recorded as the page origin when set.
	Checksum string
	// Existing is the page to overlay, or nil to create a new page.
	Existing *pages.Page
	// Wiki owns the page; custom element handlers receive it.
	Wiki *pages.Wiki
}

// Result is the outcome of a parse.
type Result struct {
	Page        *pages.Page
	Overlay     bool
	Appended    int
	Diagnostics Diagnostics
}

// Option customises a Parser.
type Option func(*Parser)

// WithDefinitions sets the lookup used for entity links.
func WithDefinitions(lookup catalog.Lookup) Option {
	return func(p *Parser) {
		p.definitions = lookup
	}
}

// WithDispatcher enables custom blocks and routes them to dispatcher.
func WithDispatcher(dispatcher *custom.Dispatcher) Option {
	return func(p *Parser) {
		if dispatcher != nil {
			p.dispatcher = dispatcher
			p.customBlocks = true
		}
	}
}

// WithCustomBlocks toggles the '|' delimiter.
func WithCustomBlocks(enabled bool) Option {
	return func(p *Parser) {
		p.customBlocks = enabled
	}
}

// WithLogger sets the logger every diagnostic is reported to.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Parser turns markup text into pages. A Parser reuses its tag table and is
// not safe for concurrent use.
type Parser struct {
	definitions  catalog.Lookup
	dispatcher   *custom.Dispatcher
	customBlocks bool
	logger       interfaces.Logger
	tags         *TagTable
}

// NewParser returns a parser. Custom blocks are disabled unless a dispatcher
// is supplied or WithCustomBlocks(true) is given.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger: logging.NoOp(),
		tags:   NewTagTable(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.customBlocks && p.dispatcher == nil {
		p.dispatcher = custom.NewDispatcher(nil)
	}
	return p
}

// parse holds the per-document state.
type parse struct {
	*Parser
	src    Source
	page   *pages.Page
	result *Result
	line   int
	text   string
}

// Parse reads src. A new page (src.Existing == nil) requires an ENDTAGS
// header; that is the only failure returned as an error. Every other problem
// is recorded as a diagnostic and parsing continues.
func (p *Parser) Parse(src Source) (*Result, error) {
	lines := splitLines(src.Text)
	st := &parse{Parser: p, src: src, result: &Result{Overlay: src.Existing != nil}}

	end := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == EndTags {
			end = i
			break
		}
	}
	if end < 0 && src.Existing == nil {
		st.report(KindMissingHeader, SeverityError, 0, "", fmt.Sprintf("page has no %s line", EndTags))
		return st.result, missingHeaderError(src.FileName)
	}

	p.tags.Reset()
	for i := 0; i < end; i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		tag, value, err := ParseHeaderLine(line)
		if err == nil {
			err = p.tags.Set(tag, value)
		}
		if err != nil {
			st.report(KindHeaderError, SeverityError, i+1, strings.TrimSpace(line), err.Error())
		}
	}

	if src.Existing == nil {
		st.page = st.newPage()
	} else {
		st.page = src.Existing
		st.mergeHeader()
	}
	before := len(st.page.Elements)

	lexer := NewLexer(p.customBlocks)
	for i := end + 1; i < len(lines); i++ {
		st.line = i + 1
		st.text = lines[i]
		lexer.StartLine()
		for _, c := range lines[i] + "\n" {
			tr := lexer.Step(c)
			switch tr.Event {
			case EventMismatch:
				st.report(KindDelimiterError, SeverityError, st.line, strings.TrimSpace(st.text),
					fmt.Sprintf("got '%c' while %s is active", tr.Char, tr.Mode))
			case EventClose:
				st.finish(tr.Mode, tr.Token)
			}
		}
	}
	if lexer.Mode() != ModeNone {
		st.report(KindUnterminatedToken, SeverityWarning, st.line, lexer.Pending(),
			fmt.Sprintf("%s token is never closed", lexer.Mode()))
	}

	if src.FileName != "" {
		st.page.Origins = append(st.page.Origins, pages.Origin{File: src.FileName, Checksum: src.Checksum})
	}
	st.result.Page = st.page
	st.result.Appended = len(st.page.Elements) - before
	return st.result, nil
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func (st *parse) report(kind Kind, severity Severity, line int, snippet, message string) {
	d := Diagnostic{
		Kind:     kind,
		Severity: severity,
		File:     st.src.FileName,
		Line:     line,
		Snippet:  snippet,
		Message:  message,
	}
	st.result.Diagnostics = append(st.result.Diagnostics, d)
	d.Log(st.logger)
}

func (st *parse) newPage() *pages.Page {
	tags := st.tags
	page := &pages.Page{
		ID:               tags.GetOr(TagID, pages.InvalidID),
		Title:            tags.GetOr(TagTitle, pages.MissingTitle),
		Icon:             tags.GetOr(TagIcon, ""),
		Background:       tags.GetOr(TagBackground, ""),
		ShortDescription: tags.GetOr(TagDescription, ""),
		IsAlwaysSpoiler:  alwaysSpoiler(tags),
	}
	if research := tags.GetOr(TagRequiredResearch, ""); research != "" {
		page.RequiresResearchRaw = research
	}
	if !tags.Has(TagID) {
		st.report(KindMissingID, SeverityWarning, 0, "",
			fmt.Sprintf("page titled %q has no ID tag; it should specify 'ID: MyPageID'", page.Title))
	}
	return page
}

// mergeHeader applies an overlay header. ID and Title are never touched.
func (st *parse) mergeHeader() {
	tags, page := st.tags, st.page
	if background, ok := tags.Get(TagBackground); ok {
		page.Background = background
	}
	if research := tags.GetOr(TagRequiredResearch, ""); research != "" {
		page.RequiresResearchRaw = research
	}
	if alwaysSpoiler(tags) {
		page.IsAlwaysSpoiler = true
	}
	if icon := tags.GetOr(TagIcon, ""); icon != "" {
		page.Icon = icon
	}
	if desc, ok := tags.Get(TagDescription); ok {
		page.ShortDescription = desc
	}
}

func alwaysSpoiler(tags *TagTable) bool {
	return tags.GetOr(TagAlwaysSpoiler, "false") != "false"
}

func (st *parse) finish(mode Mode, token string) {
	switch mode {
	case ModeText:
		st.addText(token)
	case ModeImage:
		st.addImage(token)
	case ModeEntityLink:
		st.addEntityLink(token)
	case ModePageLink:
		st.page.Append(pages.NewPageLink(token))
	case ModeCustom:
		st.addCustom(token)
	}
}

func (st *parse) addText(token string) {
	medium := strings.HasPrefix(token, "!")
	if medium {
		token = token[1:]
	}
	if strings.TrimSpace(token) == "" {
		return
	}
	if medium {
		st.page.Append(pages.NewMediumText(token))
		return
	}
	st.page.Append(pages.NewText(token))
}

func (st *parse) addImage(token string) {
	ref, rawSize, hasSize := strings.Cut(token, ":")
	var size *pages.ImageSize
	if hasSize {
		parsed, err := parseImageSize(rawSize)
		if err != nil {
			st.report(KindSizeParseError, SeverityError, st.line, token, err.Error())
		} else {
			size = &parsed
		}
	}
	el := pages.NewImage(strings.TrimSpace(ref), size)
	el.AutoFitImage = size == nil
	st.page.Append(el)
}

func parseImageSize(raw string) (pages.ImageSize, error) {
	rawX, rawY, ok := strings.Cut(raw, ",")
	if !ok {
		return pages.ImageSize{}, fmt.Errorf("failed to parse image size '%s', expected format 'x, y'", raw)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(rawX), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(rawY), 64)
	switch {
	case errX != nil:
		return pages.ImageSize{}, fmt.Errorf("failed to parse image size '%s', x is not a number", raw)
	case errY != nil:
		return pages.ImageSize{}, fmt.Errorf("failed to parse image size '%s', y is not a number", raw)
	}
	return pages.ImageSize{Width: x, Height: y}, nil
}

func (st *parse) addEntityLink(token string) {
	id, label, _ := strings.Cut(token, ":")
	id = strings.TrimSpace(id)
	if st.definitions != nil {
		if def, ok := st.definitions.Definition(id); ok {
			st.page.Append(pages.NewEntityLink(def, label))
			return
		}
	}
	st.report(KindLinkResolutionFailure, SeverityWarning, st.line, token,
		fmt.Sprintf("unknown entity '%s'", id))
	st.page.Append(pages.NewText(pages.MissingDefLinkText(id)))
}

func (st *parse) addCustom(token string) {
	if strings.TrimSpace(token) == "" {
		st.report(KindEmptyCustomElement, SeverityWarning, st.line, "", "empty custom element")
		return
	}
	elements, err := st.dispatcher.Dispatch(st.src.Wiki, st.page, token)
	if err != nil {
		var invocation *custom.InvocationError
		switch {
		case errors.As(err, &invocation):
			st.report(KindHandlerInvocationError, SeverityError, st.line, token, err.Error())
		case errors.Is(err, custom.ErrEmptyToken):
			st.report(KindEmptyCustomElement, SeverityWarning, st.line, "", err.Error())
		default:
			st.report(KindHandlerResolutionFailure, SeverityError, st.line, token, err.Error())
		}
		return
	}
	st.page.Append(elements...)
}
