package loader

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-wiki/internal/catalog"
	"github.com/goliatone/go-wiki/internal/logging"
	"github.com/goliatone/go-wiki/internal/markup"
	"github.com/goliatone/go-wiki/internal/pages"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

// Option customises a Loader.
type Option func(*Loader)

// WithParser sets the markup parser.
func WithParser(parser *markup.Parser) Option {
	return func(l *Loader) {
		if parser != nil {
			l.parser = parser
		}
	}
}

// WithPredicates sets the registry consulted for All_ files.
func WithPredicates(predicates *PredicateRegistry) Option {
	return func(l *Loader) {
		if predicates != nil {
			l.predicates = predicates
		}
	}
}

// WithLanguages sets the language provider.
func WithLanguages(languages interfaces.LanguageProvider) Option {
	return func(l *Loader) {
		l.languages = languages
	}
}

// WithLogger sets the logger used for loader diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader reads markup files from a wiki folder into a wiki.
type Loader struct {
	fs         fs.FS
	parser     *markup.Parser
	predicates *PredicateRegistry
	languages  interfaces.LanguageProvider
	logger     interfaces.Logger
}

// New returns a loader over fsys.
func New(fsys fs.FS, opts ...Option) *Loader {
	l := &Loader{
		fs:         fsys,
		predicates: NewPredicateRegistry(),
		languages:  interfaces.StaticLanguages{Active: "English", Default: "English"},
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if l.parser == nil {
		l.parser = markup.NewParser(markup.WithLogger(l.logger))
	}
	return l
}

// Predicates returns the predicate registry.
func (l *Loader) Predicates() *PredicateRegistry { return l.predicates }

// LoadAll loads every markup file of the selected language folder under dir
// into w. Files are processed in descending name order; standalone pages are
// inserted at the head of the wiki, so they end up in ascending order ahead of
// generated pages. Problems with single files are recorded in the report and
// never abort the load.
func (l *Loader) LoadAll(ctx context.Context, w *pages.Wiki, dir string) (*Report, error) {
	if w == nil {
		return nil, ErrNilWiki
	}
	dir = path.Clean(strings.TrimPrefix(dir, "/"))
	report := &Report{}

	if !isDir(l.fs, dir) {
		l.record(report, markup.Diagnostic{
			Kind:     markup.KindDirectoryMissing,
			Severity: markup.SeverityWarning,
			File:     dir,
			Message:  "wiki directory does not exist",
		})
		return report, fmt.Errorf("%w: %s", ErrDirectoryMissing, dir)
	}

	language, langDir, diags := selectLanguage(l.fs, dir, l.languages, w.Pack.DisplayName())
	for _, d := range diags {
		l.record(report, d)
	}
	report.Language, report.Dir = language, langDir
	if langDir == "" {
		return report, nil
	}
	logger := logging.WithLanguage(l.logger, language)

	files, err := discover(l.fs, langDir)
	if err != nil {
		return report, fmt.Errorf("loader discover %s: %w", langDir, err)
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		l.loadFile(w, report, file)
	}

	logger.Info("wiki.loader.loaded",
		"dir", langDir,
		"files", len(report.Files),
		"pages_added", report.PagesAdded,
		"overlays", report.OverlaysApplied,
	)
	return report, nil
}

func (l *Loader) record(report *Report, d markup.Diagnostic) {
	report.Diagnostics = append(report.Diagnostics, d)
	d.Log(l.logger)
}

func (l *Loader) loadFile(w *pages.Wiki, report *Report, file string) {
	class, err := Classify(file)
	if err != nil {
		l.record(report, markup.Diagnostic{
			Kind:     markup.KindPredicateInvalid,
			Severity: markup.SeverityError,
			File:     file,
			Message:  err.Error(),
		})
		return
	}

	data, err := fs.ReadFile(l.fs, file)
	if err != nil {
		l.record(report, markup.Diagnostic{
			Kind:     markup.KindReadFailure,
			Severity: markup.SeverityError,
			File:     file,
			Message:  err.Error(),
		})
		return
	}

	result := FileResult{Path: file, Kind: class.Kind, Checksum: Checksum(data)}
	src := markup.Source{
		Text:     string(data),
		FileName: file,
		Checksum: result.Checksum,
		Wiki:     w,
	}

	switch class.Kind {
	case FilePredicate:
		result.Pages = l.applyPredicate(w, report, class, src)
		report.OverlaysApplied += result.Pages
	case FileOverlay:
		existing := w.FindPageByEntityID(class.Target)
		if existing == nil {
			l.record(report, markup.Diagnostic{
				Kind:     markup.KindOverlayTargetMissing,
				Severity: markup.SeverityError,
				File:     file,
				Message:  fmt.Sprintf("failed to find generated page for %s%s", overlayPrefix, class.Target),
			})
			break
		}
		src.Existing = existing
		if l.parse(report, src) != nil {
			result.Pages = 1
			report.OverlaysApplied++
		}
	default:
		page := l.parse(report, src)
		if page == nil {
			l.record(report, markup.Diagnostic{
				Kind:     markup.KindParseFailure,
				Severity: markup.SeverityError,
				File:     file,
				Message:  "failed to load wiki page",
			})
			break
		}
		w.InsertPageFront(page)
		result.Pages = 1
		report.PagesAdded++
	}
	report.Files = append(report.Files, result)
}

func (l *Loader) parse(report *Report, src markup.Source) *pages.Page {
	res, err := l.parser.Parse(src)
	if res != nil {
		report.Diagnostics = append(report.Diagnostics, res.Diagnostics...)
	}
	if err != nil || res == nil {
		return nil
	}
	return res.Page
}

// applyPredicate overlays src onto every generated page whose definition
// satisfies the predicate named by the file.
func (l *Loader) applyPredicate(w *pages.Wiki, report *Report, class Classification, src markup.Source) int {
	fail := func(kind markup.Kind, msg string) {
		l.record(report, markup.Diagnostic{
			Kind:     kind,
			Severity: markup.SeverityError,
			File:     src.FileName,
			Message:  msg,
		})
	}

	predicate, err := l.predicates.Lookup(class.PredicateKey)
	if err != nil {
		fail(markup.KindPredicateInvalid, err.Error())
		return 0
	}
	if w.Pack == nil {
		fail(markup.KindPredicateInvalid, "wiki does not belong to any content pack, cannot scan definitions")
		return 0
	}

	applied := 0
	for _, def := range w.Pack.Definitions() {
		include, err := evaluate(predicate, def)
		if err != nil {
			fail(markup.KindPredicateFailed, fmt.Sprintf("%s on %s: %v", class.PredicateKey, def.Name, err))
			continue
		}
		if !include {
			continue
		}
		existing := w.FindPageByDef(def)
		if existing == nil {
			continue
		}
		overlay := src
		overlay.Existing = existing
		if l.parse(report, overlay) != nil {
			applied++
		}
	}
	return applied
}

func evaluate(predicate Predicate, def *catalog.Definition) (include bool, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			include = false
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()
	return predicate(def), nil
}
