package loader

import (
	"context"
	"errors"
	"io/fs"
	"path"

	"github.com/goliatone/go-wiki/internal/catalog"
	"github.com/goliatone/go-wiki/internal/generator"
	"github.com/goliatone/go-wiki/internal/logging"
	"github.com/goliatone/go-wiki/internal/pages"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

// DefaultWikiDir is the wiki folder inside a content pack.
const DefaultWikiDir = "Wiki"

// BuilderOption customises a Builder.
type BuilderOption func(*Builder)

// WithGenerator sets the page generator.
func WithGenerator(g *generator.Generator) BuilderOption {
	return func(b *Builder) {
		if g != nil {
			b.generator = g
		}
	}
}

// WithLoader sets the directory loader.
func WithLoader(l *Loader) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.loader = l
		}
	}
}

// WithFilter replaces the qualification predicate for generated pages.
func WithFilter(filter catalog.Filter) BuilderOption {
	return func(b *Builder) {
		if filter != nil {
			b.filter = filter
		}
	}
}

// WithRegistry registers every built wiki into registry.
func WithRegistry(registry *pages.Registry) BuilderOption {
	return func(b *Builder) {
		b.registry = registry
	}
}

// WithWikiDir overrides the wiki folder name.
func WithWikiDir(dir string) BuilderOption {
	return func(b *Builder) {
		if dir != "" {
			b.wikiDir = dir
		}
	}
}

// WithBuilderLogger sets the builder logger.
func WithBuilderLogger(logger interfaces.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder assembles the wiki of one content pack: generated pages, then the
// pack's markup files.
type Builder struct {
	fs        fs.FS
	generator *generator.Generator
	loader    *Loader
	filter    catalog.Filter
	registry  *pages.Registry
	wikiDir   string
	logger    interfaces.Logger
}

// NewBuilder returns a builder reading the pack content from fsys.
func NewBuilder(fsys fs.FS, opts ...BuilderOption) *Builder {
	b := &Builder{
		fs:      fsys,
		filter:  catalog.DefaultFilter,
		wikiDir: DefaultWikiDir,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.generator == nil {
		b.generator = generator.New(generator.WithLogger(b.logger))
	}
	if b.loader == nil {
		b.loader = New(fsys, WithLogger(b.logger))
	}
	return b
}

// Build creates the wiki for pack. Definitions listed in Exclude.txt are
// skipped; entries that match nothing are reported once, after generation.
// A pack without a wiki folder still yields its generated pages.
func (b *Builder) Build(ctx context.Context, title string, pack *catalog.Pack) (*pages.Wiki, *BuildReport, error) {
	if pack == nil {
		return nil, nil, ErrNilPack
	}
	logger := logging.WithFields(b.logger, map[string]any{"pack": pack.DisplayName()})

	w := pages.NewWiki(title, pack)
	report := &BuildReport{}

	excludes, err := ReadExcludeList(b.fs, path.Join(b.wikiDir, excludeFile))
	if err != nil {
		logger.Error("wiki.loader.exclude_unreadable", "error", err)
	}
	pending := make(map[string]bool, len(excludes))
	for _, name := range excludes {
		pending[name] = true
	}

	for _, def := range pack.Definitions() {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		if def == nil {
			continue
		}
		if pending[def.Name] {
			delete(pending, def.Name)
			report.Excluded++
			continue
		}
		if !b.filter(def) {
			continue
		}
		page, err := b.generator.FromDefinition(def)
		if err != nil {
			logging.WithEntity(logger, def.Name).Error("wiki.generator.page_failed",
				"label", def.LabelCap(),
				"error", err,
			)
			continue
		}
		w.AddPage(page)
		report.Generated++
	}

	load, err := b.loader.LoadAll(ctx, w, b.wikiDir)
	report.Load = load
	switch {
	case err == nil, errors.Is(err, ErrDirectoryMissing):
	default:
		return nil, report, err
	}

	for _, name := range excludes {
		if pending[name] {
			report.UnknownExcludes = append(report.UnknownExcludes, name)
			delete(pending, name)
		}
	}
	if len(report.UnknownExcludes) > 0 {
		logger.Error("wiki.loader.unknown_excludes",
			"file", path.Join(b.wikiDir, excludeFile),
			"entries", report.UnknownExcludes,
		)
	}

	if b.registry != nil {
		if err := b.registry.Add(w); err != nil {
			return nil, report, err
		}
	}
	logger.Info("wiki.registry.wiki_added",
		"title", w.Title,
		"pages", len(w.Pages),
		"generated", report.Generated,
	)
	return w, report, nil
}
