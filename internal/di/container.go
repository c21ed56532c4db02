package di

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-wiki/internal/catalog"
	"github.com/goliatone/go-wiki/internal/custom"
	"github.com/goliatone/go-wiki/internal/generator"
	"github.com/goliatone/go-wiki/internal/loader"
	"github.com/goliatone/go-wiki/internal/logging"
	"github.com/goliatone/go-wiki/internal/logging/console"
	"github.com/goliatone/go-wiki/internal/logging/gologger"
	"github.com/goliatone/go-wiki/internal/markup"
	"github.com/goliatone/go-wiki/internal/pages"
	"github.com/goliatone/go-wiki/internal/runtimeconfig"
	"github.com/goliatone/go-wiki/internal/storage"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

// ErrStorageDisabled is returned by index operations when the storage
// feature is off.
var ErrStorageDisabled = errors.New("wiki: storage feature disabled")

// ErrPackNotFound is returned when a requested pack folder does not exist.
var ErrPackNotFound = errors.New("wiki: content pack not found")

// PackBuild is the outcome of building one content pack.
type PackBuild struct {
	Pack   *catalog.Pack
	Issues []catalog.Issue
	Wiki   *pages.Wiki
	Report *loader.BuildReport
}

// Container wires the engine: catalogs, parser, loader, registry and the
// optional page index.
type Container struct {
	Config runtimeconfig.Config

	fs             fs.FS
	loggerProvider interfaces.LoggerProvider
	handlers       *custom.Registry
	predicates     *loader.PredicateRegistry

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	pageRepo      storage.PageRepository
	migrateOnce   sync.Once
	migrateErr    error

	registry *pages.Registry
	research catalog.ResearchLookups
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithFS reads content packs from fsys instead of Config.ContentRoot.
func WithFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.fs = fsys
	}
}

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithHandlers replaces the custom element registry. Built-in handlers are
// added to it unless already registered.
func WithHandlers(registry *custom.Registry) Option {
	return func(c *Container) {
		c.handlers = registry
	}
}

// WithPredicates sets the registry consulted for All_ files.
func WithPredicates(registry *loader.PredicateRegistry) Option {
	return func(c *Container) {
		c.predicates = registry
	}
}

// WithBunDB supplies the page index database. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service of the page index.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithPageRepository overrides the page index repository.
func WithPageRepository(repo storage.PageRepository) Option {
	return func(c *Container) {
		c.pageRepo = repo
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		registry: pages.NewRegistry(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.fs == nil {
		c.fs = os.DirFS(cfg.ContentRoot)
	}
	if c.loggerProvider == nil && cfg.Features.Logger {
		provider, err := newLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}
	if c.handlers == nil {
		c.handlers = custom.NewRegistry()
	}
	if err := registerMissingBuiltins(c.handlers); err != nil {
		return nil, err
	}
	if c.predicates == nil {
		c.predicates = loader.NewPredicateRegistry()
	}

	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	return c, nil
}

func newLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		level, ok := console.ParseLevel(cfg.Level)
		if !ok {
			return console.NewProvider(console.Options{}), nil
		}
		return console.NewProvider(console.Options{MinLevel: &level}), nil
	}
}

func registerMissingBuiltins(registry *custom.Registry) error {
	existing := map[string]bool{}
	for _, path := range registry.TypePaths() {
		existing[path] = true
	}
	builtins := map[string]any{
		custom.PageIndexPath:  custom.MultiFunc(custom.PageIndex),
		custom.EntityListPath: custom.MultiFunc(custom.EntityList),
		custom.NotePath:       custom.SingleFunc(custom.Note),
	}
	var errs []error
	for _, path := range []string{custom.PageIndexPath, custom.EntityListPath, custom.NotePath} {
		if existing[path] {
			continue
		}
		errs = append(errs, registry.Register(path, builtins[path]))
	}
	return errors.Join(errs...)
}

func (c *Container) configureStorage() error {
	if !c.Config.Features.Storage || c.pageRepo != nil {
		return nil
	}
	if c.bunDB == nil {
		db, err := storage.Open(c.Config.Storage.Driver, c.Config.Storage.DSN)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.Config.Features.Cache && c.cacheService == nil {
		cacheCfg := repocache.DefaultConfig()
		cacheCfg.TTL = c.Config.Cache.TTL
		service, err := repocache.NewCacheService(cacheCfg)
		if err != nil {
			return fmt.Errorf("page cache: %w", err)
		}
		c.cacheService = service
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	if c.Config.Features.Cache {
		c.pageRepo = storage.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	} else {
		c.pageRepo = storage.NewBunPageRepository(c.bunDB)
	}
	return nil
}

// LoggerProvider returns the provider used for module loggers; nil when
// logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Handlers returns the custom element registry.
func (c *Container) Handlers() *custom.Registry { return c.handlers }

// Predicates returns the predicate registry.
func (c *Container) Predicates() *loader.PredicateRegistry { return c.predicates }

// Registry returns the wikis built by the last BuildAll.
func (c *Container) Registry() *pages.Registry { return c.registry }

// PageRepository returns the page index repository; nil when storage is off.
func (c *Container) PageRepository() storage.PageRepository { return c.pageRepo }

// Context returns the lookup and spoiler context over the current registry.
func (c *Container) Context() *pages.Context {
	ctx := pages.NewContext(c.registry, c.research, logging.RegistryLogger(c.loggerProvider))
	ctx.NoSpoilerMode = c.Config.Features.NoSpoilerMode
	return ctx
}

// Packs lists the content pack folders, sorted by name.
func (c *Container) Packs() ([]string, error) {
	entries, err := fs.ReadDir(c.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("list content packs: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// BuildAll loads the catalogs of the named packs (every pack when none is
// named) and builds one wiki per pack into a fresh registry. Catalogs are
// loaded before any wiki is built so entity references may cross packs.
func (c *Container) BuildAll(ctx context.Context, names ...string) ([]PackBuild, error) {
	if len(names) == 0 {
		all, err := c.Packs()
		if err != nil {
			return nil, err
		}
		names = all
	}

	builds := make([]PackBuild, 0, len(names))
	lookups := make(catalog.Lookups, 0, len(names))
	research := make(catalog.ResearchLookups, 0, len(names))
	for _, name := range names {
		build, err := c.loadPack(ctx, name)
		if err != nil {
			return nil, err
		}
		if cat, ok := build.Pack.Source.(*catalog.Catalog); ok {
			lookups = append(lookups, cat)
			research = append(research, cat)
		}
		builds = append(builds, build)
	}

	c.registry = pages.NewRegistry()
	c.research = research
	for i := range builds {
		sub, err := fs.Sub(c.fs, builds[i].Pack.RootDir)
		if err != nil {
			return nil, fmt.Errorf("pack %s: %w", builds[i].Pack.Name, err)
		}
		title := c.Config.Title
		if title == "" {
			title = builds[i].Pack.Name
		}
		w, report, err := c.builder(sub, lookups).Build(ctx, title, builds[i].Pack)
		if err != nil {
			return nil, fmt.Errorf("build pack %s: %w", builds[i].Pack.Name, err)
		}
		builds[i].Wiki, builds[i].Report = w, report
	}
	return builds, nil
}

func (c *Container) loadPack(ctx context.Context, name string) (PackBuild, error) {
	info, err := fs.Stat(c.fs, name)
	if err != nil || !info.IsDir() {
		return PackBuild{}, fmt.Errorf("%w: %s", ErrPackNotFound, name)
	}
	sub, err := fs.Sub(c.fs, name)
	if err != nil {
		return PackBuild{}, fmt.Errorf("pack %s: %w", name, err)
	}
	cat, issues, err := catalog.NewLoader(sub, c.Config.DefsDir,
		catalog.WithLogger(logging.CatalogLogger(c.loggerProvider)),
	).Load(ctx)
	if err != nil {
		return PackBuild{}, fmt.Errorf("load catalog of %s: %w", name, err)
	}
	return PackBuild{
		Pack:   &catalog.Pack{Name: name, RootDir: name, Source: cat},
		Issues: issues,
	}, nil
}

func (c *Container) builder(packFS fs.FS, definitions catalog.Lookup) *loader.Builder {
	cfg := c.Config
	parserOpts := []markup.Option{
		markup.WithDefinitions(definitions),
		markup.WithLogger(logging.MarkupLogger(c.loggerProvider)),
	}
	if cfg.Features.CustomElements {
		parserOpts = append(parserOpts, markup.WithDispatcher(custom.NewDispatcher(c.handlers,
			custom.WithLogger(logging.CustomLogger(c.loggerProvider)),
			custom.WithDefinitions(definitions),
		)))
	}

	gen := generator.New(
		generator.WithDebug(cfg.Features.DebugPages),
		generator.WithLabels(generator.Labels{
			Cost:      cfg.Generator.CostLabel,
			Creates:   cfg.Generator.CreatesLabel,
			CraftedAt: cfg.Generator.CraftedAtLabel,
			Research:  cfg.Generator.ResearchLabel,
		}),
		generator.WithLogger(logging.GeneratorLogger(c.loggerProvider)),
	)
	dirLoader := loader.New(packFS,
		loader.WithParser(markup.NewParser(parserOpts...)),
		loader.WithPredicates(c.predicates),
		loader.WithLanguages(interfaces.StaticLanguages{Active: cfg.Language, Default: cfg.DefaultLanguage}),
		loader.WithLogger(logging.LoaderLogger(c.loggerProvider)),
	)
	return loader.NewBuilder(packFS,
		loader.WithGenerator(gen),
		loader.WithLoader(dirLoader),
		loader.WithRegistry(c.registry),
		loader.WithWikiDir(cfg.WikiDir),
		loader.WithBuilderLogger(logging.RegistryLogger(c.loggerProvider)),
	)
}

// FindPage looks a page up by authored ID, then by entity name, across every
// built wiki.
func (c *Container) FindPage(key string) (*pages.Wiki, *pages.Page) {
	if w, page := c.registry.GlobalFindPageByID(key); page != nil {
		return w, page
	}
	return c.registry.GlobalFindPageByEntityID(key)
}

// Index mirrors the registry into the page index.
func (c *Container) Index(ctx context.Context) (*storage.SyncReport, error) {
	if c.pageRepo == nil {
		return nil, ErrStorageDisabled
	}
	if err := c.migrate(ctx); err != nil {
		return nil, err
	}
	indexer := storage.NewIndexer(c.pageRepo, storage.WithLogger(logging.StorageLogger(c.loggerProvider)))
	return indexer.Sync(ctx, c.registry)
}

func (c *Container) migrate(ctx context.Context) error {
	if c.bunDB == nil {
		return nil
	}
	c.migrateOnce.Do(func() {
		c.migrateErr = storage.Migrate(ctx, c.bunDB)
	})
	return c.migrateErr
}

// Close releases the page index database when the container opened it.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		return c.bunDB.Close()
	}
	return nil
}
