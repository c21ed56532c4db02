package wikicmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-wiki/internal/di"
	"github.com/goliatone/go-wiki/internal/pages"
	"github.com/goliatone/go-wiki/internal/site"
	"github.com/goliatone/go-wiki/internal/storage"
)

const (
	buildWikiMessageType  = "wiki.build"
	indexPagesMessageType = "wiki.index"
	renderPageMessageType = "wiki.render"
	exportSiteMessageType = "wiki.site"
)

// Render formats accepted by RenderPageCommand.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatTerminal = "terminal"
)

// Service is the engine surface the handlers drive.
type Service interface {
	BuildAll(ctx context.Context, names ...string) ([]di.PackBuild, error)
	Index(ctx context.Context) (*storage.SyncReport, error)
	FindPage(key string) (*pages.Wiki, *pages.Page)
	Registry() *pages.Registry
	Context() *pages.Context
}

// BuildWikiCommand builds the wikis of the named packs, or of every pack.
type BuildWikiCommand struct {
	Packs          []string                    `json:"packs,omitempty"`
	ResultCallback func(builds []di.PackBuild) `json:"-"`
}

// Type implements command.Message.
func (BuildWikiCommand) Type() string { return buildWikiMessageType }

// Validate ensures pack names are plain folder names.
func (m BuildWikiCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Packs, validation.Each(validation.By(packName))),
	)
}

// IndexPagesCommand mirrors built pages into the page index. With Build set
// the wikis are rebuilt first.
type IndexPagesCommand struct {
	Build          bool                      `json:"build,omitempty"`
	Packs          []string                  `json:"packs,omitempty"`
	ResultCallback func(*storage.SyncReport) `json:"-"`
}

// Type implements command.Message.
func (IndexPagesCommand) Type() string { return indexPagesMessageType }

// Validate rejects pack filters without a rebuild.
func (m IndexPagesCommand) Validate() error {
	errs := validation.Errors{}
	if len(m.Packs) > 0 && !m.Build {
		errs["packs"] = validation.NewError("wiki.index.packs_without_build", "packs can only be selected together with build")
	}
	if err := validation.Validate(m.Packs, validation.Each(validation.By(packName))); err != nil {
		errs["packs"] = err
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RenderPageCommand renders one built page found by ID or entity name.
type RenderPageCommand struct {
	Key            string              `json:"key"`
	Format         string              `json:"format,omitempty"`
	Width          int                 `json:"width,omitempty"`
	ResultCallback func(output string) `json:"-"`
}

// Type implements command.Message.
func (RenderPageCommand) Type() string { return renderPageMessageType }

// Validate checks the page key and format.
func (m RenderPageCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Key, validation.Required),
		validation.Field(&m.Format, validation.In(FormatMarkdown, FormatHTML, FormatTerminal)),
		validation.Field(&m.Width, validation.Min(0)),
	)
}

// ExportSiteCommand writes the built wikis as a static HTML site. With Build
// set the wikis are rebuilt first.
type ExportSiteCommand struct {
	Build          bool               `json:"build,omitempty"`
	Packs          []string           `json:"packs,omitempty"`
	OutputDir      string             `json:"output_dir"`
	BaseURL        string             `json:"base_url,omitempty"`
	Title          string             `json:"title,omitempty"`
	Robots         bool               `json:"robots,omitempty"`
	Force          bool               `json:"force,omitempty"`
	ResultCallback func(*site.Result) `json:"-"`
}

// Type implements command.Message.
func (ExportSiteCommand) Type() string { return exportSiteMessageType }

// Validate checks the output directory, base URL and pack filters.
func (m ExportSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.OutputDir, validation.Required),
		validation.Field(&m.BaseURL, is.URL),
		validation.Field(&m.Packs, validation.Each(validation.By(packName))),
	)
}

// FeatureGates exposes runtime switches used to guard handler execution.
type FeatureGates struct {
	StorageEnabled func() bool
}

func (g FeatureGates) storageEnabled() bool {
	if g.StorageEnabled == nil {
		return false
	}
	return g.StorageEnabled()
}

func packName(value any) error {
	name, _ := value.(string)
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return validation.NewError("wiki.pack.empty", "pack names must not be empty")
	case strings.ContainsAny(trimmed, `/\`) || trimmed == "." || trimmed == "..":
		return validation.NewError("wiki.pack.invalid", "pack names must be folder names")
	}
	return nil
}
