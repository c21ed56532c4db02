package wikicmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-wiki/internal/commands"
	"github.com/goliatone/go-wiki/internal/di"
	"github.com/goliatone/go-wiki/internal/render"
	"github.com/goliatone/go-wiki/internal/site"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

// ErrPageNotFound is returned when no built page matches a render key.
var ErrPageNotFound = errors.New("wiki: page not found")

// BuildWikiHandler builds wikis through the shared command handler foundation.
type BuildWikiHandler struct {
	inner *commands.Handler[BuildWikiCommand]
}

// NewBuildWikiHandler constructs a handler wired to service.
func NewBuildWikiHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[BuildWikiCommand]) *BuildWikiHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg BuildWikiCommand) error {
		builds, err := service.BuildAll(ctx, trimAll(msg.Packs)...)
		if err != nil {
			return err
		}
		for _, build := range builds {
			baseLogger.WithContext(ctx).Info("wiki.registry.pack_built",
				"pack", build.Pack.Name,
				"pages", len(build.Wiki.Pages),
				"catalog_issues", len(build.Issues),
				"diagnostics", diagnosticsCount(build),
			)
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(builds)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildWikiCommand]{
		commands.WithLogger[BuildWikiCommand](baseLogger),
		commands.WithOperation[BuildWikiCommand]("wiki.build"),
		commands.WithMessageFields(func(msg BuildWikiCommand) map[string]any {
			if len(msg.Packs) == 0 {
				return map[string]any{"packs": "all"}
			}
			return map[string]any{"packs": strings.Join(msg.Packs, ",")}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildWikiCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildWikiHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[BuildWikiCommand].
func (h *BuildWikiHandler) Execute(ctx context.Context, msg BuildWikiCommand) error {
	return h.inner.Execute(ctx, msg)
}

// IndexPagesHandler syncs the page index.
type IndexPagesHandler struct {
	inner *commands.Handler[IndexPagesCommand]
}

// NewIndexPagesHandler constructs a handler that mirrors the registry into storage.
func NewIndexPagesHandler(service Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[IndexPagesCommand]) *IndexPagesHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg IndexPagesCommand) error {
		if !gates.storageEnabled() {
			return di.ErrStorageDisabled
		}
		if msg.Build {
			if _, err := service.BuildAll(ctx, trimAll(msg.Packs)...); err != nil {
				return err
			}
		}
		report, err := service.Index(ctx)
		if err != nil {
			return err
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(report)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[IndexPagesCommand]{
		commands.WithLogger[IndexPagesCommand](baseLogger),
		commands.WithOperation[IndexPagesCommand]("wiki.index"),
		commands.WithMessageFields(func(msg IndexPagesCommand) map[string]any {
			fields := map[string]any{}
			if msg.Build {
				fields["build"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[IndexPagesCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &IndexPagesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[IndexPagesCommand].
func (h *IndexPagesHandler) Execute(ctx context.Context, msg IndexPagesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RenderPageHandler renders a built page.
type RenderPageHandler struct {
	inner *commands.Handler[RenderPageCommand]
}

// NewRenderPageHandler constructs a handler rendering pages held by service.
func NewRenderPageHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[RenderPageCommand]) *RenderPageHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg RenderPageCommand) error {
		key := strings.TrimSpace(msg.Key)
		_, page := service.FindPage(key)
		if page == nil {
			return fmt.Errorf("%w: %s", ErrPageNotFound, key)
		}

		rctx := service.Context()
		var output string
		switch msg.Format {
		case FormatHTML:
			html, err := render.NewHTML(rctx).Page(page)
			if err != nil {
				return err
			}
			output = string(html)
		case FormatTerminal:
			term, err := render.NewTerminal(rctx, "", msg.Width)
			if err != nil {
				return err
			}
			if output, err = term.Page(page); err != nil {
				return err
			}
		default:
			output = render.NewMarkdown(rctx).Page(page)
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(output)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderPageCommand]{
		commands.WithLogger[RenderPageCommand](baseLogger),
		commands.WithOperation[RenderPageCommand]("wiki.render"),
		commands.WithMessageFields(func(msg RenderPageCommand) map[string]any {
			return map[string]any{"key": msg.Key, "format": msg.Format}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderPageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderPageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[RenderPageCommand].
func (h *RenderPageHandler) Execute(ctx context.Context, msg RenderPageCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ExportSiteHandler exports built wikis as a static site.
type ExportSiteHandler struct {
	inner *commands.Handler[ExportSiteCommand]
}

// NewExportSiteHandler constructs a handler writing the registry held by service.
func NewExportSiteHandler(service Service, logger interfaces.Logger, opts ...commands.HandlerOption[ExportSiteCommand]) *ExportSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ExportSiteCommand) error {
		if msg.Build {
			if _, err := service.BuildAll(ctx, trimAll(msg.Packs)...); err != nil {
				return err
			}
		}
		exporter := site.New(service.Context(), site.Options{
			OutputDir: strings.TrimSpace(msg.OutputDir),
			BaseURL:   msg.BaseURL,
			Title:     msg.Title,
			Robots:    msg.Robots,
			Force:     msg.Force,
		}, site.WithLogger(baseLogger))
		result, err := exporter.Export(ctx, service.Registry())
		if err != nil {
			return err
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportSiteCommand]{
		commands.WithLogger[ExportSiteCommand](baseLogger),
		commands.WithOperation[ExportSiteCommand]("wiki.site"),
		commands.WithMessageFields(func(msg ExportSiteCommand) map[string]any {
			return map[string]any{"output": msg.OutputDir, "force": msg.Force}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ExportSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ExportSiteCommand].
func (h *ExportSiteHandler) Execute(ctx context.Context, msg ExportSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}

func diagnosticsCount(build di.PackBuild) int {
	if build.Report == nil || build.Report.Load == nil {
		return 0
	}
	return len(build.Report.Load.Diagnostics)
}
