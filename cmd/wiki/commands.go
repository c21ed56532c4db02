package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-wiki/cmd/wiki/internal/bootstrap"
	wikicmd "github.com/goliatone/go-wiki/internal/commands/wiki"
	"github.com/goliatone/go-wiki/internal/di"
	"github.com/goliatone/go-wiki/internal/render"
	"github.com/goliatone/go-wiki/internal/site"
	"github.com/goliatone/go-wiki/internal/storage"
)

func newPacksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "packs",
		Short: "List content packs under the content root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := getModule(cmd)
			if err != nil {
				return err
			}
			packs, err := module.Module.Packs()
			if err != nil {
				return err
			}
			for _, name := range packs {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newBuildCmd() *cobra.Command {
	var showDiagnostics bool
	cmd := &cobra.Command{
		Use:   "build [pack...]",
		Short: "Build wikis and report what was assembled",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := getModule(cmd)
			if err != nil {
				return err
			}
			builds, err := buildPacks(cmd, module, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, build := range builds {
				printBuild(cmd, build)
				if !showDiagnostics {
					continue
				}
				for _, issue := range build.Issues {
					fmt.Fprintf(out, "  catalog: %s\n", issue.Error())
				}
				if build.Report != nil && build.Report.Load != nil {
					for _, diag := range build.Report.Load.Diagnostics {
						fmt.Fprintf(out, "  %s: %s\n", diag.Severity, diag.Error())
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showDiagnostics, "diagnostics", "d", false, "print catalog issues and markup diagnostics")
	return cmd
}

func newShowCmd() *cobra.Command {
	var format string
	var width int
	cmd := &cobra.Command{
		Use:   "show <page>",
		Short: "Render one page, found by page ID or entity name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := getModule(cmd)
			if err != nil {
				return err
			}
			if _, err := buildPacks(cmd, module, nil); err != nil {
				return err
			}
			handler := wikicmd.NewRenderPageHandler(module.Module.Container(), module.Logger)
			return handler.Execute(cmd.Context(), wikicmd.RenderPageCommand{
				Key:    args[0],
				Format: format,
				Width:  width,
				ResultCallback: func(output string) {
					fmt.Fprint(cmd.OutOrStdout(), output)
				},
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", wikicmd.FormatTerminal, "output format (markdown|html|terminal)")
	cmd.Flags().IntVarP(&width, "width", "w", render.DefaultWidth, "word wrap width for terminal output")
	return cmd
}

func newExportCmd() *cobra.Command {
	var format string
	var outDir string
	cmd := &cobra.Command{
		Use:   "export [pack...]",
		Short: "Write each wiki as a single Markdown or HTML document",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := getModule(cmd)
			if err != nil {
				return err
			}
			builds, err := buildPacks(cmd, module, args)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			ctx := module.Module.Container().Context()
			for _, build := range builds {
				var data []byte
				ext := ".md"
				switch format {
				case wikicmd.FormatHTML:
					ext = ".html"
					if data, err = render.NewHTML(ctx).Wiki(build.Wiki); err != nil {
						return err
					}
				case wikicmd.FormatMarkdown:
					data = []byte(render.NewMarkdown(ctx).Wiki(build.Wiki))
				default:
					return fmt.Errorf("unsupported export format %q", format)
				}
				path := filepath.Join(outDir, exportName(build.Pack.Name)+ext)
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", build.Pack.Name, path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", wikicmd.FormatMarkdown, "output format (markdown|html)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "wiki-export", "output directory")
	return cmd
}

func newSiteCmd() *cobra.Command {
	var msg wikicmd.ExportSiteCommand
	cmd := &cobra.Command{
		Use:   "site [pack...]",
		Short: "Export the wikis as a static HTML site with a sitemap",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := getModule(cmd)
			if err != nil {
				return err
			}
			msg.Build = true
			msg.Packs = args
			msg.ResultCallback = func(result *site.Result) {
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d wikis to %s: %d written, %d unchanged, %d removed\n",
					result.Wikis, msg.OutputDir, result.Written, result.Skipped, result.Removed)
			}
			handler := wikicmd.NewExportSiteHandler(module.Module.Container(), module.Logger)
			return handler.Execute(cmd.Context(), msg)
		},
	}
	cmd.Flags().StringVarP(&msg.OutputDir, "out", "o", "site", "output directory")
	cmd.Flags().StringVar(&msg.BaseURL, "base-url", "", "absolute URL the site is served from")
	cmd.Flags().StringVar(&msg.Title, "site-title", "", "title of the site index")
	cmd.Flags().BoolVar(&msg.Robots, "robots", false, "write robots.txt")
	cmd.Flags().BoolVar(&msg.Force, "force", false, "rewrite documents even when unchanged")
	return cmd
}

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index [pack...]",
		Short: "Build wikis and mirror their pages into the page index",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := getModule(cmd)
			if err != nil {
				return err
			}
			container := module.Module.Container()
			handler := wikicmd.NewIndexPagesHandler(container, module.Logger, wikicmd.FeatureGates{
				StorageEnabled: func() bool { return container.PageRepository() != nil },
			})
			return handler.Execute(cmd.Context(), wikicmd.IndexPagesCommand{
				Build: true,
				Packs: args,
				ResultCallback: func(report *storage.SyncReport) {
					fmt.Fprintf(cmd.OutOrStdout(),
						"indexed %d wikis: %d created, %d updated, %d unchanged, %d removed, %d duplicates\n",
						report.Wikis, report.Created, report.Updated, report.Unchanged, report.Removed, len(report.Duplicates))
				},
			})
		},
	}
}

func newSearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search the page index by title, entity or page ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := getModule(cmd)
			if err != nil {
				return err
			}
			repo := module.Module.Container().PageRepository()
			if repo == nil {
				return di.ErrStorageDisabled
			}
			records, err := repo.Search(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "no pages found")
				return nil
			}
			for _, rec := range records {
				key := rec.PageID
				if key == "" {
					key = rec.EntityName
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", rec.Pack, key, rec.Title)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "maximum number of results")
	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "List configuration keys, defaults and environment names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, opt := range bootstrap.GetConfigOptions() {
				env := strings.ToUpper(bootstrap.EnvPrefix + "_" + strings.ReplaceAll(opt.Key, ".", "_"))
				fmt.Fprintf(out, "%s = %v\n  %s (%s)\n", opt.Key, opt.Default, opt.Comment, env)
			}
			return nil
		},
	}
}

func buildPacks(cmd *cobra.Command, module *bootstrap.Module, packs []string) ([]di.PackBuild, error) {
	var builds []di.PackBuild
	handler := wikicmd.NewBuildWikiHandler(module.Module.Container(), module.Logger)
	err := handler.Execute(cmd.Context(), wikicmd.BuildWikiCommand{
		Packs:          packs,
		ResultCallback: func(result []di.PackBuild) { builds = result },
	})
	return builds, err
}

func printBuild(cmd *cobra.Command, build di.PackBuild) {
	generated, excluded, diagnostics := 0, 0, 0
	if build.Report != nil {
		generated, excluded = build.Report.Generated, build.Report.Excluded
		if build.Report.Load != nil {
			diagnostics = len(build.Report.Load.Diagnostics)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pages (%d generated, %d excluded), %d catalog issues, %d diagnostics\n",
		build.Pack.Name, len(build.Wiki.Pages), generated, excluded, len(build.Issues), diagnostics)
}

func exportName(pack string) string {
	if name, err := slug.Normalize(pack); err == nil && name != "" {
		return name
	}
	return "wiki"
}
