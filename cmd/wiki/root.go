package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-wiki/cmd/wiki/internal/bootstrap"
)

type ctxKey string

const moduleKey ctxKey = "module"

var moduleBuilder = bootstrap.BuildModule

// flagKeys maps persistent flags onto configuration keys.
var flagKeys = map[string]string{
	"content-root":     "content_root",
	"language":         "language",
	"default-language": "default_language",
	"title":            "title",
	"no-spoilers":      "features.no_spoiler_mode",
	"debug-pages":      "features.debug_pages",
	"storage":          "features.storage",
	"driver":           "storage.driver",
	"dsn":              "storage.dsn",
	"verbose":          "features.logger",
	"log-level":        "logging.level",
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "wiki",
		Short:         "Build, render and index in-game wikis from content packs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := bootstrap.Load(v); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, flagKeys)

			cfg, err := bootstrap.ConfigFromViper(v)
			if err != nil {
				return err
			}
			module, err := moduleBuilder(cfg)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), moduleKey, module))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			module, err := getModule(cmd)
			if err != nil {
				return nil
			}
			return module.Close()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgPath, "config", "", "path to config file (yaml|toml|json)")
	flags.String("content-root", "", "folder holding one directory per content pack")
	flags.String("language", "", "active language folder")
	flags.String("default-language", "", "fallback language folder")
	flags.String("title", "", "wiki title")
	flags.Bool("no-spoilers", true, "reveal pages gated by unfinished research")
	flags.Bool("debug-pages", false, "add debug sections to generated pages")
	flags.Bool("storage", false, "enable the page index")
	flags.String("driver", "", "page index driver (sqlite3|postgres)")
	flags.String("dsn", "", "page index connection string")
	flags.BoolP("verbose", "v", false, "emit engine logs")
	flags.String("log-level", "", "minimum log level")

	cmd.AddCommand(newPacksCmd())
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newSiteCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newConfigCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

var errModuleMissing = errors.New("internal error: wiki module not initialised")

func getModule(cmd *cobra.Command) (*bootstrap.Module, error) {
	if cmd.Context() == nil {
		return nil, errModuleMissing
	}
	module, ok := cmd.Context().Value(moduleKey).(*bootstrap.Module)
	if !ok || module == nil {
		return nil, errModuleMissing
	}
	return module, nil
}
