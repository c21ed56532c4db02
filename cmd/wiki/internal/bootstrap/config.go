package bootstrap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-wiki"
)

// EnvPrefix namespaces environment overrides, e.g. GOWIKI_CONTENT_ROOT.
const EnvPrefix = "gowiki"

// ConfigOption documents one configuration key and its default.
type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the configuration keys understood by the CLI.
func GetConfigOptions() []ConfigOption {
	defaults := wiki.DefaultConfig()
	return []ConfigOption{
		{Key: "content_root", Default: defaults.ContentRoot, Comment: "Folder holding one directory per content pack"},
		{Key: "defs_dir", Default: defaults.DefsDir, Comment: "Definition folder inside each pack"},
		{Key: "wiki_dir", Default: defaults.WikiDir, Comment: "Wiki markup folder inside each pack"},
		{Key: "language", Default: defaults.Language, Comment: "Active language folder"},
		{Key: "default_language", Default: defaults.DefaultLanguage, Comment: "Fallback language folder"},
		{Key: "title", Default: defaults.Title, Comment: "Wiki title; the pack name is used when empty"},

		{Key: "features.custom_elements", Default: defaults.Features.CustomElements, Comment: "Enable |Type:arg| custom elements"},
		{Key: "features.no_spoiler_mode", Default: defaults.Features.NoSpoilerMode, Comment: "Reveal every page regardless of research"},
		{Key: "features.debug_pages", Default: defaults.Features.DebugPages, Comment: "Add debug sections to generated pages"},
		{Key: "features.storage", Default: defaults.Features.Storage, Comment: "Mirror built pages into the page index"},
		{Key: "features.cache", Default: defaults.Features.Cache, Comment: "Cache page index reads"},
		{Key: "features.logger", Default: defaults.Features.Logger, Comment: "Emit structured engine logs"},

		{Key: "storage.driver", Default: defaults.Storage.Driver, Comment: "Page index driver: sqlite3 or postgres"},
		{Key: "storage.dsn", Default: defaults.Storage.DSN, Comment: "Page index connection string"},
		{Key: "cache.ttl", Default: defaults.Cache.TTL.String(), Comment: "Page index cache lifetime"},

		{Key: "generator.cost_label", Default: defaults.Generator.CostLabel, Comment: "Heading of the cost section on generated pages"},
		{Key: "generator.creates_label", Default: defaults.Generator.CreatesLabel, Comment: "Heading of the products section on generated pages"},
		{Key: "generator.crafted_at_label", Default: defaults.Generator.CraftedAtLabel, Comment: "Heading of the workbench section on generated pages"},
		{Key: "generator.research_label", Default: defaults.Generator.ResearchLabel, Comment: "Heading of the research section on generated pages"},

		{Key: "logging.provider", Default: defaults.Logging.Provider, Comment: "Logger backend: console or gologger"},
		{Key: "logging.level", Default: defaults.Logging.Level, Comment: "Minimum log level"},
		{Key: "logging.format", Default: defaults.Logging.Format, Comment: "gologger output format: json, console or pretty"},
		{Key: "logging.add_source", Default: defaults.Logging.AddSource, Comment: "Include caller information in log lines"},
		{Key: "logging.focus", Default: []string{}, Comment: "Only log these modules"},
	}
}

func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
func Load(v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("wiki")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "go-wiki"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "go-wiki"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return nil
}

// ConfigFromViper maps resolved settings onto the engine configuration and
// validates the result.
func ConfigFromViper(v *viper.Viper) (wiki.Config, error) {
	cfg := wiki.DefaultConfig()
	cfg.ContentRoot = v.GetString("content_root")
	cfg.DefsDir = v.GetString("defs_dir")
	cfg.WikiDir = v.GetString("wiki_dir")
	cfg.Language = v.GetString("language")
	cfg.DefaultLanguage = v.GetString("default_language")
	cfg.Title = v.GetString("title")

	cfg.Features = wiki.Features{
		CustomElements: v.GetBool("features.custom_elements"),
		NoSpoilerMode:  v.GetBool("features.no_spoiler_mode"),
		DebugPages:     v.GetBool("features.debug_pages"),
		Storage:        v.GetBool("features.storage"),
		Cache:          v.GetBool("features.cache"),
		Logger:         v.GetBool("features.logger"),
	}
	cfg.Storage = wiki.StorageConfig{
		Driver: v.GetString("storage.driver"),
		DSN:    v.GetString("storage.dsn"),
	}
	cfg.Cache.TTL = v.GetDuration("cache.ttl")
	cfg.Generator = wiki.GeneratorConfig{
		CostLabel:      v.GetString("generator.cost_label"),
		CreatesLabel:   v.GetString("generator.creates_label"),
		CraftedAtLabel: v.GetString("generator.crafted_at_label"),
		ResearchLabel:  v.GetString("generator.research_label"),
	}
	cfg.Logging = wiki.LoggingConfig{
		Provider:  v.GetString("logging.provider"),
		Level:     v.GetString("logging.level"),
		Format:    v.GetString("logging.format"),
		AddSource: v.GetBool("logging.add_source"),
		Focus:     splitList(v.GetStringSlice("logging.focus")),
	}

	if err := cfg.Validate(); err != nil {
		return wiki.Config{}, err
	}
	return cfg, nil
}

// splitList accepts both list values and comma separated env strings.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
