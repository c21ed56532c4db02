package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrContentRootRequired = errors.New("wiki config: content root is required")
var ErrLanguageRequired = errors.New("wiki config: default language is required")
var ErrPackFolderInvalid = errors.New("wiki config: pack folders must be relative names")

// ErrStorageDriverUnknown is returned for drivers other than sqlite and postgres.
var ErrStorageDriverUnknown = errors.New("wiki config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("wiki config: storage dsn is required when storage is enabled")

// ErrCacheRequiresStorage ensures the page cache only wraps an enabled index.
var ErrCacheRequiresStorage = errors.New("wiki config: cache feature requires storage to be enabled")
var ErrCacheTTLInvalid = errors.New("wiki config: cache ttl must be positive")
var ErrLoggingProviderRequired = errors.New("wiki config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("wiki config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("wiki config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("wiki config: logging format is invalid")

// Config aggregates feature flags and paths for the wiki engine.
type Config struct {
	// ContentRoot holds one folder per content pack.
	ContentRoot string
	// DefsDir and WikiDir are folder names inside each pack.
	DefsDir         string
	WikiDir         string
	Language        string
	DefaultLanguage string
	Title           string
	Features        Features
	Storage         StorageConfig
	Cache           CacheConfig
	Generator       GeneratorConfig
	Logging         LoggingConfig
}

// Features toggles engine functionality.
type Features struct {
	CustomElements bool
	NoSpoilerMode  bool
	DebugPages     bool
	Storage        bool
	Cache          bool
	Logger         bool
}

// StorageConfig selects the page index database.
type StorageConfig struct {
	Driver string
	DSN    string
}

// CacheConfig captures page index cache behaviour.
type CacheConfig struct {
	TTL time.Duration
}

// GeneratorConfig overrides the section labels of generated pages. Blank
// values keep the built-in labels.
type GeneratorConfig struct {
	CostLabel      string
	CreatesLabel   string
	CraftedAtLabel string
	ResearchLabel  string
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		ContentRoot:     "content",
		DefsDir:         "Defs",
		WikiDir:         "Wiki",
		Language:        "English",
		DefaultLanguage: "English",
		Features: Features{
			CustomElements: true,
			NoSpoilerMode:  true,
		},
		Storage: StorageConfig{
			Driver: "sqlite3",
			DSN:    "file:wiki.db?cache=shared",
		},
		Cache: CacheConfig{
			TTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.ContentRoot) == "" {
		return ErrContentRootRequired
	}
	if strings.TrimSpace(cfg.DefaultLanguage) == "" {
		return ErrLanguageRequired
	}
	for _, dir := range []string{cfg.DefsDir, cfg.WikiDir} {
		if strings.HasPrefix(dir, "/") || strings.Contains(dir, "..") {
			return fmt.Errorf("%w: %s", ErrPackFolderInvalid, dir)
		}
	}
	if cfg.Features.Storage {
		if !isSupportedDriver(cfg.Storage.Driver) {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	}
	if cfg.Features.Cache {
		if !cfg.Features.Storage {
			return ErrCacheRequiresStorage
		}
		if cfg.Cache.TTL <= 0 {
			return ErrCacheTTLInvalid
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func isSupportedDriver(driver string) bool {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3", "postgres", "postgresql", "pg":
		return true
	default:
		return false
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
