package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-wiki/internal/runtimeconfig"
)

func TestConfigValidate_DefaultsAreValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "content root",
			mutate: func(cfg *runtimeconfig.Config) { cfg.ContentRoot = " " },
			want:   runtimeconfig.ErrContentRootRequired,
		},
		{
			name:   "default language",
			mutate: func(cfg *runtimeconfig.Config) { cfg.DefaultLanguage = "" },
			want:   runtimeconfig.ErrLanguageRequired,
		},
		{
			name:   "escaping wiki dir",
			mutate: func(cfg *runtimeconfig.Config) { cfg.WikiDir = "../Wiki" },
			want:   runtimeconfig.ErrPackFolderInvalid,
		},
		{
			name: "unknown driver",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Storage = true
				cfg.Storage.Driver = "mysql"
			},
			want: runtimeconfig.ErrStorageDriverUnknown,
		},
		{
			name: "missing dsn",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Storage = true
				cfg.Storage.DSN = ""
			},
			want: runtimeconfig.ErrStorageDSNRequired,
		},
		{
			name:   "cache without storage",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Features.Cache = true },
			want:   runtimeconfig.ErrCacheRequiresStorage,
		},
		{
			name: "cache ttl",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Storage = true
				cfg.Features.Cache = true
				cfg.Cache.TTL = 0
			},
			want: runtimeconfig.ErrCacheTTLInvalid,
		},
		{
			name: "logging provider required",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = ""
			},
			want: runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name: "logging provider unknown",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = "syslog"
			},
			want: runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name: "logging level",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Level = "loud"
			},
			want: runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "logging format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = "gologger"
				cfg.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_AllowsPostgresIndex(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Storage = true
	cfg.Features.Cache = true
	cfg.Storage.Driver = "postgres"
	cfg.Storage.DSN = "postgres://wiki@localhost/wiki?sslmode=disable"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}
