package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-wiki/pkg/interfaces"
)

const (
	rootModule      = "wiki"
	markupModule    = "wiki.markup"
	customModule    = "wiki.custom"
	generatorModule = "wiki.generator"
	loaderModule    = "wiki.loader"
	registryModule  = "wiki.registry"
	catalogModule   = "wiki.catalog"
	storageModule   = "wiki.storage"
)

const (
	fieldFile     = "file"
	fieldLine     = "line"
	fieldLanguage = "language"
	fieldEntity   = "entity"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// MarkupLogger returns the logger namespace reserved for the markup parser.
func MarkupLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markupModule)
}

// CustomLogger returns the logger namespace reserved for custom element handlers.
func CustomLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, customModule)
}

// GeneratorLogger returns the logger namespace reserved for page generation.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// LoaderLogger returns the logger namespace reserved for directory loading.
func LoaderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, loaderModule)
}

// RegistryLogger returns the logger namespace reserved for the wiki registry.
func RegistryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, registryModule)
}

// CatalogLogger returns the logger namespace reserved for entity catalogs.
func CatalogLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, catalogModule)
}

// StorageLogger returns the logger namespace reserved for the page index store.
func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// WithFileContext enriches the logger with the markup file and line being
// processed. Empty paths and non-positive lines are ignored.
func WithFileContext(logger interfaces.Logger, file string, line int) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(file); trimmed != "" {
		fields[fieldFile] = trimmed
	}
	if line > 0 {
		fields[fieldLine] = line
	}
	return WithFields(logger, fields)
}

// WithLanguage tags entries with the language folder in use.
func WithLanguage(logger interfaces.Logger, language string) interfaces.Logger {
	if strings.TrimSpace(language) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldLanguage: language})
}

// WithEntity tags entries with the entity definition being processed.
func WithEntity(logger interfaces.Logger, entity string) interfaces.Logger {
	if strings.TrimSpace(entity) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldEntity: entity})
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}

// WithFields attaches structured fields when the logger implements
// interfaces.FieldsLogger. nil loggers and empty maps are returned untouched.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}
	return logger
}
