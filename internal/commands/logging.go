package commands

import (
	"strings"

	"github.com/goliatone/go-wiki/internal/logging"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

const commandModuleRoot = "wiki.commands"

// CommandLogger returns the logger for a command front end such as the CLI.
// Entries carry module wiki.commands.<frontend>.
func CommandLogger(provider interfaces.LoggerProvider, frontend string) interfaces.Logger {
	name := strings.ToLower(strings.TrimSpace(frontend))
	if name == "" {
		return logging.ModuleLogger(provider, commandModuleRoot)
	}
	return logging.WithFields(logging.ModuleLogger(provider, commandModuleRoot+"."+name), map[string]any{
		"frontend": name,
	})
}

// EnsureLogger returns logger, or a no-op logger when nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
