package bootstrap

import (
	"fmt"

	"github.com/goliatone/go-wiki"
	"github.com/goliatone/go-wiki/internal/commands"
	"github.com/goliatone/go-wiki/internal/di"
	"github.com/goliatone/go-wiki/pkg/interfaces"
)

// Module wraps the wiki module and the CLI logger.
type Module struct {
	Module *wiki.Module
	Logger interfaces.Logger
}

// BuildModule constructs a wiki module for CLI commands.
func BuildModule(cfg wiki.Config, opts ...di.Option) (*Module, error) {
	module, err := wiki.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialise wiki module: %w", err)
	}
	return &Module{
		Module: module,
		Logger: commands.CommandLogger(module.Container().LoggerProvider(), "cli"),
	}, nil
}

// Close releases resources held by the module.
func (m *Module) Close() error {
	if m == nil || m.Module == nil {
		return nil
	}
	return m.Module.Close()
}
