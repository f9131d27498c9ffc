package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/cmdbind/internal/ctxlog"
	"github.com/vk/cmdbind/internal/hcl"
	"github.com/vk/cmdbind/internal/kind"
	"github.com/vk/cmdbind/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	kinds    *kind.Registry
	config   *Config
}

// New is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, kind registry, and
// command registry. Registration happens before manifest loading so that
// custom kinds declared by command packages are resolvable in type
// expressions.
func New(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	kinds := kind.NewRegistry()
	registerCoreKinds(kinds)

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg, kinds)
	}
	logger.Debug("All command modules registered.", "count", len(modules))

	loader := hcl.NewLoader(kinds)
	model, err := loader.Load(ctx, cfg.ManifestPath)
	if err != nil {
		// A failure to load descriptors is a fatal startup error.
		panic(fmt.Errorf("failed to load command manifests: %w", err))
	}
	logger.Debug("Manifests loaded and translated into unified model.")

	reg.PopulateDescriptorsFromModel(model)
	logger.Debug("Registry descriptors populated from config model.")

	if err := reg.Validate(ctx); err != nil {
		// A manifest/code mismatch is a programmer error, so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		kinds:    kinds,
		config:   cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Kinds returns the application's kind registry. This is primarily for testing.
func (a *App) Kinds() *kind.Registry {
	return a.kinds
}
