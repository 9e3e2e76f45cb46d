package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/elementmodel/internal/ctxlog"
	"github.com/specialistvlad/elementmodel/internal/metamodel"
	"github.com/specialistvlad/elementmodel/internal/metrics"
	"github.com/specialistvlad/elementmodel/internal/resolver"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx    context.Context
	outW   io.Writer
	logger *slog.Logger
	config *Config

	extensions []*metamodel.Extension
	resolver   *resolver.Resolver
	recorder   *metrics.Recorder
}

// NewApp is the constructor for the main application. Results are written to
// outW, logs to logW, each App getting its own isolated logger.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	return &App{
		ctx:      ctx,
		outW:     outW,
		logger:   logger,
		config:   cfg,
		recorder: metrics.NewRecorder(),
	}
}

// Extensions returns the loaded extensions. This is primarily for testing.
func (a *App) Extensions() []*metamodel.Extension {
	return a.extensions
}

// Recorder returns the application's metrics recorder.
func (a *App) Recorder() *metrics.Recorder {
	return a.recorder
}
