package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/BirkeyCo/nixables/internal/ctxlog"
	"github.com/BirkeyCo/nixables/internal/fsutil"
	"github.com/BirkeyCo/nixables/internal/generate"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	generator *generate.Generator
}

// NewApp is the constructor for the main application. Logs and status lines
// both go to outW. All file access goes through fs.
func NewApp(outW io.Writer, cfg *Config, fs fsutil.FS) *App {
	logger := newLogger(cfg, outW)
	logger.Debug("Logger configured successfully.")

	status := generate.NewStatus(outW, cfg.Color)
	gen := generate.NewGenerator(fs, cfg.OutputDir, status)
	logger.Debug("Generator created.", "output_dir", cfg.OutputDir)

	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		generator: gen,
	}
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Context returns ctx carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
