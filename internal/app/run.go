package app

import (
	"context"

	"github.com/BirkeyCo/nixables/internal/generate"
)

// Run generates the flake of every recipe named by the configuration.
func (a *App) Run(ctx context.Context) ([]*generate.Result, error) {
	ctx = a.Context(ctx)
	a.logger.Debug("App.Run method started.", "recipe_path", a.config.RecipePath)

	results, err := a.generator.GenerateAll(ctx, a.config.RecipePath)
	if err != nil {
		a.logger.Debug("Generation failed.", "error", err, "completed", len(results))
		return results, err
	}

	a.logger.Debug("App.Run method finished.", "flakes", len(results))
	return results, nil
}
