package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/cookcli/internal/aisle"
	"github.com/vk/cookcli/internal/config"
	"github.com/vk/cookcli/internal/cooklang"
	"github.com/vk/cookcli/internal/ctxlog"
	"github.com/vk/cookcli/internal/evaluator"
	"github.com/vk/cookcli/internal/index"
	"github.com/vk/cookcli/internal/quantity"
	"github.com/vk/cookcli/internal/resolve"
)

// App encapsulates the application's dependencies and configuration.
type App struct {
	config    *config.Config
	logger    *slog.Logger
	units     *quantity.Table
	aisles    *aisle.Config
	index     *index.Index
	resolver  *resolve.Resolver
	evaluator *evaluator.Evaluator
}

// New builds every component from cfg. Logs go to logW. The recipe tree
// is not read until the first query.
func New(logW io.Writer, cfg *config.Config) (*App, error) {
	logger := newLogger(cfg.Log.Level, cfg.Log.Format, logW)
	logger.Debug("Logger configured successfully.", "config_file", cfg.File)

	units := quantity.DefaultTable()
	if len(cfg.Units) > 0 {
		extended, err := units.Extend(cfg.Units)
		if err != nil {
			return nil, fmt.Errorf("failed to extend unit table: %w", err)
		}
		units = extended
		logger.Debug("Unit table extended.", "dimensions", len(cfg.Units))
	}

	aisles := aisle.Empty()
	if path := cfg.AislePath(); path != "" {
		loaded, err := aisle.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load aisle configuration: %w", err)
		}
		aisles = loaded
		logger.Debug("Aisle configuration loaded.", "path", path, "categories", len(aisles.Categories()))
	}

	idx := index.New(cfg.Recipes.Root,
		index.WithExtension(cfg.Recipes.Extension),
		index.WithConcurrency(cfg.Report.Concurrency),
	)
	res := resolve.New(idx, cooklang.New(cooklang.WithUnits(units)),
		resolve.WithThreshold(cfg.Resolver.FuzzyThreshold),
		resolve.WithTieMargin(cfg.Resolver.TieMargin),
	)
	ev := evaluator.New(res,
		evaluator.WithUnits(units),
		evaluator.WithAisles(aisles),
		evaluator.WithMaxDepth(cfg.Report.MaxDepth),
		evaluator.WithConcurrency(cfg.Report.Concurrency),
	)
	logger.Debug("Components wired.", "root", cfg.Recipes.Root, "extension", idx.Extension())

	return &App{
		config:    cfg,
		logger:    logger,
		units:     units,
		aisles:    aisles,
		index:     idx,
		resolver:  res,
		evaluator: ev,
	}, nil
}

// Context returns ctx carrying the application logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

func (a *App) Config() *config.Config          { return a.config }
func (a *App) Logger() *slog.Logger            { return a.logger }
func (a *App) Units() *quantity.Table          { return a.units }
func (a *App) Aisles() *aisle.Config           { return a.aisles }
func (a *App) Index() *index.Index             { return a.index }
func (a *App) Resolver() *resolve.Resolver     { return a.resolver }
func (a *App) Evaluator() *evaluator.Evaluator { return a.evaluator }
