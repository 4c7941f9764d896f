package app

import (
	"context"
	"fmt"

	"github.com/vk/cookcli/internal/server"
	"github.com/vk/cookcli/internal/watch"
)

// Serve builds the index, starts the file watcher and runs the HTTP API
// until ctx is cancelled.
func (a *App) Serve(ctx context.Context, addr string) error {
	ctx = a.Context(ctx)
	a.logger.Debug("App.Serve method started.")

	if err := a.index.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to build recipe index: %w", err)
	}

	w, err := a.startWatcher(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Stop(); err != nil {
			a.logger.Warn("Failed to stop watcher.", "error", err)
		}
	}()

	cfg := server.DefaultConfig()
	if addr != "" {
		cfg.Addr = addr
	}
	srv := server.New(ctx, cfg, server.Dependencies{
		Index:     a.index,
		Resolver:  a.resolver,
		Evaluator: a.evaluator,
		Units:     a.units,
		Aisles:    a.aisles,
	})
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	a.logger.Debug("App.Serve method finished.")
	return nil
}

// startWatcher starts watching the recipe tree, then rebuilds the index if
// anything changed between the initial build and the first watched event.
func (a *App) startWatcher(ctx context.Context) (*watch.Watcher, error) {
	w, err := watch.New(a.config.Recipes.Root, a.index.Extension(), a.index)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Stop()
		return nil, err
	}

	refreshed, err := a.index.RefreshIfStale(ctx)
	if err != nil {
		_ = w.Stop()
		return nil, fmt.Errorf("failed to refresh recipe index: %w", err)
	}
	if refreshed {
		a.logger.Info("Recipe index refreshed after watcher start.")
	}
	return w, nil
}
