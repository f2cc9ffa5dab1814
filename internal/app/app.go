// Package app implements the application layer for fab.
package app

import (
	"context"
	"runtime"
	"sort"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/fab/internal/engine/strategy"
	"go.trai.ch/fab/internal/engine/task"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic: it turns manifest entries into
// build tasks and schedules them.
type App struct {
	loader    ports.ConfigLoader
	extractor ports.Extractor
	patcher   ports.Patcher
	runner    ports.Runner
	logger    ports.Logger

	manifestPath string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	extractor ports.Extractor,
	patcher ports.Patcher,
	runner ports.Runner,
	logger ports.Logger,
) *App {
	return &App{
		loader:    loader,
		extractor: extractor,
		patcher:   patcher,
		runner:    runner,
		logger:    logger,
	}
}

// SetManifestPath overrides the manifest location. An empty path keeps the
// loader's default.
func (a *App) SetManifestPath(path string) {
	a.manifestPath = path
}

// BuildOptions controls a build run.
type BuildOptions struct {
	// Force rebuilds even when outputs are up to date.
	Force bool
	// Jobs caps concurrent dependency builds; zero means one per CPU.
	Jobs int
}

// Build brings the named dependencies up to date. With no names, every
// dependency in the manifest is built. Distinct dependencies build in
// parallel; each task itself runs strictly sequentially.
func (a *App) Build(ctx context.Context, names []string, opts BuildOptions) error {
	tasks, err := a.tasks(names)
	if err != nil {
		return err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, t := range tasks {
		g.Go(func() error {
			return a.buildOne(ctx, t, opts.Force)
		})
	}
	return g.Wait()
}

func (a *App) buildOne(ctx context.Context, t *task.Task, force bool) error {
	if !force {
		stale, reason, err := t.NeedsBuild()
		if err != nil {
			return err
		}
		if !stale {
			a.logger.Info(t.Name() + " is up to date")
			return nil
		}
		a.logger.Info("rebuilding " + t.Name() + ": " + reason)
	}

	// a leftover tree from an earlier run must go before restaging
	if err := t.Clean(); err != nil {
		return err
	}
	return t.Build(ctx)
}

// Clean removes the working directories of the named dependencies, or of all
// dependencies when no names are given.
func (a *App) Clean(names []string) error {
	tasks, err := a.tasks(names)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if err := t.Clean(); err != nil {
			return err
		}
		a.logger.Info("cleaned " + t.Name())
	}
	return nil
}

// Status reports per-dependency freshness without building anything.
func (a *App) Status(names []string) error {
	tasks, err := a.tasks(names)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		stale, reason, err := t.NeedsBuild()
		if err != nil {
			return err
		}
		if stale {
			a.logger.Info(t.Name() + ": needs build (" + reason + ")")
		} else {
			a.logger.Info(t.Name() + ": up to date")
		}
	}
	return nil
}

// tasks loads the manifest and constructs one task per requested dependency,
// in deterministic name order.
func (a *App) tasks(names []string) ([]*task.Task, error) {
	manifest, err := a.loader.Load(a.manifestPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if len(names) == 0 {
		names = make([]string, 0, len(manifest.Deps))
		for name := range manifest.Deps {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	tasks := make([]*task.Task, 0, len(names))
	for _, name := range names {
		dep, ok := manifest.Deps[name]
		if !ok {
			return nil, zerr.With(domain.ErrDepNotFound, "dep", name)
		}
		strat, err := strategy.New(dep, a.runner, a.logger)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task.New(dep, strat, a.extractor, a.patcher, a.logger))
	}
	return tasks, nil
}
