// Package task implements the native build task: the state machine that
// stages a vendored source archive, applies the resolved patch set, and
// delegates compilation to the platform build strategy.
package task

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/fab/internal/engine/fstime"
	"go.trai.ch/fab/internal/engine/patchset"
	"go.trai.ch/zerr"
)

// Task is one patched native-dependency build. The configuration is immutable
// after construction; the only mutable state is the working directory on disk
// and the advisory lifecycle state.
//
// A Task performs no internal parallelism and must not be built concurrently
// with itself; at-most-one-build-per-task serialization is the caller's
// responsibility. Distinct tasks never share a working directory and may run
// in parallel.
type Task struct {
	dep       domain.NativeDep
	strategy  ports.BuildStrategy
	extractor ports.Extractor
	patcher   ports.Patcher
	logger    ports.Logger

	state domain.TaskState
}

// New creates a task for the given dependency with its pre-selected strategy.
func New(
	dep domain.NativeDep,
	strat ports.BuildStrategy,
	extractor ports.Extractor,
	patcher ports.Patcher,
	logger ports.Logger,
) *Task {
	return &Task{
		dep:       dep,
		strategy:  strat,
		extractor: extractor,
		patcher:   patcher,
		logger:    logger,
		state:     domain.StateUnbuilt,
	}
}

// Name returns the dependency name.
func (t *Task) Name() string {
	return t.dep.Name
}

// State returns the advisory lifecycle state.
func (t *Task) State() domain.TaskState {
	return t.state
}

// Patches resolves the ordered patch set for this task's platform.
func (t *Task) Patches() ([]string, error) {
	if t.dep.PatchRoot == "" {
		return nil, nil
	}
	return patchset.Resolve(t.dep.PatchRoot, t.dep.Platform)
}

// NeedsBuild reports whether the task is stale, with a human-readable reason.
//
// The task is stale when any declared output is missing, or when the newest
// output is older than the newest of the source archive and the resolved
// patch files. Patches are first-class build inputs: editing one invalidates
// the build even when the strategy's own outputs look up to date.
func (t *Task) NeedsBuild() (bool, string, error) {
	output, ok := t.strategy.NewestOutput()
	if !ok {
		return true, "no previous build output", nil
	}

	if mt, ok := fstime.ModTime(t.dep.Archive); ok && output.Before(mt) {
		return true, "output is older than source archive", nil
	}

	patches, err := t.Patches()
	if err != nil {
		return false, "", err
	}
	if newest, newestPath, ok := fstime.Newest(patches); ok && output.Before(newest) {
		return true, "output is older than " + filepath.Base(newestPath), nil
	}

	return false, "all files are up to date", nil
}

// Build stages, patches and compiles the dependency.
//
// The working directory must not exist: building on top of a stale tree would
// let outputs from two source or patch revisions coexist, so that is treated
// as a scheduling error and rejected before any file is touched.
func (t *Task) Build(ctx context.Context) error {
	if fstime.Exists(t.dep.WorkDir) {
		return zerr.With(zerr.With(domain.ErrWorkDirExists, "dep", t.dep.Name), "dir", t.dep.WorkDir)
	}

	if err := t.stage(); err != nil {
		return err
	}

	if err := t.applyPatches(ctx); err != nil {
		return err
	}

	t.logger.Info("building " + t.dep.Name)
	if err := t.strategy.Build(ctx); err != nil {
		// the tree is left in place for diagnosis; a retry requires clean
		return zerr.With(zerr.Wrap(err, "build failed"), "dep", t.dep.Name)
	}
	t.state = domain.StateBuilt
	return nil
}

func (t *Task) stage() error {
	if err := t.extractor.Verify(t.dep.Archive, t.dep.Checksum); err != nil {
		return err
	}

	t.logger.Info("extracting " + filepath.Base(t.dep.Archive))
	if err := t.extractor.Extract(t.dep.Archive, t.dep.WorkDir); err != nil {
		return zerr.With(zerr.Wrap(err, "extraction failed"), "dep", t.dep.Name)
	}
	t.state = domain.StateStaged
	return nil
}

// applyPatches applies the resolved set in order. The first failure aborts:
// a partially patched tree is corrupt and only clean recovers it.
func (t *Task) applyPatches(ctx context.Context) error {
	patches, err := t.Patches()
	if err != nil {
		return err
	}
	if len(patches) == 0 {
		t.state = domain.StatePatched
		return nil
	}

	t.logger.Info("applying patches")
	srcDir := t.dep.SourceDir()
	for _, p := range patches {
		if err := t.patcher.Apply(ctx, srcDir, p); err != nil {
			return zerr.With(err, "dep", t.dep.Name)
		}
	}
	t.state = domain.StatePatched
	return nil
}

// Clean removes the working directory. Cleaning an already-clean task is not
// an error.
func (t *Task) Clean() error {
	if err := os.RemoveAll(t.dep.WorkDir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove working directory"), "dir", t.dep.WorkDir)
	}
	t.state = domain.StateUnbuilt
	return nil
}

// Result describes the artifacts of a successful build.
func (t *Task) Result() domain.BuildResult {
	return t.strategy.Result()
}

// ArchivableResults lists the produced files for the packaging collaborator.
func (t *Task) ArchivableResults() ([]domain.ArchivableResult, error) {
	return t.strategy.ArchivableResults()
}
