// Package patch applies source patches to a staged tree.
package patch

import (
	"context"
	"path/filepath"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/zerr"
)

// GitApplier implements ports.Patcher using `git apply`. The command works
// against any directory, repository or not, via --unsafe-paths and
// --directory.
type GitApplier struct {
	runner ports.Runner
	logger ports.Logger
}

// NewGitApplier creates a new GitApplier.
func NewGitApplier(runner ports.Runner, logger ports.Logger) *GitApplier {
	return &GitApplier{runner: runner, logger: logger}
}

var _ ports.Patcher = (*GitApplier)(nil)

// Apply applies patch to the tree rooted at sourceDir. A failure leaves the
// tree in an undefined state; the only remedy is a clean.
func (a *GitApplier) Apply(ctx context.Context, sourceDir, patch string) error {
	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve source directory"), "dir", sourceDir)
	}
	absPatch, err := filepath.Abs(patch)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve patch path"), "patch", patch)
	}

	a.logger.Info("applying patch " + filepath.Base(patch))

	cmd := domain.Command{
		Argv: []string{
			"git", "apply",
			"--whitespace=nowarn",
			"--unsafe-paths",
			"--directory", absDir,
			absPatch,
		},
	}
	if err := a.runner.Run(ctx, cmd); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrPatchFailed.Error()), "patch", patch)
	}
	return nil
}
