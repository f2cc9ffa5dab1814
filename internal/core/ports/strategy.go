package ports

import (
	"context"
	"time"

	"go.trai.ch/fab/internal/core/domain"
)

// BuildStrategy compiles a staged, patched source tree into a static library
// and headers using a platform-appropriate toolchain flow. A strategy is
// selected once, at task construction, from the platform key.
type BuildStrategy interface {
	// Build runs the toolchain over the staged tree.
	Build(ctx context.Context) error

	// Result describes the artifacts the strategy produces. The paths are the
	// declared outputs; they may not exist before a successful Build.
	Result() domain.BuildResult

	// NewestOutput returns the modification time of the newest declared
	// output. ok is false when any declared output is missing.
	NewestOutput() (newest time.Time, ok bool)

	// ArchivableResults lists the produced files as (absolute path,
	// archive-relative path) pairs for the packaging collaborator.
	ArchivableResults() ([]domain.ArchivableResult, error)
}
