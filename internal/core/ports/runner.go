package ports

import (
	"context"

	"go.trai.ch/fab/internal/core/domain"
)

// Runner executes external toolchain commands.
//
// Implementations stream the command's output to the logger and attach its
// exit code and an output tail to the returned error, so a failed build can be
// diagnosed without the task interpreting toolchain-specific messages.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type Runner interface {
	// Run executes the command and blocks until it exits.
	// It returns an error for a non-zero exit status.
	Run(ctx context.Context, cmd domain.Command) error
}
