package ports

import "context"

// Patcher applies one patch file against a staged source tree.
//
//go:generate go run go.uber.org/mock/mockgen -source=patcher.go -destination=mocks/mock_patcher.go -package=mocks
type Patcher interface {
	// Apply applies patch to the tree rooted at sourceDir.
	// A failure leaves the tree in an undefined state.
	Apply(ctx context.Context, sourceDir, patch string) error
}
