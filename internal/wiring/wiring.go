// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/fab/internal/adapters/archive"
	_ "go.trai.ch/fab/internal/adapters/config"
	_ "go.trai.ch/fab/internal/adapters/logger"
	_ "go.trai.ch/fab/internal/adapters/patch"
	_ "go.trai.ch/fab/internal/adapters/shell"
	// Register app nodes.
	_ "go.trai.ch/fab/internal/app"
)
