// Package strategy implements the platform build strategies that turn a
// staged, patched source tree into a static library and headers.
package strategy

import (
	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/zerr"
)

// New selects the build strategy for a dependency from its platform key. The
// choice is made once, at construction; the key never changes afterwards.
// Windows has no portable configure step for its toolchain, so it gets the
// direct static compile; every other platform goes through configure and make.
func New(dep domain.NativeDep, runner ports.Runner, logger ports.Logger) (ports.BuildStrategy, error) {
	switch {
	case dep.Platform.OS == "windows" && dep.Static != nil:
		return NewStaticCompile(runner, logger, dep.WorkDir, *dep.Static), nil
	case dep.Autotools != nil:
		return NewConfigureAndMake(runner, logger, dep.WorkDir, dep.Platform, *dep.Autotools), nil
	case dep.Static != nil:
		return NewStaticCompile(runner, logger, dep.WorkDir, *dep.Static), nil
	default:
		return nil, zerr.With(zerr.With(domain.ErrNoStrategy, "dep", dep.Name),
			"platform", dep.Platform.String())
	}
}
