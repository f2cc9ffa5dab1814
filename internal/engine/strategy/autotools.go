package strategy

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/fab/internal/engine/fstime"
	"go.trai.ch/zerr"
)

// ltObjDir is libtool's internal object directory. Libtool drops the real
// static archive one level deeper than the declared result layout, so files
// under it are archived by basename rather than by their build-relative path.
const ltObjDir = ".libs"

// baseConfigureArgs is the fixed flag core of every configure run: static
// output only, position independent code, no dependency tracking.
var baseConfigureArgs = []string{
	"--disable-dependency-tracking",
	"--disable-shared",
	"--with-pic",
}

// defaultCFlags is used when the manifest declares no compiler flags.
var defaultCFlags = []string{"-g", "-O3"}

// ConfigureAndMake builds through an autotools flow: configure out-of-tree
// with a fixed flag set, then make, locating results under the build
// directory.
type ConfigureAndMake struct {
	runner   ports.Runner
	logger   ports.Logger
	workDir  string
	platform domain.PlatformKey
	spec     domain.AutotoolsSpec

	// Make defaults to make and may be overridden before Build.
	Make string
}

// NewConfigureAndMake creates a new ConfigureAndMake strategy rooted at workDir.
func NewConfigureAndMake(
	runner ports.Runner,
	logger ports.Logger,
	workDir string,
	platform domain.PlatformKey,
	spec domain.AutotoolsSpec,
) *ConfigureAndMake {
	return &ConfigureAndMake{
		runner:   runner,
		logger:   logger,
		workDir:  workDir,
		platform: platform,
		spec:     spec,
		Make:     "make",
	}
}

var _ ports.BuildStrategy = (*ConfigureAndMake)(nil)

func (s *ConfigureAndMake) srcDir() string {
	return filepath.Join(s.workDir, s.spec.SourceRoot)
}

func (s *ConfigureAndMake) buildDir() string {
	return filepath.Join(s.workDir, s.spec.BuildDir)
}

// resultPaths lists every declared output as an absolute path.
func (s *ConfigureAndMake) resultPaths() []string {
	paths := make([]string, 0, len(s.spec.Results))
	for _, r := range s.spec.Results {
		paths = append(paths, filepath.Join(s.buildDir(), r))
	}
	return paths
}

// Build runs configure and make from a separate build directory.
func (s *ConfigureAndMake) Build(ctx context.Context) error {
	if err := os.MkdirAll(s.buildDir(), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create build directory"), "dir", s.buildDir())
	}

	if err := s.runner.Run(ctx, domain.Command{Argv: s.configureArgv(), Dir: s.buildDir()}); err != nil {
		return zerr.Wrap(err, "configure failed")
	}

	if err := s.runner.Run(ctx, domain.Command{Argv: []string{s.Make}, Dir: s.buildDir()}); err != nil {
		return zerr.Wrap(err, "make failed")
	}
	return nil
}

func (s *ConfigureAndMake) configureArgv() []string {
	argv := []string{"sh", filepath.Join(s.srcDir(), "configure")}
	argv = append(argv, baseConfigureArgs...)
	argv = append(argv, s.spec.ConfigureArgs...)

	cflags := s.spec.CFlags
	if len(cflags) == 0 {
		cflags = defaultCFlags
	}
	if s.platform.OS == "solaris" {
		// the solaris toolchain defaults to 32-bit output
		cflags = append(append([]string{}, cflags...), "-m64")
	}
	argv = append(argv, "CFLAGS="+strings.Join(cflags, " "))

	if len(s.spec.CPPFlags) > 0 {
		argv = append(argv, "CPPFLAGS="+strings.Join(s.spec.CPPFlags, " "))
	}
	return argv
}

// Result describes the declared artifacts. The library is the first declared
// result inside the libtool object directory.
func (s *ConfigureAndMake) Result() domain.BuildResult {
	res := domain.BuildResult{
		IncludeDirs: []string{filepath.Join(s.buildDir(), "include")},
	}
	for _, r := range s.spec.Results {
		abs := filepath.Join(s.buildDir(), r)
		if inLtObjDir(abs) && res.Library == "" {
			res.Library = abs
			continue
		}
		res.Headers = append(res.Headers, abs)
	}
	return res
}

// NewestOutput returns the newest declared output; ok is false when any
// output is missing.
func (s *ConfigureAndMake) NewestOutput() (time.Time, bool) {
	newest, _, ok := fstime.Newest(s.resultPaths())
	return newest, ok
}

// ArchivableResults lists the produced files. Results nested under the
// libtool object directory are archived by basename; everything else keeps
// its build-relative path.
func (s *ConfigureAndMake) ArchivableResults() ([]domain.ArchivableResult, error) {
	results := make([]domain.ArchivableResult, 0, len(s.spec.Results))
	for _, r := range s.spec.Results {
		abs := filepath.Join(s.buildDir(), r)
		if _, err := os.Stat(abs); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "build result missing"), "path", abs)
		}
		archivePath := filepath.ToSlash(r)
		if inLtObjDir(abs) {
			archivePath = filepath.Base(abs)
		}
		results = append(results, domain.ArchivableResult{Path: abs, ArchivePath: archivePath})
	}
	return results, nil
}

func inLtObjDir(path string) bool {
	return filepath.Base(filepath.Dir(path)) == ltObjDir
}
