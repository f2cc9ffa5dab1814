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

// StaticCompile builds a static library with a single toolchain pass over an
// explicit source file list: one compile per source, then one archive step.
type StaticCompile struct {
	runner  ports.Runner
	logger  ports.Logger
	workDir string
	spec    domain.StaticSpec

	// Compiler and Archiver default to cc/ar and may be overridden before Build.
	Compiler string
	Archiver string
}

// NewStaticCompile creates a new StaticCompile strategy rooted at workDir.
func NewStaticCompile(runner ports.Runner, logger ports.Logger, workDir string, spec domain.StaticSpec) *StaticCompile {
	return &StaticCompile{
		runner:   runner,
		logger:   logger,
		workDir:  workDir,
		spec:     spec,
		Compiler: "cc",
		Archiver: "ar",
	}
}

var _ ports.BuildStrategy = (*StaticCompile)(nil)

func (s *StaticCompile) srcDir() string {
	return filepath.Join(s.workDir, s.spec.SourceRoot)
}

func (s *StaticCompile) objDir() string {
	return filepath.Join(s.workDir, "obj")
}

func (s *StaticCompile) libPath() string {
	return filepath.Join(s.workDir, "lib"+s.spec.Deliverable+".a")
}

// resultPaths lists every declared output as an absolute path.
func (s *StaticCompile) resultPaths() []string {
	paths := []string{s.libPath()}
	for _, h := range s.spec.Headers {
		paths = append(paths, filepath.Join(s.srcDir(), h))
	}
	return paths
}

// Build compiles every declared source and archives the objects.
func (s *StaticCompile) Build(ctx context.Context) error {
	if err := os.MkdirAll(s.objDir(), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create object directory"), "dir", s.objDir())
	}

	var objects []string
	for _, src := range s.spec.Sources {
		obj := filepath.Join(s.objDir(), objectName(src))
		if err := s.compile(ctx, src, obj); err != nil {
			return err
		}
		objects = append(objects, obj)
	}

	argv := append([]string{s.Archiver, "rcs", s.libPath()}, objects...)
	if err := s.runner.Run(ctx, domain.Command{Argv: argv, Dir: s.workDir}); err != nil {
		return zerr.With(zerr.Wrap(err, "archiving failed"), "library", s.libPath())
	}
	return nil
}

func (s *StaticCompile) compile(ctx context.Context, src, obj string) error {
	argv := []string{s.Compiler, "-c"}
	argv = append(argv, s.spec.CFlags...)
	for _, inc := range s.spec.IncludeDirs {
		argv = append(argv, "-I"+filepath.Join(s.srcDir(), inc))
	}
	argv = append(argv, "-o", obj, filepath.Join(s.srcDir(), src))

	if err := s.runner.Run(ctx, domain.Command{Argv: argv, Dir: s.srcDir()}); err != nil {
		return zerr.With(zerr.Wrap(err, "compilation failed"), "source", src)
	}
	return nil
}

// objectName flattens a source path into a unique object file name, so
// src/x86/ffiw64.c and src/ffiw64.c cannot collide.
func objectName(src string) string {
	base := strings.NewReplacer("/", "_", "\\", "_").Replace(src)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".o"
}

// Result describes the declared artifacts.
func (s *StaticCompile) Result() domain.BuildResult {
	res := domain.BuildResult{Library: s.libPath()}
	for _, h := range s.spec.Headers {
		res.Headers = append(res.Headers, filepath.Join(s.srcDir(), h))
	}
	for _, inc := range s.spec.IncludeDirs {
		res.IncludeDirs = append(res.IncludeDirs, filepath.Join(s.srcDir(), inc))
	}
	return res
}

// NewestOutput returns the newest declared output; ok is false when any
// output is missing.
func (s *StaticCompile) NewestOutput() (time.Time, bool) {
	newest, _, ok := fstime.Newest(s.resultPaths())
	return newest, ok
}

// ArchivableResults lists the produced files. The library lands at the
// archive root; headers keep their source-relative layout.
func (s *StaticCompile) ArchivableResults() ([]domain.ArchivableResult, error) {
	results := []domain.ArchivableResult{
		{Path: s.libPath(), ArchivePath: filepath.Base(s.libPath())},
	}
	for _, h := range s.spec.Headers {
		results = append(results, domain.ArchivableResult{
			Path:        filepath.Join(s.srcDir(), h),
			ArchivePath: filepath.ToSlash(h),
		})
	}
	for _, r := range results {
		if _, err := os.Stat(r.Path); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "build result missing"), "path", r.Path)
		}
	}
	return results, nil
}
