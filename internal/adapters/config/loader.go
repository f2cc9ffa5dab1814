// Package config provides the fab.yaml manifest loader.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the manifest file name looked up in the working directory.
const DefaultFilename = "fab.yaml"

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct{}

// Load reads the manifest at path, defaulting to fab.yaml in the current
// directory. Relative paths in the manifest resolve against the manifest's
// directory; the platform key is resolved once here, at construction time of
// the dependency configs.
func (l *FileConfigLoader) Load(path string) (*domain.Manifest, error) {
	if path == "" {
		path = DefaultFilename
	}
	return Load(path, domain.HostPlatform())
}

// Fabfile represents the structure of the fab.yaml manifest.
type Fabfile struct {
	Version string            `yaml:"version"`
	Output  string            `yaml:"output"`
	Deps    map[string]DepDTO `yaml:"deps"`
}

// DepDTO represents one native dependency definition in the manifest.
type DepDTO struct {
	Archive   string        `yaml:"archive"`
	Checksum  string        `yaml:"checksum"`
	Patches   string        `yaml:"patches"`
	Static    *StaticDTO    `yaml:"static"`
	Autotools *AutotoolsDTO `yaml:"autotools"`
}

// StaticDTO configures the direct static-compile strategy.
type StaticDTO struct {
	SourceRoot  string   `yaml:"sourceRoot"`
	Deliverable string   `yaml:"deliverable"`
	CFlags      []string `yaml:"cflags"`
	Sources     []string `yaml:"sources"`
	Headers     []string `yaml:"headers"`
	IncludeDirs []string `yaml:"includeDirs"`
}

// AutotoolsDTO configures the configure-and-make strategy.
type AutotoolsDTO struct {
	SourceRoot    string   `yaml:"sourceRoot"`
	BuildDir      string   `yaml:"buildDir"`
	ConfigureArgs []string `yaml:"configureArgs"`
	CFlags        []string `yaml:"cflags"`
	CPPFlags      []string `yaml:"cppflags"`
	Results       []string `yaml:"results"`
}

// Load reads a manifest from path and returns the domain model for the given
// platform.
func Load(path string, platform domain.PlatformKey) (*domain.Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read manifest")
	}

	var fabfile Fabfile
	if err := yaml.Unmarshal(data, &fabfile); err != nil {
		return nil, zerr.Wrap(err, "failed to parse manifest")
	}

	root := filepath.Dir(path)
	output := fabfile.Output
	if output == "" {
		output = "build"
	}

	manifest := &domain.Manifest{
		Version: fabfile.Version,
		Deps:    make(map[string]domain.NativeDep, len(fabfile.Deps)),
	}

	for name, dto := range fabfile.Deps {
		dep, err := buildDep(name, dto, root, output, platform)
		if err != nil {
			return nil, err
		}
		manifest.Deps[name] = dep
	}

	return manifest, nil
}

func buildDep(name string, dto DepDTO, root, output string, platform domain.PlatformKey) (domain.NativeDep, error) {
	if dto.Archive == "" {
		return domain.NativeDep{}, zerr.With(zerr.New("dependency has no archive"), "dep", name)
	}
	if dto.Static == nil && dto.Autotools == nil {
		return domain.NativeDep{}, zerr.With(domain.ErrNoStrategy, "dep", name)
	}

	dep := domain.NativeDep{
		Name:     name,
		Archive:  resolve(root, dto.Archive),
		Checksum: dto.Checksum,
		WorkDir:  filepath.Join(root, output, name),
		Platform: platform,
	}
	if dto.Patches != "" {
		dep.PatchRoot = resolve(root, dto.Patches)
	}
	if dto.Static != nil {
		dep.Static = &domain.StaticSpec{
			SourceRoot:  dto.Static.SourceRoot,
			Deliverable: dto.Static.Deliverable,
			CFlags:      dto.Static.CFlags,
			Sources:     dto.Static.Sources,
			Headers:     dto.Static.Headers,
			IncludeDirs: dto.Static.IncludeDirs,
		}
	}
	if dto.Autotools != nil {
		buildDir := dto.Autotools.BuildDir
		if buildDir == "" {
			buildDir = "build"
		}
		dep.Autotools = &domain.AutotoolsSpec{
			SourceRoot:    dto.Autotools.SourceRoot,
			BuildDir:      buildDir,
			ConfigureArgs: dto.Autotools.ConfigureArgs,
			CFlags:        dto.Autotools.CFlags,
			CPPFlags:      dto.Autotools.CPPFlags,
			Results:       dto.Autotools.Results,
		}
	}
	return dep, nil
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
