package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fab/internal/adapters/config"
	"go.trai.ch/fab/internal/core/domain"
)

const sampleManifest = `
version: "1"
output: out
deps:
  ffi:
    archive: third_party/libffi-3.4.6.tar.gz
    checksum: xxh64:0123456789abcdef
    patches: patches/ffi
    autotools:
      sourceRoot: libffi-3.4.6
      buildDir: libffi-build
      configureArgs: ["--disable-docs"]
      cflags: ["-g", "-O3"]
      cppflags: ["-DNO_RAW_API"]
      results:
        - .libs/libffi.a
        - include/ffi.h
        - include/ffitarget.h
    static:
      sourceRoot: libffi-3.4.6
      deliverable: ffi
      cflags: ["-O2"]
      sources: ["src/prep_cif.c", "src/types.c"]
      headers: ["include/ffi.h"]
      includeDirs: ["include"]
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	root := filepath.Dir(path)
	platform := domain.PlatformKey{OS: "linux", Arch: "amd64"}

	manifest, err := config.Load(path, platform)
	require.NoError(t, err)
	require.Contains(t, manifest.Deps, "ffi")

	dep := manifest.Deps["ffi"]
	assert.Equal(t, "ffi", dep.Name)
	assert.Equal(t, filepath.Join(root, "third_party", "libffi-3.4.6.tar.gz"), dep.Archive)
	assert.Equal(t, "xxh64:0123456789abcdef", dep.Checksum)
	assert.Equal(t, filepath.Join(root, "patches", "ffi"), dep.PatchRoot)
	assert.Equal(t, filepath.Join(root, "out", "ffi"), dep.WorkDir)
	assert.Equal(t, platform, dep.Platform)

	require.NotNil(t, dep.Autotools)
	assert.Equal(t, "libffi-3.4.6", dep.Autotools.SourceRoot)
	assert.Equal(t, "libffi-build", dep.Autotools.BuildDir)
	assert.Equal(t, []string{"--disable-docs"}, dep.Autotools.ConfigureArgs)
	assert.Equal(t, []string{".libs/libffi.a", "include/ffi.h", "include/ffitarget.h"}, dep.Autotools.Results)

	require.NotNil(t, dep.Static)
	assert.Equal(t, "ffi", dep.Static.Deliverable)
	assert.Equal(t, []string{"src/prep_cif.c", "src/types.c"}, dep.Static.Sources)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeManifest(t, `
version: "1"
deps:
  demo:
    archive: demo.tar.gz
    autotools:
      sourceRoot: demo-1.0
      results: [".libs/libdemo.a"]
`)
	root := filepath.Dir(path)

	manifest, err := config.Load(path, domain.PlatformKey{OS: "linux", Arch: "amd64"})
	require.NoError(t, err)

	dep := manifest.Deps["demo"]
	// output defaults to "build", buildDir to "build", no patch root
	assert.Equal(t, filepath.Join(root, "build", "demo"), dep.WorkDir)
	assert.Equal(t, "build", dep.Autotools.BuildDir)
	assert.Empty(t, dep.PatchRoot)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		errContains string
	}{
		{
			name: "missing archive",
			content: `
deps:
  demo:
    autotools:
      sourceRoot: demo
`,
			errContains: "no archive",
		},
		{
			name: "no strategy variant",
			content: `
deps:
  demo:
    archive: demo.tar.gz
`,
			errContains: "no build strategy",
		},
		{
			name:        "invalid yaml",
			content:     "deps: [::",
			errContains: "failed to parse manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.content)
			_, err := config.Load(path, domain.PlatformKey{OS: "linux", Arch: "amd64"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestFileConfigLoader_Load_MissingFile(t *testing.T) {
	loader := &config.FileConfigLoader{}
	_, err := loader.Load(filepath.Join(t.TempDir(), "fab.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read manifest")
}
