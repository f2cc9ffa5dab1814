package patchset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/engine/patchset"
)

func writePatch(t *testing.T, root string, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("--- a\n+++ b\n"), 0o644))
	return path
}

func TestResolve_TierPrecedence(t *testing.T) {
	root := t.TempDir()
	p1 := writePatch(t, root, "common", "0001-base.patch")
	p2 := writePatch(t, root, "linux-amd64", "0001-linux.patch")
	p3 := writePatch(t, root, "others", "0001-generic.patch")

	t.Run("exact platform wins over others", func(t *testing.T) {
		got, err := patchset.Resolve(root, domain.PlatformKey{OS: "linux", Arch: "amd64"})
		require.NoError(t, err)
		assert.Equal(t, []string{p1, p2}, got)
	})

	t.Run("unlisted platform falls back to others", func(t *testing.T) {
		got, err := patchset.Resolve(root, domain.PlatformKey{OS: "darwin", Arch: "amd64"})
		require.NoError(t, err)
		assert.Equal(t, []string{p1, p3}, got)
	})
}

func TestResolve_LexicalOrderWithinTier(t *testing.T) {
	root := t.TempDir()
	// Written out of order on purpose; resolution must not depend on creation order.
	p2 := writePatch(t, root, "common", "0002-second.patch")
	p1 := writePatch(t, root, "common", "0001-first.patch")
	p3 := writePatch(t, root, "common", "0010-tenth.patch")

	got, err := patchset.Resolve(root, domain.PlatformKey{OS: "linux", Arch: "amd64"})
	require.NoError(t, err)
	assert.Equal(t, []string{p1, p2, p3}, got)
}

func TestResolve_MissingTiers(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, root string) []string
	}{
		{
			name: "empty patch root",
			setup: func(_ *testing.T, _ string) []string {
				return nil
			},
		},
		{
			name: "common only",
			setup: func(t *testing.T, root string) []string {
				return []string{writePatch(t, root, "common", "a.patch")}
			},
		},
		{
			name: "platform dir only",
			setup: func(t *testing.T, root string) []string {
				return []string{writePatch(t, root, "linux-amd64", "a.patch")}
			},
		},
		{
			name: "nonexistent patch root",
			setup: func(_ *testing.T, root string) []string {
				require.NoError(t, os.RemoveAll(root))
				return nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			want := tt.setup(t, root)

			got, err := patchset.Resolve(root, domain.PlatformKey{OS: "linux", Arch: "amd64"})
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestResolve_IgnoresSubdirectories(t *testing.T) {
	root := t.TempDir()
	p := writePatch(t, root, "common", "a.patch")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "common", "disabled"), 0o755))

	got, err := patchset.Resolve(root, domain.PlatformKey{OS: "linux", Arch: "amd64"})
	require.NoError(t, err)
	assert.Equal(t, []string{p}, got)
}

func TestResolve_EmptyPlatformDirSuppressesOthers(t *testing.T) {
	// An existing but empty <os>-<arch> directory still selects the exact
	// tier: generic patches must never leak onto a named platform.
	root := t.TempDir()
	p1 := writePatch(t, root, "common", "a.patch")
	writePatch(t, root, "others", "generic.patch")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "linux-amd64"), 0o755))

	got, err := patchset.Resolve(root, domain.PlatformKey{OS: "linux", Arch: "amd64"})
	require.NoError(t, err)
	assert.Equal(t, []string{p1}, got)
}
