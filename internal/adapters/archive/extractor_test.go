package archive_test

import (
	"archive/tar"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fab/internal/adapters/archive"
)

type tarEntry struct {
	name    string
	body    string
	mode    int64
	modTime time.Time
}

func writeTarGz(t *testing.T, path string, entries []tarEntry) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := pgzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		mode := e.mode
		if mode == 0 {
			mode = 0o644
		}
		hdr := &tar.Header{
			Name:    e.name,
			Mode:    mode,
			Size:    int64(len(e.body)),
			ModTime: e.modTime,
		}
		if e.name[len(e.name)-1] == '/' {
			hdr.Typeflag = tar.TypeDir
			hdr.Size = 0
			require.NoError(t, tw.WriteHeader(hdr))
			continue
		}
		hdr.Typeflag = tar.TypeReg
		require.NoError(t, tw.WriteHeader(hdr))
		_, err = tw.Write([]byte(e.body))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
}

func TestExtractor_Extract_TarGz(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "src.tar.gz")
	mtime := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	writeTarGz(t, archivePath, []tarEntry{
		{name: "libdemo-1.0/", modTime: mtime},
		{name: "libdemo-1.0/configure", body: "#!/bin/sh\n", mode: 0o755, modTime: mtime},
		{name: "libdemo-1.0/include/demo.h", body: "#define DEMO 1\n", modTime: mtime},
	})

	dest := filepath.Join(dir, "work")
	e := archive.NewExtractor()
	require.NoError(t, e.Extract(archivePath, dest))

	data, err := os.ReadFile(filepath.Join(dest, "libdemo-1.0", "include", "demo.h"))
	require.NoError(t, err)
	assert.Equal(t, "#define DEMO 1\n", string(data))

	// timestamps are preserved so the freshness check reflects archive ages
	info, err := os.Stat(filepath.Join(dest, "libdemo-1.0", "configure"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))
	assert.NotZero(t, info.Mode()&0o100)
}

func TestExtractor_Extract_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "evil.tar.gz")
	writeTarGz(t, archivePath, []tarEntry{
		{name: "../escape.txt", body: "nope", modTime: time.Now()},
	})

	e := archive.NewExtractor()
	err := e.Extract(archivePath, filepath.Join(dir, "work"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal path")
	assert.NoFileExists(t, filepath.Join(dir, "escape.txt"))
}

func TestExtractor_Extract_Zip(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "src.zip")

	f, err := os.Create(archivePath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("libdemo-1.0/src/demo.c")
	require.NoError(t, err)
	_, err = w.Write([]byte("int demo(void) { return 1; }\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dest := filepath.Join(dir, "work")
	e := archive.NewExtractor()
	require.NoError(t, e.Extract(archivePath, dest))

	assert.FileExists(t, filepath.Join(dest, "libdemo-1.0", "src", "demo.c"))
}

func TestExtractor_Extract_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "src.rar")
	require.NoError(t, os.WriteFile(archivePath, []byte("data"), 0o644))

	e := archive.NewExtractor()
	err := e.Extract(archivePath, filepath.Join(dir, "work"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported archive format")
}

func TestExtractor_Verify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src.tar.gz")
	content := []byte("not really a tarball")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	good := fmt.Sprintf("xxh64:%016x", xxhash.Sum64(content))

	e := archive.NewExtractor()

	tests := []struct {
		name        string
		digest      string
		errContains string
	}{
		{name: "matching digest", digest: good},
		{name: "empty digest disables check", digest: ""},
		{name: "mismatch", digest: "xxh64:0000000000000000", errContains: "checksum mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Verify(path, tt.digest)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExtractor_Verify_UnsupportedScheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	e := archive.NewExtractor()
	err := e.Verify(path, "sha256:deadbeef")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported digest scheme")
}
