package fstime_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fab/internal/engine/fstime"
)

func writeFileAt(t *testing.T, dir, name string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestNewest(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	old := writeFileAt(t, dir, "old", base)
	mid := writeFileAt(t, dir, "mid", base.Add(10*time.Minute))
	newer := writeFileAt(t, dir, "new", base.Add(20*time.Minute))

	newest, newestPath, ok := fstime.Newest([]string{old, mid, newer})
	require.True(t, ok)
	assert.Equal(t, newer, newestPath)
	assert.True(t, newest.Equal(base.Add(20*time.Minute)))
}

func TestNewest_Empty(t *testing.T) {
	_, _, ok := fstime.Newest(nil)
	assert.False(t, ok)
}

func TestNewest_MissingFile(t *testing.T) {
	dir := t.TempDir()
	present := writeFileAt(t, dir, "present", time.Now())

	_, _, ok := fstime.Newest([]string{present, filepath.Join(dir, "absent")})
	assert.False(t, ok)
}

func TestModTimeAndExists(t *testing.T) {
	dir := t.TempDir()
	when := time.Now().Add(-time.Minute).Truncate(time.Second)
	path := writeFileAt(t, dir, "f", when)

	mt, ok := fstime.ModTime(path)
	require.True(t, ok)
	assert.True(t, mt.Equal(when))

	_, ok = fstime.ModTime(filepath.Join(dir, "nope"))
	assert.False(t, ok)

	assert.True(t, fstime.Exists(path))
	assert.False(t, fstime.Exists(filepath.Join(dir, "nope")))
}
