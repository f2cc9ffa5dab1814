// Package fstime provides modification-time helpers for freshness checks.
//
// File timestamps are the only build metadata this tool keeps: comparing the
// newest output against the newest input is the whole caching mechanism, and
// it stays inspectable with nothing more than stat.
package fstime

import (
	"os"
	"time"
)

// Newest returns the newest modification time among the given paths, together
// with the path that carries it. ok is false when paths is empty or any path
// is missing.
func Newest(paths []string) (newest time.Time, newestPath string, ok bool) {
	if len(paths) == 0 {
		return time.Time{}, "", false
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return time.Time{}, "", false
		}
		if mt := info.ModTime(); newestPath == "" || mt.After(newest) {
			newest = mt
			newestPath = p
		}
	}
	return newest, newestPath, true
}

// ModTime returns the modification time of path, or ok=false if it cannot be
// stat'ed.
func ModTime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
