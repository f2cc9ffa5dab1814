// Package patchset resolves the ordered set of patches for a target platform.
package patchset

import (
	"os"
	"path/filepath"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolve returns the ordered patch file paths to apply for the given
// platform. Precedence is fixed:
//
//  1. every patch under <patchRoot>/common
//  2. every patch under <patchRoot>/<os>-<arch> if that directory exists,
//     otherwise every patch under <patchRoot>/others
//
// The exact-platform and generic tiers are mutually exclusive, so a named
// platform is never double-patched with patches meant for "everything else".
// A missing directory contributes zero patches. Within a tier, patches apply
// in lexical filename order; callers control ordering through file names.
func Resolve(patchRoot string, key domain.PlatformKey) ([]string, error) {
	patches, err := listPatches(filepath.Join(patchRoot, "common"))
	if err != nil {
		return nil, err
	}

	osArchDir := filepath.Join(patchRoot, key.String())
	tier := osArchDir
	if !isDir(osArchDir) {
		tier = filepath.Join(patchRoot, "others")
	}

	tierPatches, err := listPatches(tier)
	if err != nil {
		return nil, err
	}

	return append(patches, tierPatches...), nil
}

// listPatches lists the regular files directly under dir in lexical order.
// A missing dir yields no patches.
func listPatches(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to list patch directory"), "dir", dir)
	}

	var patches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		patches = append(patches, filepath.Join(dir, entry.Name()))
	}
	return patches, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
