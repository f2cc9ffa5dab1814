package domain

import "path/filepath"

// Manifest is the loaded build manifest: all native dependencies known to the
// project, keyed by name.
type Manifest struct {
	Version string
	Deps    map[string]NativeDep
}

// NativeDep is the immutable configuration of one patched native-dependency
// build: a vendored source archive, a patch root, a task-owned working
// directory, and the platform-specific strategy specs. Only the working
// directory and the produced artifacts have a build-time lifecycle.
type NativeDep struct {
	Name      string
	Archive   string // path to the vendored source archive (read-only input)
	Checksum  string // optional "xxh64:<hex>" digest of the archive
	PatchRoot string // root of the common/<os>-<arch>/others patch tiers
	WorkDir   string // exclusively owned output subtree
	Platform  PlatformKey

	Static    *StaticSpec
	Autotools *AutotoolsSpec
}

// StaticSpec configures the direct static-compile strategy: a single toolchain
// pass over an explicit source list, producing one static archive.
type StaticSpec struct {
	SourceRoot  string   // archive's top-level directory, relative to WorkDir
	Deliverable string   // library base name; the archive is lib<Deliverable>.a
	CFlags      []string
	Sources     []string // .c/.S files relative to SourceRoot
	Headers     []string // public headers relative to SourceRoot
	IncludeDirs []string // include roots relative to SourceRoot
}

// AutotoolsSpec configures the configure-and-make strategy.
type AutotoolsSpec struct {
	SourceRoot    string   // archive's top-level directory, relative to WorkDir
	BuildDir      string   // out-of-tree build directory, relative to WorkDir
	ConfigureArgs []string // appended after the fixed flag core
	CFlags        []string
	CPPFlags      []string
	Results       []string // expected outputs relative to BuildDir
}

// SourceDir returns the absolute staged source root for the active strategy
// variant. Patches are applied against this directory.
func (d *NativeDep) SourceDir() string {
	root := ""
	switch {
	case d.Platform.OS == "windows" && d.Static != nil:
		root = d.Static.SourceRoot
	case d.Autotools != nil:
		root = d.Autotools.SourceRoot
	case d.Static != nil:
		root = d.Static.SourceRoot
	}
	return filepath.Join(d.WorkDir, root)
}
