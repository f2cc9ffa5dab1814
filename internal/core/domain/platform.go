// Package domain contains the core domain models for the native dependency builder.
package domain

import "runtime"

// PlatformKey identifies the target platform as an (operating system, CPU
// architecture) pair. It selects both the patch tier and the build strategy
// and is fixed for the lifetime of a task.
type PlatformKey struct {
	OS   string
	Arch string
}

// HostPlatform returns the platform key of the running process.
func HostPlatform() PlatformKey {
	return PlatformKey{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// String renders the key in the "<os>-<arch>" form used for patch directories.
func (k PlatformKey) String() string {
	return k.OS + "-" + k.Arch
}
