package domain

import "go.trai.ch/zerr"

var (
	// ErrWorkDirExists is returned when a build is attempted over an existing
	// working directory. It signals a scheduling bug: clean was skipped.
	ErrWorkDirExists = zerr.New("working directory already exists, clean before building")

	// ErrDepNotFound is returned when a requested dependency is not in the manifest.
	ErrDepNotFound = zerr.New("dependency not found")

	// ErrNoStrategy is returned when the manifest defines no strategy variant
	// usable on the target platform.
	ErrNoStrategy = zerr.New("no build strategy for platform")

	// ErrChecksumMismatch is returned when the vendored archive does not match
	// its declared digest.
	ErrChecksumMismatch = zerr.New("archive checksum mismatch")

	// ErrUnsupportedArchive is returned for archive formats the stager cannot unpack.
	ErrUnsupportedArchive = zerr.New("unsupported archive format")

	// ErrPatchFailed is returned when applying a patch fails; the staged tree
	// must be treated as corrupt.
	ErrPatchFailed = zerr.New("patch application failed")
)
