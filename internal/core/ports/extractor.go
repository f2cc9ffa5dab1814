package ports

// Extractor stages a vendored source archive into a working directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type Extractor interface {
	// Extract fully unpacks the archive under dest, creating it as needed.
	// There is no partial-state recovery: on failure the caller must clean.
	Extract(archive, dest string) error

	// Verify checks the archive against a "<algo>:<hex>" digest.
	// An empty digest disables the check.
	Verify(archive, digest string) error
}
