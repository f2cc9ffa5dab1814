package domain

// BuildResult describes the artifacts of a successful build: the static
// library, its public headers, and the include roots downstream consumers
// compile against.
type BuildResult struct {
	Library     string
	Headers     []string
	IncludeDirs []string
}

// ArchivableResult is one output file as seen by the packaging collaborator:
// the absolute path on disk and the path it should occupy inside an archive.
type ArchivableResult struct {
	Path        string
	ArchivePath string
}
