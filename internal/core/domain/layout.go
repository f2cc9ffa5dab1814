package domain

const (
	// DirPerm is the default permission for created directories (rwxr-xr-x).
	DirPerm = 0o755

	// FilePerm is the default permission for created files (rw-r--r--).
	FilePerm = 0o644
)
