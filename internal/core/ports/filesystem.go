package ports

//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks

// FileSystem is the disk access used by compilation environments and exports.
type FileSystem interface {
	// ReadFile returns the content of the file at an absolute path. Missing
	// files yield domain.ErrNotFound, other failures domain.ErrRead.
	ReadFile(path string) ([]byte, error)
	// WriteFile atomically replaces the file at path.
	WriteFile(path string, data []byte) error
	// IsDir reports whether path is an existing directory.
	IsDir(path string) bool
	// Walk lists regular files below root as slash-separated relative paths,
	// stopping after limit entries.
	Walk(root string, limit int) ([]string, error)
}
