package domain

import (
	"path"
	"strings"

	"go.trai.ch/zerr"
)

// FileID identifies a file inside the workspace by its virtual path. The virtual
// path is slash-separated, rooted at "/" and lexically clean, so equal paths
// always produce equal identifiers.
type FileID struct {
	vpath InternedString
}

// NewFileID builds a FileID from a workspace-relative path. Leading slashes are
// optional. Components that would climb above the root are clamped.
func NewFileID(vpath string) FileID {
	return FileID{vpath: NewInternedString(path.Clean("/" + strings.ReplaceAll(vpath, "\\", "/")))}
}

// VPath returns the rooted virtual path, e.g. "/chapter/intro.txt".
func (f FileID) VPath() string {
	return f.vpath.String()
}

// String implements fmt.Stringer.
func (f FileID) String() string {
	return f.VPath()
}

// IsZero reports whether the identifier was never initialized.
func (f FileID) IsZero() bool {
	return f.vpath.IsZero()
}

// Dir returns the virtual directory containing the file.
func (f FileID) Dir() string {
	return path.Dir(f.VPath())
}

// Join resolves ref against the directory of f. Absolute references are taken
// relative to the workspace root.
func (f FileID) Join(ref string) (FileID, error) {
	if ref == "" {
		return FileID{}, zerr.Wrap(ErrNotFound, "empty path")
	}

	ref = strings.ReplaceAll(ref, "\\", "/")
	base := f.Dir()
	if strings.HasPrefix(ref, "/") {
		base = "/"
	}

	rel := path.Clean(path.Join(strings.TrimPrefix(base, "/"), ref))
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return FileID{}, zerr.With(zerr.Wrap(ErrWorkspaceEscape, "reference leaves the workspace"), "path", ref)
	}

	return NewFileID(rel), nil
}

// MarshalText implements encoding.TextMarshaler.
func (f FileID) MarshalText() ([]byte, error) {
	return []byte(f.VPath()), nil
}
