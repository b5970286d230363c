package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

// skippedDirs are never descended into.
var skippedDirs = map[string]struct{}{
	".git":         {},
	".jj":          {},
	"node_modules": {},
}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields the paths of all regular files below root in lexical
// order, skipping version-control directories, hidden entries and anything
// matching one of the ignore patterns.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				return nil
			}
			if path == root {
				return nil
			}

			skipDir, ignored := w.shouldSkip(d, ignores)
			if skipDir {
				return filepath.SkipDir
			}
			if ignored || !d.Type().IsRegular() {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// WalkDirs yields root and every directory below it that WalkFiles would
// descend into.
func (w *Walker) WalkDirs(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil //nolint:nilerr // unreadable entries are skipped
			}
			if path != root {
				if skipDir, _ := w.shouldSkip(d, nil); skipDir {
					return filepath.SkipDir
				}
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// shouldSkip reports whether d is an ignored directory or an ignored file.
func (w *Walker) shouldSkip(d fs.DirEntry, ignores []string) (skipDir, skipFile bool) {
	name := d.Name()

	ignored := strings.HasPrefix(name, ".")
	if _, ok := skippedDirs[name]; ok && d.IsDir() {
		ignored = true
	}
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			ignored = true
		}
	}

	if ignored && d.IsDir() {
		return true, false
	}
	return false, ignored
}
