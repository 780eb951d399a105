package filetree

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"
)

// ErrOutsideTree is returned for paths that escape the tree root
var ErrOutsideTree = errors.New("path escapes the project tree")

// Tree is a read-only view over a rooted directory hierarchy.
// All paths are "/" separated and relative to the root.
type Tree interface {
	// FindRelativeFile joins segments below the root and returns the
	// cleaned path if a regular file exists there.
	FindRelativeFile(segments ...string) (string, bool)

	// Exists reports whether a file or directory exists at rel.
	Exists(rel string) bool

	// IsDir reports whether rel is an existing directory.
	IsDir(rel string) bool

	// ReadFile returns the content of the file at rel.
	ReadFile(rel string) ([]byte, error)

	// Stat returns file information for rel.
	Stat(rel string) (fs.FileInfo, error)

	// Walk visits every entry below rel in lexical order.
	Walk(rel string, fn fs.WalkDirFunc) error

	// Root describes where the tree is rooted, for display and storage keys.
	Root() string
}

// FSTree implements Tree over an fs.FS
type FSTree struct {
	fsys fs.FS
	root string
}

// New creates a tree over fsys. root is informational.
func New(fsys fs.FS, root string) *FSTree {
	return &FSTree{fsys: fsys, root: root}
}

// NewOS creates a tree rooted at an operating system directory
func NewOS(dir string) *FSTree {
	return New(os.DirFS(dir), dir)
}

// Root returns the tree root description
func (t *FSTree) Root() string {
	return t.root
}

// FindRelativeFile returns the path of a regular file addressed by segments
func (t *FSTree) FindRelativeFile(segments ...string) (string, bool) {
	rel, err := Clean(path.Join(segments...))
	if err != nil || rel == "." {
		return "", false
	}

	info, err := fs.Stat(t.fsys, rel)
	if err != nil || info.IsDir() {
		return "", false
	}
	return rel, true
}

// Exists reports whether rel exists
func (t *FSTree) Exists(rel string) bool {
	_, err := t.Stat(rel)
	return err == nil
}

// IsDir reports whether rel is a directory
func (t *FSTree) IsDir(rel string) bool {
	info, err := t.Stat(rel)
	return err == nil && info.IsDir()
}

// ReadFile reads the file at rel
func (t *FSTree) ReadFile(rel string) ([]byte, error) {
	clean, err := Clean(rel)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(t.fsys, clean)
}

// Stat returns file info for rel
func (t *FSTree) Stat(rel string) (fs.FileInfo, error) {
	clean, err := Clean(rel)
	if err != nil {
		return nil, err
	}
	return fs.Stat(t.fsys, clean)
}

// Walk walks the tree below rel
func (t *FSTree) Walk(rel string, fn fs.WalkDirFunc) error {
	clean, err := Clean(rel)
	if err != nil {
		return err
	}
	return fs.WalkDir(t.fsys, clean, fn)
}

// Clean normalizes rel into an fs.FS compatible path.
// Backslashes are treated as separators and leading slashes are dropped.
// The empty path is the root ".".
func Clean(rel string) (string, error) {
	rel = strings.ReplaceAll(rel, "\\", "/")
	rel = strings.TrimLeft(rel, "/")
	if rel == "" {
		return ".", nil
	}

	clean := path.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrOutsideTree
	}
	return clean, nil
}

// Join joins segments into a cleaned tree path, dropping empty segments
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" && s != "." {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "."
	}
	return path.Join(parts...)
}

// skippedDirs are never descended into when discovering project files
var skippedDirs = map[string]bool{
	"node_modules": true,
	"var":          true,
	"cache":        true,
}

// SkipDir reports whether a directory named name should be skipped during
// discovery. Hidden directories are always skipped.
func SkipDir(name string) bool {
	if name != "." && strings.HasPrefix(name, ".") {
		return true
	}
	return skippedDirs[name]
}
