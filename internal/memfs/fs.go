// Package memfs provides a flat in-memory filesystem for rendered migration files.
package memfs

import (
	"io/fs"
	"sort"
	"strings"
)

// FS is a flat, read-only (after population) in-memory filesystem.
// It satisfies fs.FS, fs.ReadDirFS and fs.ReadFileFS so it can back
// golang-migrate's iofs source.
type FS struct {
	files map[string][]byte
}

// NewFS creates a new in-memory filesystem.
func NewFS() *FS {
	return &FS{
		files: make(map[string][]byte),
	}
}

// WriteFile adds or replaces a file.
func (f *FS) WriteFile(name string, content []byte) {
	f.files[name] = append([]byte(nil), content...)
}

// Len returns the number of files held.
func (f *FS) Len() int {
	return len(f.files)
}

// Open opens a file or the root directory.
func (f *FS) Open(name string) (fs.File, error) {
	name = strings.TrimPrefix(name, "/")

	if name == "." || name == "" {
		return &dir{entries: f.entries()}, nil
	}

	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	content, ok := f.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	return &file{name: name, content: content}, nil
}

// ReadFile returns a copy of the named file's content.
func (f *FS) ReadFile(name string) ([]byte, error) {
	content, ok := f.files[strings.TrimPrefix(name, "/")]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}

	return append([]byte(nil), content...), nil
}

// ReadDir lists the root directory sorted by name.
func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name != "." && name != "" && name != "/" {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	return f.entries(), nil
}

func (f *FS) entries() []fs.DirEntry {
	names := make([]string, 0, len(f.files))
	for name := range f.files {
		names = append(names, name)
	}

	sort.Strings(names)

	entries := make([]fs.DirEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, &dirEntry{
			info: &fileInfo{name: name, size: int64(len(f.files[name]))},
		})
	}

	return entries
}

var (
	_ fs.ReadDirFS  = (*FS)(nil)
	_ fs.ReadFileFS = (*FS)(nil)
)
