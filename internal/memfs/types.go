package memfs

import (
	"errors"
	"io"
	"io/fs"
	"time"
)

var errIsDirectory = errors.New("is a directory")

type file struct {
	name    string
	content []byte
	offset  int
}

func (f *file) Stat() (fs.FileInfo, error) {
	return &fileInfo{name: f.name, size: int64(len(f.content))}, nil
}

func (f *file) Read(p []byte) (int, error) {
	if f.offset >= len(f.content) {
		return 0, io.EOF
	}

	n := copy(p, f.content[f.offset:])
	f.offset += n

	return n, nil
}

func (f *file) Close() error {
	return nil
}

type dir struct {
	entries []fs.DirEntry
	offset  int
}

func (d *dir) Stat() (fs.FileInfo, error) {
	return &fileInfo{name: ".", isDir: true}, nil
}

func (d *dir) Read(_ []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: ".", Err: errIsDirectory}
}

func (d *dir) Close() error {
	return nil
}

// ReadDir follows the fs.ReadDirFile contract: n <= 0 returns everything left,
// n > 0 returns io.EOF once exhausted.
func (d *dir) ReadDir(n int) ([]fs.DirEntry, error) {
	remaining := d.entries[d.offset:]

	if n <= 0 {
		d.offset = len(d.entries)
		return remaining, nil
	}

	if len(remaining) == 0 {
		return nil, io.EOF
	}

	if n > len(remaining) {
		n = len(remaining)
	}

	d.offset += n

	return remaining[:n], nil
}

type fileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (i *fileInfo) Name() string { return i.name }

func (i *fileInfo) Size() int64 { return i.size }

func (i *fileInfo) Mode() fs.FileMode {
	if i.isDir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}

func (i *fileInfo) ModTime() time.Time { return time.Time{} }

func (i *fileInfo) IsDir() bool { return i.isDir }

func (i *fileInfo) Sys() any { return nil }

type dirEntry struct {
	info *fileInfo
}

func (e *dirEntry) Name() string { return e.info.name }

func (e *dirEntry) IsDir() bool { return e.info.isDir }

func (e *dirEntry) Type() fs.FileMode { return e.info.Mode().Type() }

func (e *dirEntry) Info() (fs.FileInfo, error) { return e.info, nil }

var (
	_ fs.ReadDirFile = (*dir)(nil)
	_ fs.File        = (*file)(nil)
)
