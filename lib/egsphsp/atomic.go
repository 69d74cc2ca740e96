package egsphsp

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// File is an output file that is either written directly or written to a
// temporary sibling and renamed into place by Commit.
type File struct {
	*os.File
	path string // final destination
	tmp  string // temporary name, empty for direct writes
	done bool
}

// CreateFile creates (or truncates) path and writes to it directly.
func CreateFile(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, IOError("create", path, err)
	}
	return &File{File: f, path: path}, nil
}

// CreateTemp creates a uniquely named temporary file next to path. path
// itself isn't touched until Commit.
func CreateTemp(path string) (*File, error) {
	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, IOError("create", path, err)
	}
	return &File{File: f, path: path, tmp: tmp}, nil
}

// Path returns the final destination of the file.
func (f *File) Path() string { return f.path }

// Commit syncs and closes the file, then renames temporary files over their
// destination. On failure the temporary file is removed.
func (f *File) Commit() error {
	if f.done {
		return ValidationErrorf("%s was already committed or discarded",
			f.path)
	}
	f.done = true

	if err := f.File.Sync(); err != nil {
		f.File.Close()
		f.remove()
		return IOError("sync", f.path, err)
	}
	if err := f.File.Close(); err != nil {
		f.remove()
		return IOError("close", f.path, err)
	}
	if f.tmp != "" {
		if err := os.Rename(f.tmp, f.path); err != nil {
			f.remove()
			return IOError("rename", f.path, err)
		}
	}
	return nil
}

// Discard closes and removes the file. It does nothing after Commit, so it
// can be deferred right after creation.
func (f *File) Discard() {
	if f.done {
		return
	}
	f.done = true
	f.File.Close()
	f.remove()
}

func (f *File) remove() {
	if f.tmp != "" {
		os.Remove(f.tmp)
	} else {
		os.Remove(f.path)
	}
}
