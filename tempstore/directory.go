package tempstore

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Directory is a scratch directory that tracks the files created in it.
// It is safe for concurrent use.
type Directory struct {
	path string

	mu    sync.Mutex
	files []*File
}

// NewDirectory returns a Directory rooted at path. Nothing is created on
// disk until the first file is stored.
func NewDirectory(path string) *Directory {
	return &Directory{path: path}
}

// Path returns the directory location.
func (d *Directory) Path() string {
	return d.path
}

// Name returns the last element of the directory path.
func (d *Directory) Name() string {
	return filepath.Base(d.path)
}

// CreateFile stores content under a name generated from originalName and
// returns a handle to it. The file is created exclusively; an existing file
// with the same generated name is reported as an error rather than
// overwritten.
func (d *Directory) CreateFile(originalName string, content []byte) (*File, error) {
	if err := os.MkdirAll(d.path, 0o750); err != nil {
		return nil, errors.Wrapf(err, "tempstore: create directory %s", d.path)
	}

	name := GenerateName(originalName)
	path := filepath.Join(d.path, name)

	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, errors.Wrapf(err, "tempstore: create file %s", name)
	}

	if _, err := fd.Write(content); err != nil {
		fd.Close()
		os.Remove(path)
		return nil, errors.Wrapf(err, "tempstore: write file %s", name)
	}

	if err := fd.Close(); err != nil {
		return nil, errors.Wrapf(err, "tempstore: close file %s", name)
	}

	f := &File{
		dir:          d.path,
		name:         name,
		originalName: originalName,
	}
	f.setSize(int64(len(content)))

	d.mu.Lock()
	d.files = append(d.files, f)
	d.mu.Unlock()

	return f, nil
}

// File returns the tracked file with the given generated name.
func (d *Directory) File(name string) (*File, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, f := range d.files {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

// Files returns a snapshot of the tracked files in creation order.
func (d *Directory) Files() []*File {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*File, len(d.files))
	copy(out, d.files)
	return out
}

// Remove deletes a file from disk and stops tracking it.
func (d *Directory) Remove(f *File) error {
	if err := f.Remove(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i, tracked := range d.files {
		if tracked == f {
			d.files = append(d.files[:i], d.files[i+1:]...)
			break
		}
	}
	return nil
}

// Delete removes the directory and everything in it, and forgets the
// tracked files. Deleting a directory that does not exist is not an error.
func (d *Directory) Delete() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.RemoveAll(d.path); err != nil {
		return errors.Wrapf(err, "tempstore: delete directory %s", d.path)
	}

	d.files = nil
	return nil
}
