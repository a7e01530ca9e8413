package tempstore

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// File is a handle to a file on disk. The size is read once and cached.
type File struct {
	dir          string
	name         string
	originalName string

	sizeOnce sync.Once
	size     int64
	sizeErr  error
}

// Open returns a handle to an existing regular file.
func Open(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "tempstore: open %s", path)
	}
	if info.IsDir() {
		return nil, errors.Errorf("tempstore: open %s: is a directory", path)
	}

	f := &File{
		dir:          filepath.Dir(path),
		name:         info.Name(),
		originalName: info.Name(),
	}
	f.setSize(info.Size())

	return f, nil
}

// Name returns the name of the file on disk.
func (f *File) Name() string {
	return f.name
}

// OriginalName returns the name the file was uploaded with.
func (f *File) OriginalName() string {
	return f.originalName
}

// Path returns the absolute location of the file when the directory was
// given as an absolute path.
func (f *File) Path() string {
	return filepath.Join(f.dir, f.name)
}

// Ext returns the file extension without the leading dot.
func (f *File) Ext() string {
	return strings.TrimPrefix(filepath.Ext(f.name), ".")
}

// Exists reports whether the file is still present on disk.
func (f *File) Exists() bool {
	_, err := os.Stat(f.Path())
	return err == nil
}

// Remove deletes the file from disk. Removing a file that is already gone
// is not an error.
func (f *File) Remove() error {
	if err := os.Remove(f.Path()); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "tempstore: remove %s", f.name)
	}
	return nil
}

// Read returns the whole file content.
func (f *File) Read() ([]byte, error) {
	b, err := os.ReadFile(f.Path())
	if err != nil {
		return nil, errors.Wrapf(err, "tempstore: read %s", f.name)
	}
	return b, nil
}

// Size returns the size of the file in bytes.
func (f *File) Size() (int64, error) {
	f.sizeOnce.Do(func() {
		info, err := os.Stat(f.Path())
		if err != nil {
			f.sizeErr = errors.Wrapf(err, "tempstore: stat %s", f.name)
			return
		}
		f.size = info.Size()
	})
	return f.size, f.sizeErr
}

// SpanSize returns the number of bytes in the inclusive interval
// [start, end]. A negative start means from the beginning and a negative
// end means to the end of the file.
func (f *File) SpanSize(start, end int64) (int64, error) {
	size, err := f.Size()
	if err != nil {
		return 0, err
	}

	switch {
	case start < 0 && end < 0:
		return size, nil
	case end < 0:
		return size - start, nil
	case start < 0:
		return end + 1, nil
	default:
		return end - start + 1, nil
	}
}

// StreamTo copies the inclusive interval [start, end] of the file to w and
// returns the number of bytes written.
func (f *File) StreamTo(w io.Writer, start, end int64) (int64, error) {
	fd, err := os.Open(f.Path())
	if err != nil {
		return 0, errors.Wrapf(err, "tempstore: open %s", f.name)
	}
	defer fd.Close()

	n, err := io.Copy(w, io.NewSectionReader(fd, start, end-start+1))
	if err != nil {
		return n, errors.Wrapf(err, "tempstore: stream %s", f.name)
	}
	return n, nil
}

func (f *File) setSize(size int64) {
	f.sizeOnce.Do(func() {
		f.size = size
	})
}
