// Package storage adapts a mounted filesystem into the image source the
// frame works with: directory enumeration with an image-name filter and
// whole-file reads sized for single-shot decoding.
package storage

import (
	"errors"
	"io"
	"os"
	"strings"
)

// MaxFiles caps how many images a single directory scan returns.
const MaxFiles = 100

// Image files are matched on suffix, case-sensitively, as FAT preserves
// the case the host wrote.
var extensions = []string{".bmp", ".BMP"}

var (
	ErrNotMounted = errors.New("storage: filesystem not mounted")
	ErrNotFound   = errors.New("storage: file not found")
	ErrIO         = errors.New("storage: i/o error")
)

// ioError tags an underlying filesystem failure as ErrIO while keeping
// the cause reachable through errors.Unwrap.
type ioError struct{ err error }

func (e *ioError) Error() string        { return "storage: i/o error: " + e.err.Error() }
func (e *ioError) Unwrap() error        { return e.err }
func (e *ioError) Is(target error) bool { return target == ErrIO }

func wrapIO(err error) error {
	return &ioError{err: err}
}

// File is the slice of file behavior the frame needs. Directories are
// opened as files and listed with Readdir.
type File interface {
	io.ReadCloser
	Readdir(n int) ([]os.FileInfo, error)
}

// Filesystem is the mounted-card contract.
type Filesystem interface {
	OpenFile(path string, flags int) (File, error)
}

// Store reads images from a mounted filesystem.
type Store struct {
	fs Filesystem
}

func New(fs Filesystem) *Store {
	return &Store{fs: fs}
}

// Enumerate lists image files directly under dir, in directory order,
// capped at MaxFiles. Subdirectories and dot entries are skipped.
func (s *Store) Enumerate(dir string) ([]string, error) {
	if s.fs == nil {
		return nil, ErrNotMounted
	}
	f, err := s.fs.OpenFile(dir, os.O_RDONLY)
	if err != nil {
		return nil, wrapIO(err)
	}
	defer f.Close()

	entries, err := f.Readdir(0)
	if err != nil {
		return nil, wrapIO(err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !imageName(name) {
			continue
		}
		if len(paths) == MaxFiles {
			break
		}
		paths = append(paths, dir+"/"+name)
	}
	return paths, nil
}

// ReadAll returns the whole file contents.
func (s *Store) ReadAll(path string) ([]byte, error) {
	if s.fs == nil {
		return nil, ErrNotMounted
	}
	f, err := s.fs.OpenFile(path, os.O_RDONLY)
	if err != nil {
		return nil, wrapIO(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, wrapIO(err)
	}
	return data, nil
}

// FileSize reports the size of path by looking it up in its parent
// directory listing, as the filesystem exposes no stat call.
func (s *Store) FileSize(path string) (int64, error) {
	if s.fs == nil {
		return 0, ErrNotMounted
	}
	dir, name := splitPath(path)
	f, err := s.fs.OpenFile(dir, os.O_RDONLY)
	if err != nil {
		return 0, wrapIO(err)
	}
	defer f.Close()

	entries, err := f.Readdir(0)
	if err != nil {
		return 0, wrapIO(err)
	}
	for _, e := range entries {
		if e.Name() == name {
			return e.Size(), nil
		}
	}
	return 0, ErrNotFound
}

func imageName(name string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func splitPath(path string) (dir, name string) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "/", path
	}
	if i == 0 {
		return "/", path[1:]
	}
	return path[:i], path[i+1:]
}
