package loader

import (
	"io/fs"
	"os"
)

// FileReader abstracts template file access so the loader can run
// against the real filesystem or an in-memory set.
type FileReader interface {
	// ReadFile returns the file's bytes. A missing file must be
	// signalled with an error satisfying IsNotFound.
	ReadFile(path string) ([]byte, error)
}

// OSReader reads templates from the local filesystem.
type OSReader struct{}

func (OSReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// MapReader serves templates from memory, keyed by cleaned path.
type MapReader map[string][]byte

func (m MapReader) ReadFile(path string) ([]byte, error) {
	if content, ok := m[path]; ok {
		return content, nil
	}
	return nil, fs.ErrNotExist
}

// IsNotFound reports whether err means the file does not exist.
func IsNotFound(err error) bool {
	return os.IsNotExist(err)
}
