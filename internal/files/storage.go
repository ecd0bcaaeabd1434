package files

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrTooLarge is returned by Save when the contents exceed the size limit
var ErrTooLarge = errors.New("file exceeds the maximum allowed size")

// ErrInvalidName is returned for file names that would escape their directory
var ErrInvalidName = errors.New("invalid file name")

// Storage defines the behavior for file operations.
// Local is the only implementation so far.
type Storage interface {
	Save(path string, file io.Reader) error
	Get(path string) (*os.File, error)
}

// CleanName reduces an uploaded file name to its base name and rejects names
// that cannot be stored safely
func CleanName(name string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, "\\", "/")))
	if base == "/" || base == "." || base == ".." || strings.HasPrefix(base, "temp-") {
		return "", ErrInvalidName
	}
	return base, nil
}
