package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local is a Storage rooted at a directory on the local disk
type Local struct {
	maxFileSize int64 // Maximum number of bytes for files
	basePath    string
}

// maxBytesWriter is a writer that fails once more than n bytes are written
type maxBytesWriter struct {
	w io.Writer // underlying writer
	n int64     // max bytes remaining
}

func (l *maxBytesWriter) Write(p []byte) (int, error) {
	if int64(len(p)) > l.n {
		n, err := l.w.Write(p[:l.n])
		l.n -= int64(n)
		if err != nil {
			return n, err
		}
		return n, ErrTooLarge
	}
	n, err := l.w.Write(p)
	l.n -= int64(n)
	return n, err
}

// NewLocal creates a new Local filesystem with the given base path
// basePath is the base directory to save the files to
// maxSize is the max number of bytes that a file can be
func NewLocal(basePath string, maxSize int64) (*Local, error) {
	p, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Local{basePath: p, maxFileSize: maxSize}, nil
}

// Save writes contents to path. The file only becomes visible once it has
// been written completely; an oversized upload leaves nothing behind.
func (l *Local) Save(path string, contents io.Reader) error {
	fp, err := l.fullPath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(fp)

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("unable to create directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, "temp-*")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	writer := &maxBytesWriter{w: tempFile, n: l.maxFileSize}
	if _, err := io.Copy(writer, contents); err != nil {
		tempFile.Close()
		if errors.Is(err, ErrTooLarge) {
			return fmt.Errorf("%w of %d bytes", ErrTooLarge, l.maxFileSize)
		}
		return fmt.Errorf("unable to write to file: %w", err)
	}

	if err = tempFile.Close(); err != nil {
		return fmt.Errorf("unable to close temporary file: %w", err)
	}

	if err := os.Rename(tempPath, fp); err != nil {
		return fmt.Errorf("unable to move temporary file to final location: %w", err)
	}

	return nil
}

// Get opens the file at path. A missing file yields an error wrapping
// fs.ErrNotExist.
func (l *Local) Get(path string) (*os.File, error) {
	fp, err := l.fullPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("unable to open the file: %w", err)
	}

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("unable to open the file: %w", os.ErrNotExist)
	}

	return f, nil
}

// fullPath resolves path under the base path and refuses anything outside it
func (l *Local) fullPath(path string) (string, error) {
	fp := filepath.Join(l.basePath, path)
	if fp != l.basePath && !strings.HasPrefix(fp, l.basePath+string(filepath.Separator)) {
		return "", ErrInvalidName
	}
	return fp, nil
}
