package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// jsonFile is a JSON array document on disk. It is read in full for every
// operation and rewritten in full for every mutation; callers serialize
// access to it.
type jsonFile[T any] struct {
	path string
}

func newJSONFile[T any](dir, name string) (*jsonFile[T], error) {
	p, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}

	f := &jsonFile[T]{path: p}
	if err := f.ensure(); err != nil {
		return nil, err
	}
	return f, nil
}

// ensure creates the document as an empty array if it does not exist yet
func (f *jsonFile[T]) ensure() error {
	_, err := os.Stat(f.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to stat %s: %w", f.path, err)
	}
	return f.write([]T{})
}

// read loads the document. A missing document reads as empty; it is only
// recreated by the next write, so readers never touch the disk.
func (f *jsonFile[T]) read() ([]T, error) {
	items := []T{}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return items, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", f.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", f.path, err)
	}
	return items, nil
}

// write replaces the document atomically: the new contents go to a
// temporary file in the same directory which is then renamed over the
// old one.
func (f *jsonFile[T]) write(items []T) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("unable to create directory: %w", err)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode %s: %w", f.path, err)
	}

	tempFile, err := os.CreateTemp(dir, "temp-*")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	tempPath := tempFile.Name()
	// no-op once the rename succeeded
	defer os.Remove(tempPath)

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("unable to write to file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("unable to close temporary file: %w", err)
	}

	if err := os.Rename(tempPath, f.path); err != nil {
		return fmt.Errorf("unable to move temporary file to final location: %w", err)
	}

	return nil
}
