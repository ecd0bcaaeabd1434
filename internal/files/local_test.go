package files

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocal(t *testing.T, max int64) (*Local, string) {
	t.Helper()
	dir := t.TempDir()
	l, err := NewLocal(dir, max)
	require.NoError(t, err)
	return l, dir
}

func TestSaveAndGet(t *testing.T) {
	l, dir := setupLocal(t, 1024)

	require.NoError(t, l.Save(filepath.Join("p1", "front.png"), strings.NewReader("hello")))

	data, err := os.ReadFile(filepath.Join(dir, "p1", "front.png"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	f, err := l.Get(filepath.Join("p1", "front.png"))
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestSaveExactlyAtLimit(t *testing.T) {
	l, _ := setupLocal(t, 8)
	assert.NoError(t, l.Save("p1/a.bin", bytes.NewReader(make([]byte, 8))))
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	l, dir := setupLocal(t, 8)

	err := l.Save("p1/big.bin", bytes.NewReader(make([]byte, 9)))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(filepath.Join(dir, "p1"))
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial or temporary file may remain")
}

func TestGetMissingFile(t *testing.T) {
	l, _ := setupLocal(t, 8)

	_, err := l.Get("p1/none.png")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, l.Save("p1/a.png", strings.NewReader("x")))
	_, err = l.Get("p1")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestPathsCannotEscapeBase(t *testing.T) {
	l, _ := setupLocal(t, 8)

	assert.ErrorIs(t, l.Save("../outside.txt", strings.NewReader("x")), ErrInvalidName)
	_, err := l.Get("../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestCleanName(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
		valid bool
	}{
		{"plain", "front.png", "front.png", true},
		{"unix path", "a/b/front.png", "front.png", true},
		{"windows path", `C:\pics\front.png`, "front.png", true},
		{"traversal", "../../front.png", "front.png", true},
		{"dot dot only", "..", "", false},
		{"empty", "", "", false},
		{"temp prefix", "temp-123", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CleanName(tc.input)
			if !tc.valid {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
