package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestFileStoreCreatesEmptyDocuments(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	_, err := NewFileProductRepository(dir)
	require.NoError(t, err)
	_, err = NewFileCartRepository(dir)
	require.NoError(t, err)

	for _, name := range []string{ProductsFile, CartsFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(data))
	}
}

func TestFileStorePersistedLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	products, err := NewFileProductRepository(dir)
	require.NoError(t, err)
	p := newProduct("KB-1", "keyboards", 99.5)
	require.NoError(t, products.Add(ctx, p))

	carts, err := NewFileCartRepository(dir)
	require.NoError(t, err)
	cart, err := carts.Create(ctx)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, cart.ID, p.ID, 2)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ProductsFile))
	require.NoError(t, err)
	var stored []map[string]any
	require.NoError(t, json.Unmarshal(data, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, p.ID, stored[0]["id"])
	assert.Equal(t, "KB-1", stored[0]["code"])
	assert.Equal(t, []any{}, stored[0]["thumbnails"])

	data, err = os.ReadFile(filepath.Join(dir, CartsFile))
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":"`+cart.ID+`","products":[{"product":"`+p.ID+`","quantity":2}]}]`,
		string(data))

	// a second store over the same directory sees the same data
	reopened, err := NewFileProductRepository(dir)
	require.NoError(t, err)
	got, err := reopened.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestFileStoreRecreatesDeletedDocument(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	products, err := NewFileProductRepository(dir)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, ProductsFile)))

	all, err := products.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// reads leave the missing document alone
	_, err = os.Stat(filepath.Join(dir, ProductsFile))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	p := newProduct("A-1", "mice", 1)
	require.NoError(t, products.Add(ctx, p))
	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestFileStoreConcurrentReadsOfMissingDocument(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	carts, err := NewFileCartRepository(dir)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, CartsFile)))

	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			_, err := carts.GetByID(ctx, "missing")
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	matches, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	products, err := NewFileProductRepository(dir)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, products.Add(ctx, newProduct(string(rune('A'+i)), "x", 1)))
	}

	matches, err := filepath.Glob(filepath.Join(dir, "temp-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
