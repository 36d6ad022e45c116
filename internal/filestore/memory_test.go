package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAndMove(t *testing.T) {
	ctx := t.Context()
	store := NewMemory()

	ref, err := store.Store(ctx, []byte("scan bytes"), "scan.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, ref)
	assert.Empty(t, store.Folder(ref))

	require.NoError(t, store.Move(ctx, ref, "deleted-folder"))
	assert.Equal(t, "deleted-folder", store.Folder(ref))

	assert.Error(t, store.Move(ctx, "missing-ref", "deleted-folder"))
}

func TestMemoryRefsAreUnique(t *testing.T) {
	ctx := t.Context()
	store := NewMemory()

	a, err := store.Store(ctx, []byte("a"), "a.pdf")
	require.NoError(t, err)
	b, err := store.Store(ctx, []byte("b"), "b.pdf")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
