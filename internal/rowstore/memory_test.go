package rowstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKeyedOperations(t *testing.T) {
	ctx := t.Context()
	store := NewMemory("ID")

	_, err := store.FindRow(ctx, "A")
	assert.ErrorIs(t, err, ErrRowNotFound)

	require.NoError(t, store.AppendRow(ctx, Row{"ID": "A", "Subject": "first"}))
	require.NoError(t, store.AppendRow(ctx, Row{"ID": "B", "Subject": "second"}))

	row, err := store.FindRow(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "second", row["Subject"])

	require.NoError(t, store.ReplaceRow(ctx, "A", Row{"ID": "A", "Subject": "replaced"}))
	row, err = store.FindRow(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "replaced", row["Subject"])

	assert.ErrorIs(t, store.ReplaceRow(ctx, "Z", Row{"ID": "Z"}), ErrRowNotFound)
	assert.ErrorIs(t, store.DeleteRow(ctx, "Z"), ErrRowNotFound)

	require.NoError(t, store.DeleteRow(ctx, "A"))
	_, err = store.FindRow(ctx, "A")
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestMemoryScanOrderAndKeyColumn(t *testing.T) {
	ctx := t.Context()
	store := NewMemory("ID")

	for _, id := range []string{"C", "A", "B"} {
		require.NoError(t, store.AppendRow(ctx, Row{"ID": id}))
	}

	keys, err := store.ListKeyColumn(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, keys, "scan order is insertion order, never sorted")

	rows, err := store.ListRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "C", rows[0]["ID"])
}

func TestMemoryEnforcesNoUniqueness(t *testing.T) {
	ctx := t.Context()
	store := NewMemory("ID")

	require.NoError(t, store.AppendRow(ctx, Row{"ID": "A", "Subject": "first"}))
	require.NoError(t, store.AppendRow(ctx, Row{"ID": "A", "Subject": "second"}))

	rows, err := store.ListRows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2, "duplicate keys are the caller's problem")

	// Keyed lookups resolve to the first match in scan order.
	row, err := store.FindRow(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "first", row["Subject"])
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := t.Context()
	store := NewMemory("ID")
	require.NoError(t, store.AppendRow(ctx, Row{"ID": "A", "Subject": "original"}))

	row, err := store.FindRow(ctx, "A")
	require.NoError(t, err)
	row["Subject"] = "mutated"

	again, err := store.FindRow(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "original", again["Subject"], "callers cannot mutate stored rows in place")
}
