package rowstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHeader(t *testing.T) {
	schema := []string{"ID", "Date", "Type"}

	t.Run("matching header passes", func(t *testing.T) {
		require.NoError(t, validateHeader("Documents", schema, []string{"ID", "Date", "Type"}))
	})

	t.Run("missing column fails", func(t *testing.T) {
		err := validateHeader("Documents", schema, []string{"ID", "Date"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 header columns")
	})

	t.Run("extra column fails", func(t *testing.T) {
		err := validateHeader("Documents", schema, []string{"ID", "Date", "Type", "Extra"})
		assert.Error(t, err)
	})

	t.Run("renamed column names the drift", func(t *testing.T) {
		err := validateHeader("Documents", schema, []string{"ID", "Day", "Type"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `column 2 is "Day"`)
	})

	t.Run("reordered columns fail", func(t *testing.T) {
		// Same set, wrong order: cells would land under the wrong names.
		err := validateHeader("Documents", schema, []string{"Date", "ID", "Type"})
		assert.Error(t, err)
	})
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", columnLetter(1))
	assert.Equal(t, "L", columnLetter(12))
	assert.Equal(t, "N", columnLetter(14))
	assert.Equal(t, "Z", columnLetter(26))
	assert.Equal(t, "AA", columnLetter(27))
}
