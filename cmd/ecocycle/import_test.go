package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/ecocycle/internal/model"
)

func TestReadImportRows(t *testing.T) {
	t.Run("parses rows with header", func(t *testing.T) {
		input := "category,method,quantity\nrecyclables,recycling,1.5\ncompostables,composting,0.25\n"

		rows, err := readImportRows(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.NoError(t, rows[0].err)
		assert.Equal(t, model.CategoryRecyclables, rows[0].category)
		assert.Equal(t, model.MethodRecycling, rows[0].method)
		assert.Equal(t, 1.5, rows[0].quantity)
		assert.Equal(t, model.CategoryCompostables, rows[1].category)
	})

	t.Run("works without header", func(t *testing.T) {
		rows, err := readImportRows(strings.NewReader("generalWaste,landfill,2\n"))

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.NoError(t, rows[0].err)
		assert.Equal(t, model.CategoryGeneralWaste, rows[0].category)
	})

	t.Run("marks invalid rows instead of failing", func(t *testing.T) {
		input := "recyclables,recycling,1.0\nplastic,recycling,1.0\nrecyclables,burn,1.0\nrecyclables,recycling,-3\n"

		rows, err := readImportRows(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.NoError(t, rows[0].err)
		assert.Error(t, rows[1].err)
		assert.Error(t, rows[2].err)
		assert.Error(t, rows[3].err)
	})

	t.Run("empty file", func(t *testing.T) {
		rows, err := readImportRows(strings.NewReader(""))

		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "****", maskKey("abcd"))
	assert.Equal(t, "AIza********7890", maskKey("AIzaSomeKey47890"))
}
