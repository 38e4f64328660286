// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialOf(t *testing.T) {
	tests := []struct {
		val  string
		want string
	}{
		{"paris", "P"},
		{"Épinal", "E"},
		{"œuvre", "O"},
		{"Жуковский", "Z"},
		{"1984", "1"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			assert.Equal(t, tt.want, initialOf(tt.val))
		})
	}
}

func TestParseListing(t *testing.T) {
	list := parseListing(`[["Alpha", 9], ["Alpha", 10], ["Beta", "x"], ["Gamma \u001f line", 7], ["Delta"]]`)

	require.Len(t, list, 3)
	assert.Equal(t, ResourceEntry{ID: 9, Title: "Alpha"}, list[0])
	assert.Equal(t, ResourceEntry{ID: 10, Title: "Alpha"}, list[1], "the stored order is kept")
	assert.Equal(t, ResourceEntry{ID: 7, Title: "Gamma \x1f line"}, list[2])

	assert.Nil(t, parseListing(""))
	assert.Nil(t, parseListing("null"))
	assert.Nil(t, parseListing("[]"))
}

func TestShapeRows(t *testing.T) {
	first := 4
	datatype := "literal"
	lang := "fr"
	listing := `[["A", 4], ["B", 9]]`
	raw := []RawRow{{Val: "paris", Total: 2, First: &first, Type: &datatype, Lang: &lang, Listing: &listing}}

	t.Run("flags_off", func(t *testing.T) {
		rows := shapeRows(raw, DefaultOptions())

		require.Len(t, rows, 1)
		assert.Nil(t, rows[0].First)
		assert.Empty(t, rows[0].Type)
		assert.Empty(t, rows[0].Initial)
		assert.Len(t, rows[0].Resources, 2)
	})

	t.Run("flags_on", func(t *testing.T) {
		options := DefaultOptions()
		options.First = true
		options.Initial = true
		options.Datatype = true
		options.Lang = true

		rows := shapeRows(raw, options)

		require.Len(t, rows, 1)
		assert.Equal(t, 4, *rows[0].First)
		assert.Equal(t, "P", rows[0].Initial)
		assert.Equal(t, "literal", rows[0].Type)
		assert.Equal(t, "fr", rows[0].Lang)
	})
}
