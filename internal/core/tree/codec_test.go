// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/references/internal/core/tree"
)

func TestTextToNodes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []tree.Node
	}{
		{
			name: "three_levels",
			text: "Europe\n- France\n-- Paris",
			want: []tree.Node{{"Europe", 0}, {"France", 1}, {"Paris", 2}},
		},
		{
			name: "windows_and_old_mac_line_endings",
			text: "Europe\r\n- France\r-- Paris\r\n",
			want: []tree.Node{{"Europe", 0}, {"France", 1}, {"Paris", 2}},
		},
		{
			name: "blank_lines_and_padding_dropped",
			text: "\n  Europe  \n\n   - France \n\n",
			want: []tree.Node{{"Europe", 0}, {"France", 1}},
		},
		{
			name: "marker_without_space_is_a_root",
			text: "--Paris",
			want: []tree.Node{{"--Paris", 0}},
		},
		{
			name: "mixed_prefix_is_a_root",
			text: "-x- Paris",
			want: []tree.Node{{"-x- Paris", 0}},
		},
		{
			name: "only_first_space_ends_the_marker_run",
			text: "-- Ile  de France",
			want: []tree.Node{{"Ile  de France", 2}},
		},
		{
			name: "empty",
			text: "",
			want: []tree.Node{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tree.TextToNodes(tt.text))
		})
	}
}

func TestNodesToText(t *testing.T) {
	nodes := []tree.Node{{"Europe", 0}, {"France", 1}, {"Paris", 2}, {"Asia", 0}}
	assert.Equal(t, "Europe\n- France\n-- Paris\nAsia", tree.NodesToText(nodes))
}

func TestRoundTrip(t *testing.T) {
	sequences := [][]tree.Node{
		{{"Europe", 0}, {"France", 1}, {"Paris", 2}},
		{{"a", 0}, {"b", 3}, {"c", 1}, {"d", 0}},
		{{"Saint-Denis", 1}, {"l'île", 4}},
		{},
	}

	for _, nodes := range sequences {
		assert.Equal(t, nodes, tree.TextToNodes(tree.NodesToText(nodes)))
	}
}

func TestFlatLevelsToText(t *testing.T) {
	levels := tree.LevelMap{
		Keys:   []string{"Europe", "France", "Paris", "Asia"},
		Levels: map[string]int{"Europe": 0, "France": 1, "Paris": 2, "Asia": 0},
	}
	assert.Equal(t, "Europe\n- France\n-- Paris\nAsia", tree.FlatLevelsToText(levels))
}
