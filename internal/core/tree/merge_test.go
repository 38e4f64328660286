// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/references/internal/core/tree"
)

func intPtr(v int) *int { return &v }

func TestMerge_ByLabel(t *testing.T) {
	nodes := tree.TextToNodes("Europe\n- France\n-- Paris")
	totals := []tree.Total{
		{Value: "Europe", Total: 0},
		{Value: "France", Total: 0},
		{Value: "Paris", Total: 2, First: intPtr(7)},
	}

	merged := tree.Merge(nodes, totals, false)

	require.Len(t, merged, 3)
	assert.Equal(t, tree.MergedNode{Label: "Europe", Level: 0}, merged[0])
	assert.Equal(t, tree.MergedNode{Label: "France", Level: 1}, merged[1])
	assert.Equal(t, tree.MergedNode{Label: "Paris", Level: 2, Total: 2, First: intPtr(7)}, merged[2])
}

func TestMerge_CaseInsensitive(t *testing.T) {
	nodes := []tree.Node{{"ÉTÉ", 0}, {"paris", 0}}
	totals := []tree.Total{
		{Value: "été", Total: 4},
		{Value: "Paris", Total: 1},
		{Value: "PARIS", Total: 3},
	}

	merged := tree.Merge(nodes, totals, false)

	assert.Equal(t, 4, merged[0].Total)
	assert.Equal(t, "ÉTÉ", merged[0].Label)
	// Last write wins among case variants.
	assert.Equal(t, 3, merged[1].Total)
}

func TestMerge_MissingValue(t *testing.T) {
	merged := tree.Merge([]tree.Node{{"Nowhere", 1}}, nil, false)

	require.Len(t, merged, 1)
	assert.Equal(t, 0, merged[0].Total)
	assert.Nil(t, merged[0].First)
	assert.Equal(t, 1, merged[0].Level)
}

func TestMerge_BranchDisambiguation(t *testing.T) {
	nodes := tree.TextToNodes("France\n- Paris\nUSA\n- Texas\n-- Paris")
	totals := []tree.Total{
		{Value: "france :: paris", Total: 5},
		{Value: "USA :: Texas :: Paris", Total: 1},
	}

	merged := tree.Merge(nodes, totals, true)

	require.Len(t, merged, 5)
	assert.Equal(t, "France :: Paris", merged[1].Branch)
	assert.Equal(t, 5, merged[1].Total)
	assert.Equal(t, "USA :: Texas :: Paris", merged[4].Branch)
	assert.Equal(t, 1, merged[4].Total)
	assert.Equal(t, "Paris", merged[4].Label)
}

func TestBranches_GapSkipped(t *testing.T) {
	nodes := []tree.Node{{"Root", 0}, {"Deep", 2}}
	assert.Equal(t, []string{"Root", "Root :: Deep"}, tree.Branches(nodes))
}
