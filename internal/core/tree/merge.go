// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tree

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/references/internal/platform/constants"
)

/*
Merge attaches aggregate totals to tree nodes by case-insensitive key.

The key of a node is its label, or in branch mode the labels of its ancestors
and itself joined by [constants.BranchSeparator]. Nodes without a matching
total get {Total: 0, First: nil}; order, level and label are kept as given.

Parameters:
  - nodes: The ordered tree, ancestors before descendants.
  - totals: Aggregated values. On case-insensitive duplicates the last one wins.
  - branch: Match on the full ancestor path instead of the bare label.

Returns:
  - []MergedNode: One entry per input node, in input order.
*/
func Merge(nodes []Node, totals []Total, branch bool) []MergedNode {
	lower := cases.Lower(language.Und)

	byKey := make(map[string]Total, len(totals))
	for _, total := range totals {
		byKey[lower.String(total.Value)] = total
	}

	var branches []string
	if branch {
		branches = Branches(nodes)
	}

	merged := make([]MergedNode, 0, len(nodes))
	for i, node := range nodes {
		item := MergedNode{Label: node.Label, Level: node.Level}

		key := node.Label
		if branch {
			item.Branch = branches[i]
			key = branches[i]
		}

		if total, ok := byKey[lower.String(key)]; ok {
			item.Total = total.Total
			item.First = total.First
		}
		merged = append(merged, item)
	}
	return merged
}

// Branches returns the ancestor path of every node.
//
// The most recent label seen at each level is kept in a rolling table that
// is overwritten as the walk proceeds. A level that has no label yet is
// skipped.
func Branches(nodes []Node) []string {
	latest := map[int]string{}
	branches := make([]string, 0, len(nodes))

	for _, node := range nodes {
		latest[node.Level] = node.Label

		segments := make([]string, 0, node.Level+1)
		for level := 0; level < node.Level; level++ {
			if label, ok := latest[level]; ok {
				segments = append(segments, label)
			}
		}
		segments = append(segments, node.Label)
		branches = append(branches, strings.Join(segments, constants.BranchSeparator))
	}
	return branches
}
