// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package tree handles hand-authored reference hierarchies.

A tree is written as "dash tree" text, one label per line, the depth given by
a leading run of dashes followed by a space:

	Europe
	- France
	-- Paris

The codec converts this text to an ordered list of [Node] and back; the
merger attaches aggregate totals to each node by case-insensitive label, or
by full ancestor path ("branch") when two leaves share a label.
*/
package tree

// Node is one line of a tree: a label and its 0-based depth.
type Node struct {
	Label string `json:"label"`
	Level int    `json:"level"`
}

// Total is the aggregate of one reference value, as computed by the engine.
type Total struct {
	Value string
	Total int
	First *int
}

// MergedNode is a tree node carrying the totals of its value.
type MergedNode struct {
	Label  string `json:"label"`
	Level  int    `json:"level"`
	Branch string `json:"branch,omitempty"`
	Total  int    `json:"total"`
	First  *int   `json:"first"`
}
