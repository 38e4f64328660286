// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tree

import (
	"strings"

	"github.com/taibuivan/references/internal/platform/constants"
)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// TextToNodes parses dash tree text.
//
// Line endings are normalized, lines trimmed and empty lines dropped. The
// dashes before the first space give the level; a line without that prefix
// is a root.
func TextToNodes(text string) []Node {
	lines := strings.Split(lineEndings.Replace(text), "\n")

	nodes := make([]Node, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		nodes = append(nodes, parseLine(line))
	}
	return nodes
}

func parseLine(line string) Node {
	marker := string(constants.TreeMarker)

	prefix, rest, found := strings.Cut(line, " ")
	if !found || prefix == "" || strings.Trim(prefix, marker) != "" {
		return Node{Label: line, Level: 0}
	}

	label := strings.TrimSpace(rest)
	if label == "" {
		return Node{Label: line, Level: 0}
	}
	return Node{Label: label, Level: len(prefix)}
}

// NodesToText renders nodes as dash tree text.
func NodesToText(nodes []Node) string {
	lines := make([]string, 0, len(nodes))
	for _, node := range nodes {
		lines = append(lines, formatLine(node.Label, node.Level))
	}
	return strings.Join(lines, "\n")
}

// LevelMap is the legacy label→level format. Keys keeps the authored order,
// which a Go map cannot.
type LevelMap struct {
	Keys   []string
	Levels map[string]int
}

// FlatLevelsToText renders a legacy level map as dash tree text, in key order.
func FlatLevelsToText(levels LevelMap) string {
	lines := make([]string, 0, len(levels.Keys))
	for _, label := range levels.Keys {
		lines = append(lines, formatLine(label, levels.Levels[label]))
	}
	return strings.Join(lines, "\n")
}

func formatLine(label string, level int) string {
	if level <= 0 {
		return label
	}
	return strings.Repeat(string(constants.TreeMarker), level) + " " + label
}
