// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides the page arithmetic shared by list queries.
//
// # Overview
//
// Pages are 1-indexed; a page below 1 is the first page.
package pagination

// Params holds a 1-indexed page and its size.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
