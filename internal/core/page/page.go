// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package page serves the reference pages configured in a YAML file.

A page names the fields to aggregate, the search query and options of the
aggregation and, optionally, a hand-authored tree whose nodes receive the
totals of the first field. The file is loaded at startup and may be watched
for changes; a broken edit keeps the previous catalog in place.

	pages:
	  - slug: subjects
	    title: Subjects
	    fields: [dcterms:subject]
	    options:
	      sort_by: total
	      sort_order: desc
	    tree: |
	      Europe
	      - France
	      -- Paris
	    branch: true
*/
package page

import (
	"github.com/taibuivan/references/internal/core/reference"
	"github.com/taibuivan/references/internal/core/tree"
)

// # Domain Models

// Page is one validated reference page.
type Page struct {
	Slug     string
	Title    string
	Resource string
	Fields   []string
	Query    reference.Query
	Options  reference.Options

	// Tree is empty for a flat page.
	Tree []tree.Node

	// Branch keys the tree totals by full ancestor path.
	Branch bool
}

// HasTree reports whether the page renders a tree.
func (page Page) HasTree() bool {
	return len(page.Tree) > 0
}

// Summary is the listing entry of a page.
type Summary struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Resource string   `json:"resource"`
	Fields   []string `json:"fields"`
	Tree     bool     `json:"tree"`
}

// Rendered is a page with its computed references.
type Rendered struct {
	Slug       string            `json:"slug"`
	Title      string            `json:"title"`
	Resource   string            `json:"resource"`
	References reference.Results `json:"references"`
	Tree       []tree.MergedNode `json:"tree,omitempty"`
}

// Catalog is an immutable set of pages, in file order.
type Catalog struct {
	pages  []Page
	bySlug map[string]int
}

// NewCatalog indexes pages by slug. Slugs must be unique.
func NewCatalog(pages []Page) *Catalog {
	catalog := &Catalog{pages: pages, bySlug: make(map[string]int, len(pages))}
	for i, page := range pages {
		catalog.bySlug[page.Slug] = i
	}
	return catalog
}

// Pages returns every page in file order.
func (catalog *Catalog) Pages() []Page {
	return catalog.pages
}

// Page looks a page up by slug.
func (catalog *Catalog) Page(slug string) (Page, bool) {
	index, ok := catalog.bySlug[slug]
	if !ok {
		return Page{}, false
	}
	return catalog.pages[index], true
}
