// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"context"

	"github.com/taibuivan/references/internal/core/reference"
	"github.com/taibuivan/references/internal/core/tree"
	"github.com/taibuivan/references/internal/platform/apperr"
	"github.com/taibuivan/references/pkg/slice"
)

// # Service Layer

// Source provides the current catalog; [Registry] implements it.
type Source interface {
	Catalog() *Catalog
}

// Lister computes references; [reference.Service] implements it.
type Lister interface {
	List(ctx context.Context, keys []string, query reference.Query, options reference.Options) (reference.Results, error)
}

// Service renders reference pages.
type Service struct {
	source     Source
	references Lister
}

// NewService constructs a new page [Service].
func NewService(source Source, references Lister) *Service {
	return &Service{source: source, references: references}
}

// List returns the summary of every page.
func (service *Service) List() []Summary {
	pages := service.source.Catalog().Pages()

	summaries := make([]Summary, 0, len(pages))
	for _, page := range pages {
		summaries = append(summaries, Summary{
			Slug:     page.Slug,
			Title:    page.Title,
			Resource: page.Resource,
			Fields:   page.Fields,
			Tree:     page.HasTree(),
		})
	}
	return summaries
}

/*
Render computes the references of a page.

A tree page merges its nodes with the totals of its first field. Every
reference is needed for that, so pagination and associative output are
disabled, and first ids are requested so that each node can link to a
resource.

Returns:
  - Rendered: The page with its references and, if any, its tree
  - error: NOT_FOUND for an unknown slug or a page without fields
*/
func (service *Service) Render(ctx context.Context, slug string) (Rendered, error) {
	page, ok := service.source.Catalog().Page(slug)
	if !ok || len(page.Fields) == 0 {
		return Rendered{}, apperr.NotFound("Page")
	}

	options := page.Options
	if page.HasTree() {
		options.PerPage = 0
		options.Page = 1
		options.Output = reference.OutputList
		options.First = true
	}

	results, err := service.references.List(ctx, page.Fields, page.Query, options)
	if err != nil {
		return Rendered{}, err
	}

	rendered := Rendered{
		Slug:       page.Slug,
		Title:      page.Title,
		Resource:   page.Resource,
		References: results,
	}
	if page.HasTree() && len(results) > 0 {
		rendered.Tree = tree.Merge(page.Tree, totals(results[0].Rows), page.Branch)
	}
	return rendered, nil
}

func totals(rows []reference.Row) []tree.Total {
	return slice.Map(rows, func(row reference.Row) tree.Total {
		return tree.Total{Value: row.Val, Total: row.Total, First: row.First}
	})
}
