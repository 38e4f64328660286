// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference_test

import (
	"context"
	"errors"

	"github.com/taibuivan/references/internal/core/reference"
	"github.com/taibuivan/references/internal/platform/apperr"
)

// fakeRepository serves canned terms and rows and records every statement.
type fakeRepository struct {
	terms     map[reference.FieldKind][]reference.Term
	loads     map[reference.FieldKind]int
	loadErr   error
	rows      []reference.RawRow
	count     int
	values    []reference.ResourceValue
	sites     map[string]int
	executed  []reference.Statement
	projected [][]int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		terms: map[reference.FieldKind][]reference.Term{
			reference.KindProperty: {
				{ID: 1, Term: "dcterms:title", Label: "Title"},
				{ID: 3, Term: "dcterms:subject", Label: "Subject"},
				{ID: 8, Term: "dcterms:date", Label: "Date"},
			},
			reference.KindResourceClass: {
				{ID: 21, Term: "dctype:Text", Label: "Text"},
			},
			reference.KindResourceTemplate: {
				{ID: 2, Term: "Book", Label: "Book"},
			},
			reference.KindItemSet: {
				{ID: 40, Term: "Photographs", Label: "Photographs"},
			},
		},
		loads: map[reference.FieldKind]int{},
		sites: map[string]int{"archives": 5},
	}
}

func (fake *fakeRepository) LoadTerms(_ context.Context, kind reference.FieldKind) ([]reference.Term, error) {
	fake.loads[kind]++
	if fake.loadErr != nil {
		return nil, fake.loadErr
	}
	return fake.terms[kind], nil
}

func (fake *fakeRepository) Aggregate(_ context.Context, statement reference.Statement) ([]reference.RawRow, error) {
	fake.executed = append(fake.executed, statement)
	return fake.rows, nil
}

func (fake *fakeRepository) Count(_ context.Context, statement reference.Statement) (int, error) {
	fake.executed = append(fake.executed, statement)
	return fake.count, nil
}

func (fake *fakeRepository) ResourceValues(_ context.Context, resourceIDs, propertyIDs []int, _ bool) ([]reference.ResourceValue, error) {
	fake.projected = append(fake.projected, resourceIDs)
	return fake.values, nil
}

func (fake *fakeRepository) SiteIDBySlug(_ context.Context, slug string) (int, error) {
	if id, ok := fake.sites[slug]; ok {
		return id, nil
	}
	return 0, apperr.NotFound("Site")
}

var errStorage = errors.New("connection refused")

func intPtr(v int) *int { return &v }
