// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/references/internal/core/page"
	"github.com/taibuivan/references/internal/core/reference"
	"github.com/taibuivan/references/internal/core/tree"
	"github.com/taibuivan/references/internal/platform/apperr"
)

type staticSource struct {
	catalog *page.Catalog
}

func (source staticSource) Catalog() *page.Catalog { return source.catalog }

// fakeLister answers every field with the same rows and records the call.
type fakeLister struct {
	rows    []reference.Row
	err     error
	keys    []string
	options reference.Options
}

func (fake *fakeLister) List(_ context.Context, keys []string, _ reference.Query, options reference.Options) (reference.Results, error) {
	fake.keys = keys
	fake.options = options
	if fake.err != nil {
		return nil, fake.err
	}

	results := make(reference.Results, 0, len(keys))
	for _, key := range keys {
		results = append(results, reference.FieldResult{
			Key:   key,
			Field: reference.Field{Kind: reference.KindProperty, ID: 3, Term: key, Label: key},
			Rows:  fake.rows,
		})
	}
	return results, nil
}

func intPtr(v int) *int { return &v }

func newTestService(t *testing.T, lister *fakeLister) *page.Service {
	t.Helper()

	catalog, err := page.Parse([]byte(`
pages:
  - slug: places
    title: Places
    fields: [dcterms:spatial]
    options:
      per_page: 5
      output: associative
    tree: |
      Europe
      - France
      -- Paris
  - slug: flat
    fields: [dcterms:subject]
    options:
      per_page: 5
  - slug: empty
    title: Nothing yet
`))
	require.NoError(t, err)

	return page.NewService(staticSource{catalog: catalog}, lister)
}

func TestService_List(t *testing.T) {
	service := newTestService(t, &fakeLister{})

	summaries := service.List()
	require.Len(t, summaries, 3)
	assert.Equal(t, page.Summary{
		Slug:     "places",
		Title:    "Places",
		Resource: reference.ResourceItems,
		Fields:   []string{"dcterms:spatial"},
		Tree:     true,
	}, summaries[0])
	assert.False(t, summaries[1].Tree)
}

func TestService_Render_Tree(t *testing.T) {
	lister := &fakeLister{rows: []reference.Row{
		{Val: "paris", Total: 3, First: intPtr(9)},
		{Val: "France", Total: 5, First: intPtr(4)},
		{Val: "Japan", Total: 1, First: intPtr(2)},
	}}
	service := newTestService(t, lister)

	rendered, err := service.Render(context.Background(), "places")
	require.NoError(t, err)

	assert.Equal(t, "places", rendered.Slug)
	assert.Equal(t, []string{"dcterms:spatial"}, lister.keys)
	assert.Equal(t, 0, lister.options.PerPage, "a tree needs every reference")
	assert.Equal(t, reference.OutputList, lister.options.Output)
	assert.True(t, lister.options.First)

	assert.Equal(t, []tree.MergedNode{
		{Label: "Europe", Level: 0, Total: 0},
		{Label: "France", Level: 1, Total: 5, First: intPtr(4)},
		{Label: "Paris", Level: 2, Total: 3, First: intPtr(9)},
	}, rendered.Tree)
}

func TestService_Render_Flat(t *testing.T) {
	lister := &fakeLister{rows: []reference.Row{{Val: "Maps", Total: 2}}}
	service := newTestService(t, lister)

	rendered, err := service.Render(context.Background(), "flat")
	require.NoError(t, err)

	assert.Nil(t, rendered.Tree)
	assert.Equal(t, 5, lister.options.PerPage)
	assert.False(t, lister.options.First)
	require.Len(t, rendered.References, 1)
	assert.Equal(t, "Maps", rendered.References[0].Rows[0].Val)
}

func TestService_Render_NotFound(t *testing.T) {
	service := newTestService(t, &fakeLister{})

	for _, slug := range []string{"missing", "empty"} {
		_, err := service.Render(context.Background(), slug)
		appErr := apperr.As(err)
		require.NotNil(t, appErr, slug)
		assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus, slug)
	}
}

func TestService_Render_StorageFailure(t *testing.T) {
	service := newTestService(t, &fakeLister{err: errors.New("connection refused")})

	_, err := service.Render(context.Background(), "flat")
	assert.EqualError(t, err, "connection refused")
}

func TestHandler(t *testing.T) {
	lister := &fakeLister{rows: []reference.Row{{Val: "Maps", Total: 2}}}
	router := page.NewHandler(newTestService(t, lister)).Routes()

	tests := []struct {
		name   string
		method string
		target string
		status int
	}{
		{"list", http.MethodGet, "/", http.StatusOK},
		{"page", http.MethodGet, "/flat", http.StatusOK},
		{"no_fields", http.MethodGet, "/empty", http.StatusNotFound},
		{"unknown", http.MethodGet, "/missing", http.StatusNotFound},
		{"write", http.MethodPut, "/flat", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}
