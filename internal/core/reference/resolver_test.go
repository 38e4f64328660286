// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/references/internal/core/reference"
)

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		kind  reference.FieldKind
		key   string
		id    int
		found bool
	}{
		{"by_id", reference.KindProperty, "3", 3, true},
		{"by_term", reference.KindProperty, "dcterms:subject", 3, true},
		{"by_label", reference.KindProperty, "Subject", 3, true},
		{"trimmed", reference.KindProperty, " dcterms:subject ", 3, true},
		{"unknown_term", reference.KindProperty, "foaf:name", 0, false},
		{"unknown_id", reference.KindProperty, "99", 0, false},
		{"empty", reference.KindProperty, "", 0, false},
		{"class_term", reference.KindResourceClass, "dctype:Text", 21, true},
		{"template_label", reference.KindResourceTemplate, "Book", 2, true},
		{"item_set_id", reference.KindItemSet, "40", 40, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := reference.NewResolver(newFakeRepository())

			field, found, err := resolver.Resolve(ctx, tt.kind, tt.key)

			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.id, field.ID)
			if found {
				assert.Equal(t, tt.kind, field.Kind)
			}
		})
	}
}

func TestResolver_LoadsEachKindOnce(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	resolver := reference.NewResolver(repo)

	for _, key := range []string{"1", "dcterms:title", "Subject", "missing"} {
		_, _, err := resolver.Resolve(ctx, reference.KindProperty, key)
		require.NoError(t, err)
	}
	_, _, err := resolver.Resolve(ctx, reference.KindItemSet, "40")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.loads[reference.KindProperty])
	assert.Equal(t, 1, repo.loads[reference.KindItemSet])
	assert.Zero(t, repo.loads[reference.KindResourceClass])
}

func TestResolver_TermWinsOverLabel(t *testing.T) {
	repo := newFakeRepository()
	repo.terms[reference.KindProperty] = []reference.Term{
		{ID: 1, Term: "ex:a", Label: "ex:b"},
		{ID: 2, Term: "ex:b", Label: "B"},
	}

	field, found, err := reference.NewResolver(repo).Resolve(context.Background(), reference.KindProperty, "ex:b")

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, field.ID)
}

func TestResolver_ResolveIDsDropsUnknown(t *testing.T) {
	resolver := reference.NewResolver(newFakeRepository())

	ids, err := resolver.ResolveIDs(context.Background(), reference.KindProperty, []string{"dcterms:date", "nope", "1"})

	require.NoError(t, err)
	assert.Equal(t, []int{8, 1}, ids)
}

func TestResolver_ResolveField(t *testing.T) {
	tests := []struct {
		key  string
		kind reference.FieldKind
	}{
		{"o:title", reference.KindTitle},
		{"o:property", reference.KindPropertyAxis},
		{"o:resource_class", reference.KindClassAxis},
		{"o:resource_template", reference.KindTemplateAxis},
		{"o:item_set", reference.KindItemSetAxis},
		{"dcterms:subject", reference.KindProperty},
		{"dctype:Text", reference.KindResourceClass},
		{"Book", reference.KindResourceTemplate},
		{"Photographs", reference.KindItemSet},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			field, found, err := reference.NewResolver(newFakeRepository()).ResolveField(context.Background(), tt.key)

			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, tt.kind, field.Kind)
		})
	}

	_, found, err := reference.NewResolver(newFakeRepository()).ResolveField(context.Background(), "nothing:here")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolver_StorageFailure(t *testing.T) {
	repo := newFakeRepository()
	repo.loadErr = errStorage

	_, _, err := reference.NewResolver(repo).Resolve(context.Background(), reference.KindProperty, "1")

	assert.ErrorIs(t, err, errStorage)
}
