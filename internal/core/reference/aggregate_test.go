// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/references/internal/platform/database/schema"
)

func normalized(t *testing.T, options Options) Options {
	t.Helper()
	options, err := options.Normalize()
	require.NoError(t, err)
	return options
}

func propertyPlan(t *testing.T, options Options) plan {
	return plan{
		field:   Field{Kind: KindProperty, ID: 3, Term: "dcterms:subject"},
		options: normalized(t, options),
		scope:   scope{resourceType: schema.ResourceTypeItem},
	}
}

func TestAggregateStatement_Property(t *testing.T) {
	statement := propertyPlan(t, DefaultOptions()).aggregateStatement()

	assert.True(t, strings.HasPrefix(statement.SQL, "SELECT COALESCE(v.value, vr.title, v.uri, '') AS val, COUNT(DISTINCT r.id) AS total, NULL::int AS first"))
	assert.Contains(t, statement.SQL, "FROM value v JOIN resource r ON r.id = v.resource_id LEFT JOIN resource vr ON vr.id = v.value_resource_id AND vr.is_public")
	assert.Contains(t, statement.SQL, "WHERE v.property_id = $2 AND r.id IN (SELECT sr.id FROM resource sr WHERE sr.resource_type = $1 AND sr.is_public) AND v.is_public")
	assert.Contains(t, statement.SQL, "OR v.type = 'uri' OR v.type LIKE 'resource%')")
	assert.True(t, strings.HasSuffix(statement.SQL, "GROUP BY COALESCE(v.value, vr.title, v.uri, '') ORDER BY val ASC"))
	assert.Equal(t, []any{schema.ResourceTypeItem, 3}, statement.Args)
}

func TestAggregateStatement_Sorting(t *testing.T) {
	tests := []struct {
		name   string
		sortBy string
		order  string
		suffix string
	}{
		{"total_has_value_tie_break", SortTotal, SortDesc, "ORDER BY total DESC, val ASC"},
		{"alphabetic", SortAlphabetic, SortDesc, "ORDER BY val DESC"},
		{"pass_through_is_quoted", `first"; DROP`, SortAsc, `ORDER BY "first""; DROP" ASC`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := DefaultOptions()
			options.SortBy = tt.sortBy
			options.SortOrder = tt.order

			statement := propertyPlan(t, options).aggregateStatement()
			assert.True(t, strings.HasSuffix(statement.SQL, tt.suffix), statement.SQL)
		})
	}
}

func TestAggregateStatement_Pagination(t *testing.T) {
	options := DefaultOptions()
	options.PerPage = 10
	options.Page = 3

	statement := propertyPlan(t, options).aggregateStatement()

	assert.True(t, strings.HasSuffix(statement.SQL, "LIMIT $3 OFFSET $4"))
	assert.Equal(t, []any{schema.ResourceTypeItem, 3, 10, 20}, statement.Args)
}

func TestAggregateStatement_ShapeFlags(t *testing.T) {
	options := DefaultOptions()
	options.First = true
	options.Datatype = true
	options.Lang = true
	options.Distinct = true
	options.IncludeWithoutMeta = true

	statement := propertyPlan(t, options).aggregateStatement()

	assert.Contains(t, statement.SQL, "MIN(r.id) AS first, v.type AS type, v.lang AS lang, v.value_resource_id AS linked_id, v.uri AS uri")
	assert.Contains(t, statement.SQL, "GROUP BY COALESCE(v.value, vr.title, v.uri, ''), v.type, v.lang, v.value_resource_id, v.uri")
	assert.NotContains(t, statement.SQL, "<> ''")
}

func TestAggregateStatement_ListByMax(t *testing.T) {
	options := DefaultOptions()
	options.ListByMax = 2

	statement := propertyPlan(t, options).aggregateStatement()

	entry := "jsonb_build_array(COALESCE(r.title, ''), r.id)"
	assert.Contains(t, statement.SQL, "array_to_json((array_agg(DISTINCT "+entry+" ORDER BY "+entry+"))[1:$3])::text AS listing")
	assert.NotContains(t, statement.SQL, "r.id::text", "ids order as numbers")
	assert.Equal(t, 2, statement.Args[2])
}

func TestAggregateStatement_ListByMaxIgnoredForClasses(t *testing.T) {
	options := DefaultOptions()
	options.ListByMax = 2

	statement := plan{
		field:   Field{Kind: KindResourceClass, ID: 8},
		options: normalized(t, options),
		scope:   scope{private: true},
	}.aggregateStatement()

	assert.Contains(t, statement.SQL, "NULL::text AS listing")
	assert.Contains(t, statement.SQL, "r.resource_class_id = $1")
	assert.Contains(t, statement.SQL, "COUNT(r.id) AS total")
}

func TestAggregateStatement_Filters(t *testing.T) {
	options := DefaultOptions()
	options.Languages = []string{"fr"}
	options.Datatypes = []string{"literal"}
	options.Begin = []string{"P"}
	options.Values = []string{"Paris"}

	statement := propertyPlan(t, options).aggregateStatement()

	assert.Contains(t, statement.SQL, "v.type = ANY($3)")
	assert.Contains(t, statement.SQL, "v.lang = ANY($4)")
	assert.Contains(t, statement.SQL, `COALESCE(v.value, vr.title, v.uri, '') LIKE $5 ESCAPE '\'`)
	assert.Contains(t, statement.SQL, "COALESCE(v.value, vr.title, v.uri, '') = ANY($6)")
}

func TestAggregateStatement_TitleIgnoresValueFilters(t *testing.T) {
	options := DefaultOptions()
	options.Languages = []string{"fr"}

	statement := plan{
		field:   Field{Kind: KindTitle, Term: TermTitle},
		options: normalized(t, options),
		scope:   scope{private: true},
	}.aggregateStatement()

	assert.NotContains(t, statement.SQL, "lang =")
	assert.Contains(t, statement.SQL, "FROM resource r WHERE r.id IN (SELECT sr.id FROM resource sr)")
	assert.Contains(t, statement.SQL, "GROUP BY COALESCE(r.title, '')")
}

func TestAggregateStatement_Axes(t *testing.T) {
	tests := []struct {
		kind     FieldKind
		val      string
		idColumn string
	}{
		{KindPropertyAxis, "voc.prefix || ':' || p.local_name AS val", "p.id"},
		{KindClassAxis, "voc.prefix || ':' || rc.local_name AS val", "rc.id"},
		{KindTemplateAxis, "rt.label AS val", "rt.id"},
		{KindItemSetAxis, "COALESCE(isr.title, '') AS val", "iis.item_set_id"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			options := DefaultOptions()
			options.Values = []string{"anything"}

			withIDs := plan{field: Field{Kind: tt.kind}, options: normalized(t, options), scope: scope{private: true}, axisIDs: []int{4}}
			statement := withIDs.aggregateStatement()
			assert.Contains(t, statement.SQL, tt.val)
			assert.Contains(t, statement.SQL, tt.idColumn+" = ANY($1)")

			unresolved := plan{field: Field{Kind: tt.kind}, options: normalized(t, options), scope: scope{private: true}}
			assert.Contains(t, unresolved.aggregateStatement().SQL, " AND FALSE")
		})
	}
}

func TestAggregateStatement_ItemSetAxisSiteRestriction(t *testing.T) {
	withSite := plan{
		field:   Field{Kind: KindItemSetAxis},
		options: normalized(t, DefaultOptions()),
		scope:   scope{resourceType: schema.ResourceTypeItem, query: Query{SiteID: 5}},
	}
	assert.Contains(t, withSite.aggregateStatement().SQL, "iis.item_set_id IN (SELECT sis.item_set_id FROM site_item_set sis WHERE sis.site_id = $3)")
	assert.Contains(t, withSite.aggregateStatement().SQL, "isr.is_public")

	propertyAxis := plan{
		field:   Field{Kind: KindPropertyAxis},
		options: normalized(t, DefaultOptions()),
		scope:   scope{resourceType: schema.ResourceTypeItem, query: Query{SiteID: 5}},
	}
	assert.NotContains(t, propertyAxis.aggregateStatement().SQL, "site_item_set")
}

func TestCountStatement(t *testing.T) {
	options := DefaultOptions()
	options.PerPage = 5
	options.ListByMax = 3

	statement := propertyPlan(t, options).countStatement()

	assert.True(t, strings.HasPrefix(statement.SQL, "SELECT COUNT(*) FROM (SELECT COALESCE"))
	assert.True(t, strings.HasSuffix(statement.SQL, ") AS refs"))
	assert.NotContains(t, statement.SQL, "LIMIT")
	assert.NotContains(t, statement.SQL, "ORDER BY")
	assert.NotContains(t, statement.SQL, "array_agg")
	assert.Len(t, statement.Args, 2)
}
