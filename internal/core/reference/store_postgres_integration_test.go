//go:build integration

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/references/internal/core/reference"
	"github.com/taibuivan/references/internal/platform/ctxutil"
	"github.com/taibuivan/references/internal/platform/sec"
)

// testDatabaseEnv names a disposable database. Every run works in its own
// schema and drops it afterwards.
const testDatabaseEnv = "REFERENCES_TEST_DATABASE_URL"

// Text columns use the "C" collation so orderings do not depend on the
// server locale.
const omekaTables = `
CREATE TABLE vocabulary (id int PRIMARY KEY, prefix text COLLATE "C" NOT NULL);
CREATE TABLE property (id int PRIMARY KEY, vocabulary_id int NOT NULL, local_name text COLLATE "C" NOT NULL, label text COLLATE "C");
CREATE TABLE resource_class (id int PRIMARY KEY, vocabulary_id int NOT NULL, local_name text COLLATE "C" NOT NULL, label text COLLATE "C");
CREATE TABLE resource_template (id int PRIMARY KEY, label text COLLATE "C" NOT NULL, title_property_id int, description_property_id int);
CREATE TABLE resource (
	id int PRIMARY KEY,
	owner_id int,
	resource_class_id int,
	resource_template_id int,
	title text COLLATE "C",
	is_public boolean NOT NULL DEFAULT true,
	resource_type text COLLATE "C" NOT NULL
);
CREATE TABLE value (
	id serial PRIMARY KEY,
	resource_id int NOT NULL,
	property_id int NOT NULL,
	value_resource_id int,
	type text COLLATE "C" NOT NULL DEFAULT 'literal',
	lang text COLLATE "C",
	value text COLLATE "C",
	uri text COLLATE "C",
	is_public boolean NOT NULL DEFAULT true
);
CREATE TABLE item_item_set (item_id int NOT NULL, item_set_id int NOT NULL);
CREATE TABLE item_site (item_id int NOT NULL, site_id int NOT NULL);
CREATE TABLE site (id int PRIMARY KEY, slug text COLLATE "C" NOT NULL);
CREATE TABLE site_item_set (site_id int NOT NULL, item_set_id int NOT NULL);
CREATE TABLE media (id int PRIMARY KEY, item_id int NOT NULL);
`

// Items 1, 2, 3, 9 and 10 are public, item 4 is private. Item 1 carries
// "Paris" twice; items 9 and 10 share a title.
const omekaCorpus = `
INSERT INTO vocabulary VALUES (1, 'dcterms');
INSERT INTO property VALUES (1, 1, 'title', 'Title'), (3, 1, 'subject', 'Subject');
INSERT INTO resource_template VALUES (1, 'Book', NULL, NULL);
INSERT INTO resource (id, title, is_public, resource_type) VALUES
	(1, 'Beta', true, 'Omeka\Entity\Item'),
	(2, 'Alpha', true, 'Omeka\Entity\Item'),
	(3, 'Gamma', true, 'Omeka\Entity\Item'),
	(4, 'Delta', false, 'Omeka\Entity\Item'),
	(9, 'Same', true, 'Omeka\Entity\Item'),
	(10, 'Same', true, 'Omeka\Entity\Item');
INSERT INTO value (resource_id, property_id, value) VALUES
	(1, 3, 'Paris'),
	(1, 3, 'Paris'),
	(2, 3, 'Paris'),
	(2, 3, 'Subject A'),
	(3, 3, 'london'),
	(3, 3, 'Not Subject'),
	(4, 3, 'Paris'),
	(9, 3, 'Twin'),
	(10, 3, 'Twin');
`

// newIntegrationService seeds a fresh schema and returns a service on it.
func newIntegrationService(t *testing.T) *reference.Service {
	t.Helper()

	dsn := os.Getenv(testDatabaseEnv)
	if dsn == "" {
		t.Skipf("%s is not set", testDatabaseEnv)
	}

	ctx := context.Background()
	admin, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)

	schemaName := fmt.Sprintf("references_it_%d", time.Now().UnixNano())
	quoted := pgx.Identifier{schemaName}.Sanitize()
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+quoted)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+quoted+" CASCADE")
		_ = admin.Close(context.Background())
	})

	config, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	config.ConnConfig.RuntimeParams["search_path"] = schemaName

	pool, err := pgxpool.NewWithConfig(ctx, config)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, omekaTables)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, omekaCorpus)
	require.NoError(t, err)

	return reference.NewService(reference.NewPostgresRepository(pool))
}

func editorContext() context.Context {
	return ctxutil.WithAuthUser(context.Background(), &sec.AuthClaims{UserID: "1", Role: string(sec.RoleEditor)})
}

func valsAndTotals(t *testing.T, results reference.Results, key string) ([]string, []int) {
	t.Helper()
	result, ok := results.Get(key)
	require.True(t, ok)

	vals := []string{}
	totals := []int{}
	for _, row := range result.Rows {
		vals = append(vals, row.Val)
		totals = append(totals, row.Total)
	}
	return vals, totals
}

/*
TestPostgres_List_Subjects counts distinct resources per value, in byte order.
*/
func TestPostgres_List_Subjects(t *testing.T) {
	service := newIntegrationService(t)

	tests := []struct {
		name   string
		ctx    context.Context
		vals   []string
		totals []int
	}{
		{"anonymous", context.Background(), []string{"Not Subject", "Paris", "Subject A", "Twin", "london"}, []int{1, 2, 1, 2, 1}},
		{"editor", editorContext(), []string{"Not Subject", "Paris", "Subject A", "Twin", "london"}, []int{1, 3, 1, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := service.List(tt.ctx, []string{"dcterms:subject"}, reference.Query{}, reference.DefaultOptions())
			require.NoError(t, err)

			vals, totals := valsAndTotals(t, results, "dcterms:subject")
			assert.Equal(t, tt.vals, vals)
			assert.Equal(t, tt.totals, totals)
		})
	}
}

/*
TestPostgres_List_PropertyClauses runs positive and negative advanced clauses
against the resource titles.
*/
func TestPostgres_List_PropertyClauses(t *testing.T) {
	service := newIntegrationService(t)

	tests := []struct {
		name   string
		clause reference.PropertyClause
		vals   []string
		totals []int
	}{
		{"starts_with", reference.PropertyClause{Property: "3", Type: reference.OpSw, Text: "Sub"}, []string{"Alpha"}, []int{1}},
		{"not_starts_with", reference.PropertyClause{Property: "3", Type: reference.OpNsw, Text: "Sub"}, []string{"Beta", "Gamma", "Same"}, []int{1, 1, 2}},
		{"equals_term", reference.PropertyClause{Property: "dcterms:subject", Type: reference.OpEq, Text: "london"}, []string{"Gamma"}, []int{1}},
		{"not_equals", reference.PropertyClause{Property: "3", Type: reference.OpNeq, Text: "Paris"}, []string{"Gamma", "Same"}, []int{1, 2}},
		{"not_exists", reference.PropertyClause{Property: "1", Type: reference.OpNex}, []string{"Alpha", "Beta", "Gamma", "Same"}, []int{1, 1, 1, 2}},
		{"unknown_property", reference.PropertyClause{Property: "dcterms:nothing", Type: reference.OpEx}, []string{}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := reference.Query{Property: []reference.PropertyClause{tt.clause}}
			results, err := service.List(context.Background(), []string{reference.TermTitle}, query, reference.DefaultOptions())
			require.NoError(t, err)

			vals, totals := valsAndTotals(t, results, reference.TermTitle)
			assert.Equal(t, tt.vals, vals)
			assert.Equal(t, tt.totals, totals)
		})
	}
}

/*
TestPostgres_List_BeginLiterals verifies that the LIKE and regular
expression renditions of a begin filter select the same values.
*/
func TestPostgres_List_BeginLiterals(t *testing.T) {
	service := newIntegrationService(t)

	literals := func(count int) []string {
		result := []string{"P"}
		for i := 1; i < count; i++ {
			// "." would match everything if it reached the pattern unquoted.
			result = append(result, strings.Repeat(".", i))
		}
		return result
	}

	for _, count := range []int{1, 20, 21} {
		t.Run(fmt.Sprintf("literals_%d", count), func(t *testing.T) {
			options := reference.DefaultOptions()
			options.Begin = literals(count)

			results, err := service.List(context.Background(), []string{"dcterms:subject"}, reference.Query{}, options)
			require.NoError(t, err)

			vals, totals := valsAndTotals(t, results, "dcterms:subject")
			assert.Equal(t, []string{"Paris"}, vals)
			assert.Equal(t, []int{2}, totals)
		})
	}
}

/*
TestPostgres_List_ListByMax verifies the listed resources: title order, then
numeric id order between equal titles.
*/
func TestPostgres_List_ListByMax(t *testing.T) {
	service := newIntegrationService(t)

	options := reference.DefaultOptions()
	options.ListByMax = 2
	options.Values = []string{"Paris", "Twin"}

	results, err := service.List(editorContext(), []string{"dcterms:subject"}, reference.Query{}, options)
	require.NoError(t, err)

	result, ok := results.Get("dcterms:subject")
	require.True(t, ok)
	require.Len(t, result.Rows, 2)

	paris := result.Rows[0]
	assert.Equal(t, "Paris", paris.Val)
	assert.Equal(t, 3, paris.Total)
	require.Len(t, paris.Resources, 2)
	assert.Equal(t, reference.ResourceEntry{ID: 2, Title: "Alpha"}, paris.Resources[0])
	assert.Equal(t, reference.ResourceEntry{ID: 1, Title: "Beta"}, paris.Resources[1])

	twin := result.Rows[1]
	require.Len(t, twin.Resources, 2)
	assert.Equal(t, 9, twin.Resources[0].ID)
	assert.Equal(t, 10, twin.Resources[1].ID)
}

/*
TestPostgres_List_ListFields projects the listed resources on their values.
*/
func TestPostgres_List_ListFields(t *testing.T) {
	service := newIntegrationService(t)

	options := reference.DefaultOptions()
	options.ListByMax = 1
	options.ListFields = []string{reference.ListFieldID, "dcterms:subject"}
	options.Values = []string{"Subject A"}

	results, err := service.List(context.Background(), []string{"dcterms:subject"}, reference.Query{}, options)
	require.NoError(t, err)

	result, ok := results.Get("dcterms:subject")
	require.True(t, ok)
	require.Len(t, result.Rows, 1)
	require.Len(t, result.Rows[0].Resources, 1)

	assert.Equal(t, reference.Object{
		{Key: reference.ListFieldID, Value: 2},
		{Key: "dcterms:subject", Value: []string{"Paris", "Subject A"}},
	}, result.Rows[0].Resources[0].Fields)
}

/*
TestPostgres_Count matches the number of groups List returns.
*/
func TestPostgres_Count(t *testing.T) {
	service := newIntegrationService(t)

	counts, err := service.Count(context.Background(), []string{"dcterms:subject", reference.TermTitle, "dcterms:nothing"}, reference.Query{}, reference.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, reference.Counts{
		{Key: "dcterms:subject", Count: 5},
		{Key: reference.TermTitle, Count: 4},
		{Key: "dcterms:nothing", Count: 0},
	}, counts)
}
