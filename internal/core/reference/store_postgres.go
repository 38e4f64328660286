// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/references/internal/platform/database/schema"
	"github.com/taibuivan/references/internal/platform/dberr"
	"github.com/taibuivan/references/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on the Omeka tables.
type PostgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
LoadTerms reads the whole lookup table of a kind.

Description: Properties and classes are keyed by "prefix:local_name",
templates by label and item sets by title.

Parameters:
  - ctx: context.Context
  - kind: FieldKind (property, class, template or item set)

Returns:
  - []Term: Every entry of the kind
  - error: Database execution or scanning errors
*/
func (repository *PostgresRepository) LoadTerms(ctx context.Context, kind FieldKind) ([]Term, error) {
	var query string
	switch kind {
	case KindProperty, KindResourceClass:
		table := schema.Property.Table
		if kind == KindResourceClass {
			table = schema.ResourceClass.Table
		}
		query = fmt.Sprintf(`
			SELECT t.id, voc.%s || ':' || t.local_name, COALESCE(t.label, '')
			FROM %s t
			JOIN %s voc ON voc.id = t.vocabulary_id
			ORDER BY t.id`, schema.Vocabulary.Prefix, table, schema.Vocabulary.Table)
	case KindResourceTemplate:
		query = fmt.Sprintf(`SELECT id, label, label FROM %s ORDER BY id`, schema.ResourceTemplate.Table)
	case KindItemSet:
		query = fmt.Sprintf(`
			SELECT id, COALESCE(title, ''), COALESCE(title, '')
			FROM %s
			WHERE resource_type = $1
			ORDER BY id`, schema.Resource.Table)
	default:
		return nil, nil
	}

	var args []any
	if kind == KindItemSet {
		args = append(args, schema.ResourceTypeItemSet)
	}

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "load_terms_"+kind.String())
	}

	terms, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Term])
	if err != nil {
		return nil, dberr.Wrap(err, "scan_terms")
	}
	return terms, nil
}

// Aggregate runs an aggregate statement and scans its fixed column set.
func (repository *PostgresRepository) Aggregate(ctx context.Context, statement Statement) ([]RawRow, error) {
	rows, err := repository.db.Query(ctx, statement.SQL, statement.Args...)
	if err != nil {
		return nil, dberr.Wrap(err, "aggregate_references")
	}

	// Columns follow the field order of RawRow.
	result, err := pgx.CollectRows(rows, pgx.RowToStructByPos[RawRow])
	if err != nil {
		return nil, dberr.Wrap(err, "scan_references")
	}
	return result, nil
}

// Count runs a COUNT statement.
func (repository *PostgresRepository) Count(ctx context.Context, statement Statement) (int, error) {
	var count int
	err := repository.db.QueryRow(ctx, statement.SQL, statement.Args...).Scan(&count)
	return count, dberr.Wrap(err, "count_references")
}

// ResourceValues fetches the values of the listed resources for projection.
func (repository *PostgresRepository) ResourceValues(ctx context.Context, resourceIDs, propertyIDs []int, private bool) ([]ResourceValue, error) {
	if len(resourceIDs) == 0 || len(propertyIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT v.resource_id, v.property_id, COALESCE(v.value, vr.title, v.uri, '')
		FROM %s v
		LEFT JOIN %s vr ON vr.id = v.value_resource_id AND (vr.is_public OR $3)
		WHERE v.resource_id = ANY($1)
		  AND v.property_id = ANY($2)
		  AND (v.is_public OR $3)
		ORDER BY v.resource_id, v.id`, schema.Value.Table, schema.Resource.Table)

	rows, err := repository.db.Query(ctx, query, resourceIDs, propertyIDs, private)
	if err != nil {
		return nil, dberr.Wrap(err, "list_resource_values")
	}

	values, err := pgx.CollectRows(rows, pgx.RowToStructByPos[ResourceValue])
	if err != nil {
		return nil, dberr.Wrap(err, "scan_resource_values")
	}
	return values, nil
}

// SiteIDBySlug resolves a site slug to its id.
func (repository *PostgresRepository) SiteIDBySlug(ctx context.Context, slug string) (int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, schema.Site.ID, schema.Site.Table, schema.Site.Slug)

	var id int
	err := repository.db.QueryRow(ctx, query, slug).Scan(&id)
	if err != nil {
		return 0, dberr.WrapNotFound(err, "get_site_by_slug", "Site")
	}
	return id, nil
}
