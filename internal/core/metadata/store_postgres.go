// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/references/internal/platform/database/schema"
	"github.com/taibuivan/references/internal/platform/dberr"
)

// Default title and description properties of resources without template.
const (
	defaultTitleTerm       = "dcterms:title"
	defaultDescriptionTerm = "dcterms:description"
)

// PostgresStore implements [Store] on the Omeka tables.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a fully wired postgres implementation. The pool
// must be writable.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// termID selects the id of the property named by the given placeholder.
func termID(placeholder string) string {
	return fmt.Sprintf(`(SELECT p.%s FROM %s p JOIN %s voc ON voc.%s = p.%s WHERE voc.%s || ':' || p.%s = %s)`,
		schema.Property.ID, schema.Property.Table, schema.Vocabulary.Table,
		schema.Vocabulary.ID, schema.Property.VocabularyID,
		schema.Vocabulary.Prefix, schema.Property.LocalName, placeholder)
}

// CountResources returns the number of resources.
func (store *PostgresStore) CountResources(ctx context.Context) (int, error) {
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.Resource.Table)
	if err := store.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_resources")
	}
	return count, nil
}

// ResourceIDs returns the next batch of resource ids.
func (store *PostgresStore) ResourceIDs(ctx context.Context, afterID, limit int) ([]int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s > $1 ORDER BY %s LIMIT $2`,
		schema.Resource.ID, schema.Resource.Table, schema.Resource.ID, schema.Resource.ID)

	rows, err := store.pool.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_resource_ids")
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, dberr.Wrap(err, "scan_resource_ids")
	}
	return ids, nil
}

/*
Resources loads a batch of resources with their values.

Description: The title and description properties come from the resource
template, or default to dcterms:title and dcterms:description. Values carry
their property term and are ordered by id.

Parameters:
  - ctx: context.Context
  - ids: []int (resource ids)

Returns:
  - []Resource: Resources in id order
  - error: Database execution or scanning errors
*/
func (store *PostgresStore) Resources(ctx context.Context, ids []int) ([]Resource, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, COALESCE(r.%s, ''), r.%s,
			COALESCE(rt.%s, %s, 0),
			COALESCE(rt.%s, %s, 0)
		FROM %s r
		LEFT JOIN %s rt ON rt.%s = r.%s
		WHERE r.%s = ANY($1)
		ORDER BY r.%s`,
		schema.Resource.ID, schema.Resource.Title, schema.Resource.IsPublic,
		schema.ResourceTemplate.TitlePropertyID, termID("$2"),
		schema.ResourceTemplate.DescriptionPropertyID, termID("$3"),
		schema.Resource.Table,
		schema.ResourceTemplate.Table, schema.ResourceTemplate.ID, schema.Resource.ResourceTemplateID,
		schema.Resource.ID, schema.Resource.ID)

	rows, err := store.pool.Query(ctx, query, ids, defaultTitleTerm, defaultDescriptionTerm)
	if err != nil {
		return nil, dberr.Wrap(err, "list_resources")
	}
	defer rows.Close()

	var resources []Resource
	index := map[int]int{}
	for rows.Next() {
		var resource Resource
		if err := rows.Scan(&resource.ID, &resource.Title, &resource.IsPublic,
			&resource.TitlePropertyID, &resource.DescriptionPropertyID); err != nil {
			return nil, dberr.Wrap(err, "scan_resource")
		}
		index[resource.ID] = len(resources)
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_resources")
	}

	values, err := store.values(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, entry := range values {
		if i, ok := index[entry.resourceID]; ok {
			resources[i].Values = append(resources[i].Values, entry.Value)
		}
	}

	return resources, nil
}

type resourceValue struct {
	Value
	resourceID int
}

func (store *PostgresStore) values(ctx context.Context, ids []int) ([]resourceValue, error) {
	query := fmt.Sprintf(`
		SELECT v.%s, v.%s, v.%s, voc.%s || ':' || p.%s, v.%s,
			COALESCE(v.%s, ''), COALESCE(v.%s, ''), COALESCE(v.%s, ''), v.%s, v.%s
		FROM %s v
		JOIN %s p ON p.%s = v.%s
		JOIN %s voc ON voc.%s = p.%s
		WHERE v.%s = ANY($1)
		ORDER BY v.%s, v.%s`,
		schema.Value.ID, schema.Value.ResourceID, schema.Value.PropertyID,
		schema.Vocabulary.Prefix, schema.Property.LocalName, schema.Value.Type,
		schema.Value.Lang, schema.Value.Value, schema.Value.URI, schema.Value.ValueResourceID, schema.Value.IsPublic,
		schema.Value.Table,
		schema.Property.Table, schema.Property.ID, schema.Value.PropertyID,
		schema.Vocabulary.Table, schema.Vocabulary.ID, schema.Property.VocabularyID,
		schema.Value.ResourceID,
		schema.Value.ResourceID, schema.Value.ID)

	rows, err := store.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "list_values")
	}
	defer rows.Close()

	var values []resourceValue
	for rows.Next() {
		var entry resourceValue
		if err := rows.Scan(&entry.ID, &entry.resourceID, &entry.PropertyID, &entry.Term, &entry.Type,
			&entry.Lang, &entry.Text, &entry.URI, &entry.LinkedID, &entry.IsPublic); err != nil {
			return nil, dberr.Wrap(err, "scan_value")
		}
		values = append(values, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_values")
	}
	return values, nil
}

// TitleLink reads the first visible title value of a resource.
func (store *PostgresStore) TitleLink(ctx context.Context, resourceID int, private bool) (TitleLink, bool, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(r.%s, ''), COALESCE(t.%s, ''), COALESCE(t.%s, ''), t.%s
		FROM %s r
		LEFT JOIN %s rt ON rt.%s = r.%s
		LEFT JOIN LATERAL (
			SELECT v.%s, v.%s, v.%s
			FROM %s v
			WHERE v.%s = r.%s
				AND v.%s = COALESCE(rt.%s, %s)
				AND ($2 OR v.%s)
			ORDER BY v.%s
			LIMIT 1
		) t ON TRUE
		WHERE r.%s = $1 AND ($2 OR r.%s)`,
		schema.Resource.Title, schema.Value.Value, schema.Value.URI, schema.Value.ValueResourceID,
		schema.Resource.Table,
		schema.ResourceTemplate.Table, schema.ResourceTemplate.ID, schema.Resource.ResourceTemplateID,
		schema.Value.Value, schema.Value.URI, schema.Value.ValueResourceID,
		schema.Value.Table,
		schema.Value.ResourceID, schema.Resource.ID,
		schema.Value.PropertyID, schema.ResourceTemplate.TitlePropertyID, termID("$3"),
		schema.Value.IsPublic,
		schema.Value.ID,
		schema.Resource.ID, schema.Resource.IsPublic)

	var link TitleLink
	err := store.pool.QueryRow(ctx, query, resourceID, private, defaultTitleTerm).
		Scan(&link.Title, &link.Text, &link.URI, &link.LinkedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return TitleLink{}, false, nil
	}
	if err != nil {
		return TitleLink{}, false, dberr.Wrap(err, "get_title_link")
	}
	return link, true, nil
}

/*
ReplaceRows swaps the cached rows of a batch.

Description: The delete and the bulk COPY run in one transaction, so readers
see either the old or the new rows of the whole batch.
*/
func (store *PostgresStore) ReplaceRows(ctx context.Context, resourceIDs []int, rows []Row) error {
	tx, err := store.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_replace_rows")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = ANY($1)`,
		schema.ReferenceMetadata.Table, schema.ReferenceMetadata.ResourceID)
	if _, err := tx.Exec(ctx, deleteQuery, resourceIDs); err != nil {
		return dberr.Wrap(err, "delete_metadata_rows")
	}

	columns := []string{
		schema.ReferenceMetadata.ResourceID,
		schema.ReferenceMetadata.ValueID,
		schema.ReferenceMetadata.Field,
		schema.ReferenceMetadata.Lang,
		schema.ReferenceMetadata.IsPublic,
		schema.ReferenceMetadata.Text,
	}
	source := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		row := rows[i]
		return []any{row.ResourceID, row.ValueID, row.Field, row.Lang, row.IsPublic, row.Text}, nil
	})
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{schema.ReferenceMetadata.Table}, columns, source); err != nil {
		return dberr.Wrap(err, "copy_metadata_rows")
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_replace_rows")
	}
	return nil
}
