// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/references/internal/platform/database/schema"
	"github.com/taibuivan/references/pkg/pagination"
)

// # Aggregate Statements

// Statement is a parameterized SQL statement ready to run.
type Statement struct {
	SQL  string
	Args []any
}

// RawRow is one scanned aggregate row. Every statement selects the same
// columns; the ones a computation does not need are NULL.
type RawRow struct {
	Val      string
	Total    int
	First    *int
	Type     *string
	Lang     *string
	LinkedID *int
	URI      *string
	Listing  *string
}

// plan is one field computation, resolved and validated.
type plan struct {
	field   Field
	options Options
	scope   scope

	// axisIDs is the values allow-list resolved to ids, for axis kinds.
	axisIDs []int
}

// source is the part of an aggregate statement that depends on the kind.
type source struct {
	from       string
	val        string
	total      string
	conditions []string

	// property is set when the rows are values (v, vr aliases).
	property bool
	// idColumn identifies an axis entry for the allow-list.
	idColumn string
}

/*
source writes the FROM clause, grouped value and scope of the field kind.

  - Property: values grouped by literal, linked title or uri; distinct
    resources are counted since a resource can repeat a value.
  - Title, class, template, item set: resources grouped by title.
  - Axes: the properties, classes, templates or item sets used by the scope.
*/
func (plan plan) source(args *sqlArgs) source {
	inScope := "r.id IN (" + plan.scope.sql(args) + ")"
	private := plan.scope.private

	switch plan.field.Kind {
	case KindProperty:
		linkedOn := "vr.id = v.value_resource_id"
		conditions := []string{"v.property_id = " + args.add(plan.field.ID), inScope}
		if !private {
			linkedOn += " AND vr.is_public"
			conditions = append(conditions, "v.is_public")
		}
		return source{
			from:       fmt.Sprintf("%s v JOIN %s r ON r.id = v.resource_id LEFT JOIN %s vr ON %s", schema.Value.Table, schema.Resource.Table, schema.Resource.Table, linkedOn),
			val:        "COALESCE(v.value, vr.title, v.uri, '')",
			total:      "COUNT(DISTINCT r.id)",
			conditions: conditions,
			property:   true,
		}

	case KindTitle, KindResourceClass, KindResourceTemplate, KindItemSet:
		conditions := []string{inScope}
		switch plan.field.Kind {
		case KindResourceClass:
			conditions = append(conditions, "r.resource_class_id = "+args.add(plan.field.ID))
		case KindResourceTemplate:
			conditions = append(conditions, "r.resource_template_id = "+args.add(plan.field.ID))
		case KindItemSet:
			conditions = append(conditions, fmt.Sprintf("r.id IN (SELECT iis.%s FROM %s iis WHERE iis.%s = %s)",
				schema.ItemItemSet.ItemID, schema.ItemItemSet.Table, schema.ItemItemSet.ItemSetID, args.add(plan.field.ID)))
		}
		return source{
			from:       schema.Resource.Table + " r",
			val:        "COALESCE(r.title, '')",
			total:      "COUNT(r.id)",
			conditions: conditions,
		}

	case KindPropertyAxis:
		conditions := []string{inScope}
		if !private {
			conditions = append(conditions, "v.is_public")
		}
		return source{
			from: fmt.Sprintf("%s v JOIN %s r ON r.id = v.resource_id JOIN %s p ON p.id = v.property_id JOIN %s voc ON voc.id = p.vocabulary_id",
				schema.Value.Table, schema.Resource.Table, schema.Property.Table, schema.Vocabulary.Table),
			val:        "voc.prefix || ':' || p.local_name",
			total:      "COUNT(DISTINCT r.id)",
			conditions: conditions,
			idColumn:   "p.id",
		}

	case KindClassAxis:
		return source{
			from: fmt.Sprintf("%s r JOIN %s rc ON rc.id = r.resource_class_id JOIN %s voc ON voc.id = rc.vocabulary_id",
				schema.Resource.Table, schema.ResourceClass.Table, schema.Vocabulary.Table),
			val:        "voc.prefix || ':' || rc.local_name",
			total:      "COUNT(r.id)",
			conditions: []string{inScope},
			idColumn:   "rc.id",
		}

	case KindTemplateAxis:
		return source{
			from:       fmt.Sprintf("%s r JOIN %s rt ON rt.id = r.resource_template_id", schema.Resource.Table, schema.ResourceTemplate.Table),
			val:        "rt.label",
			total:      "COUNT(r.id)",
			conditions: []string{inScope},
			idColumn:   "rt.id",
		}

	default: // KindItemSetAxis
		conditions := []string{inScope}
		if !private {
			conditions = append(conditions, "isr.is_public")
		}
		// Only item sets attached to the site, so a site never lists the
		// private item sets of another one.
		if plan.scope.query.SiteID > 0 {
			conditions = append(conditions, fmt.Sprintf("iis.%s IN (SELECT sis.%s FROM %s sis WHERE sis.%s = %s)",
				schema.ItemItemSet.ItemSetID, schema.SiteItemSet.ItemSetID, schema.SiteItemSet.Table,
				schema.SiteItemSet.SiteID, args.add(plan.scope.query.SiteID)))
		}
		return source{
			from: fmt.Sprintf("%s iis JOIN %s r ON r.id = iis.%s JOIN %s isr ON isr.id = iis.%s",
				schema.ItemItemSet.Table, schema.Resource.Table, schema.ItemItemSet.ItemID,
				schema.Resource.Table, schema.ItemItemSet.ItemSetID),
			val:        "COALESCE(isr.title, '')",
			total:      "COUNT(DISTINCT r.id)",
			conditions: conditions,
			idColumn:   "iis." + schema.ItemItemSet.ItemSetID,
		}
	}
}

// grouped writes the grouped statement without ordering or pagination.
func (plan plan) grouped(args *sqlArgs, listing bool) string {
	src := plan.source(args)
	options := plan.options
	conditions := src.conditions

	// # Filters
	if src.property {
		conditions = appendNonEmpty(conditions,
			datatypeFilter(args, "v.type", options.Datatypes),
			languageFilter(args, "v.lang", options.Languages),
		)
	}
	conditions = appendNonEmpty(conditions,
		affixFilter(args, src.val, options.Begin, false),
		affixFilter(args, src.val, options.End, true),
	)
	if len(options.Values) > 0 {
		if plan.field.Kind.IsAxis() {
			conditions = append(conditions, idsFilter(args, src.idColumn, plan.axisIDs))
		} else {
			conditions = append(conditions, valuesFilter(args, src.val, options.Values))
		}
	}

	// Empty values are kept for uri and linked resources, which carry
	// meaning without a label.
	if !options.IncludeWithoutMeta {
		if src.property {
			conditions = append(conditions, fmt.Sprintf("(%s <> '' OR v.type = '%s' OR v.type LIKE '%s%%')", src.val, DatatypeURI, DatatypeResourceBase))
		} else {
			conditions = append(conditions, src.val+" <> ''")
		}
	}

	// # Columns
	groupBy := []string{src.val}
	columns := []string{src.val + " AS val", src.total + " AS total"}

	columns = append(columns, pick(options.First, "MIN(r.id)", "NULL::int")+" AS first")

	shape := src.property
	columns = append(columns, pick(shape && options.Datatype, "v.type", "NULL::text")+" AS type")
	columns = append(columns, pick(shape && options.Lang, "v.lang", "NULL::text")+" AS lang")
	columns = append(columns, pick(shape && options.Distinct, "v.value_resource_id", "NULL::int")+" AS linked_id")
	columns = append(columns, pick(shape && options.Distinct, "v.uri", "NULL::text")+" AS uri")
	if shape && options.Datatype {
		groupBy = append(groupBy, "v.type")
	}
	if shape && options.Lang {
		groupBy = append(groupBy, "v.lang")
	}
	if shape && options.Distinct {
		groupBy = append(groupBy, "v.value_resource_id", "v.uri")
	}

	listed := "NULL::text"
	if listing && options.ListByMax > 0 && (src.property || plan.field.Kind == KindTitle) {
		// jsonb arrays order by title under the database collation, then
		// by id as a number.
		entry := "jsonb_build_array(COALESCE(r.title, ''), r.id)"
		listed = fmt.Sprintf("array_to_json((array_agg(DISTINCT %s ORDER BY %s))[1:%s])::text",
			entry, entry, args.add(options.ListByMax))
	}
	columns = append(columns, listed+" AS listing")

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT ")
	queryBuilder.WriteString(strings.Join(columns, ", "))
	queryBuilder.WriteString(" FROM ")
	queryBuilder.WriteString(src.from)
	queryBuilder.WriteString(" WHERE ")
	queryBuilder.WriteString(strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" GROUP BY ")
	queryBuilder.WriteString(strings.Join(groupBy, ", "))
	return queryBuilder.String()
}

/*
aggregateStatement builds the list statement of a field.

Sorting by total adds an ascending tie-break on the value; alphabetic sorts
on the value; any other key is used as a quoted column name.
*/
func (plan plan) aggregateStatement() Statement {
	args := &sqlArgs{}
	options := plan.options

	var queryBuilder strings.Builder
	queryBuilder.WriteString(plan.grouped(args, true))

	direction := "ASC"
	if options.SortOrder == SortDesc {
		direction = "DESC"
	}
	switch options.SortBy {
	case SortTotal:
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY total %s, val ASC", direction))
	case SortAlphabetic:
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY val %s", direction))
	default:
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s", pgx.Identifier{options.SortBy}.Sanitize(), direction))
	}

	if options.PerPage > 0 {
		page := pagination.Params{Page: options.Page, Limit: options.PerPage}
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT %s OFFSET %s", args.add(page.Limit), args.add(page.Offset())))
	}

	return Statement{SQL: queryBuilder.String(), Args: args.list()}
}

// countStatement counts the groups the list statement would return.
func (plan plan) countStatement() Statement {
	args := &sqlArgs{}
	sql := "SELECT COUNT(*) FROM (" + plan.grouped(args, false) + ") AS refs"
	return Statement{SQL: sql, Args: args.list()}
}

func pick(condition bool, yes, no string) string {
	if condition {
		return yes
	}
	return no
}

func appendNonEmpty(conditions []string, candidates ...string) []string {
	for _, candidate := range candidates {
		if candidate != "" {
			conditions = append(conditions, candidate)
		}
	}
	return conditions
}
