// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"fmt"
	"strings"

	"github.com/taibuivan/references/internal/platform/database/schema"
	"github.com/taibuivan/references/pkg/convert"
)

// # Resource Scope

/*
sql writes the sub-select of the resource ids a computation runs on.

The sub-select uses its own aliases (sr, pvN, prN) so it can be embedded in
any aggregate statement as "r.id IN (...)". A malformed date literal in an
advanced clause turns the whole scope into a match-nothing predicate.
*/
func (scope scope) sql(args *sqlArgs) string {
	if hasMalformedDate(scope.clauses) {
		return fmt.Sprintf("SELECT sr.id FROM %s sr WHERE FALSE", schema.Resource.Table)
	}

	var queryBuilder strings.Builder
	conditions := []string{}

	if scope.resourceType != "" {
		conditions = append(conditions, "sr.resource_type = "+args.add(scope.resourceType))
	}
	if !scope.private {
		conditions = append(conditions, "sr.is_public")
	}

	query := scope.query
	if len(query.IDs) > 0 {
		conditions = append(conditions, "sr.id = ANY("+args.add(query.IDs)+")")
	}
	if len(query.ResourceClassIDs) > 0 {
		conditions = append(conditions, "sr.resource_class_id = ANY("+args.add(query.ResourceClassIDs)+")")
	}
	if len(query.ResourceTemplateIDs) > 0 {
		conditions = append(conditions, "sr.resource_template_id = ANY("+args.add(query.ResourceTemplateIDs)+")")
	}
	if query.OwnerID > 0 {
		conditions = append(conditions, "sr.owner_id = "+args.add(query.OwnerID))
	}
	if query.IsPublic != nil {
		conditions = append(conditions, "sr.is_public = "+args.add(*query.IsPublic))
	}
	if len(query.ItemSetIDs) > 0 {
		conditions = append(conditions, itemSetCondition(args.add(query.ItemSetIDs), scope.resourceType))
	}
	if query.SiteID > 0 {
		conditions = append(conditions, siteCondition(args.add(query.SiteID), scope.resourceType))
	}

	joins, where := writeClauses(args, scope.clauses, scope.private)
	if where != "" {
		conditions = append(conditions, "("+where+")")
	}

	queryBuilder.WriteString(fmt.Sprintf("SELECT sr.id FROM %s sr", schema.Resource.Table))
	queryBuilder.WriteString(joins)
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	return queryBuilder.String()
}

// itemSetCondition restricts resources to members of item sets. Media
// belong through their item; item sets match themselves.
func itemSetCondition(placeholder, resourceType string) string {
	items := fmt.Sprintf("sr.id IN (SELECT iis.%s FROM %s iis WHERE iis.%s = ANY(%s))",
		schema.ItemItemSet.ItemID, schema.ItemItemSet.Table, schema.ItemItemSet.ItemSetID, placeholder)

	switch resourceType {
	case schema.ResourceTypeItemSet:
		return "sr.id = ANY(" + placeholder + ")"
	case schema.ResourceTypeMedia:
		return fmt.Sprintf("sr.id IN (SELECT m.id FROM %s m JOIN %s iis ON iis.%s = m.%s WHERE iis.%s = ANY(%s))",
			schema.Media.Table, schema.ItemItemSet.Table, schema.ItemItemSet.ItemID, schema.Media.ItemID,
			schema.ItemItemSet.ItemSetID, placeholder)
	default:
		return items
	}
}

// siteCondition restricts resources to the ones attached to a site.
func siteCondition(placeholder, resourceType string) string {
	items := fmt.Sprintf("sr.id IN (SELECT isi.%s FROM %s isi WHERE isi.%s = %s)",
		schema.ItemSite.ItemID, schema.ItemSite.Table, schema.ItemSite.SiteID, placeholder)
	itemSets := fmt.Sprintf("sr.id IN (SELECT sis.%s FROM %s sis WHERE sis.%s = %s)",
		schema.SiteItemSet.ItemSetID, schema.SiteItemSet.Table, schema.SiteItemSet.SiteID, placeholder)

	switch resourceType {
	case schema.ResourceTypeItem:
		return items
	case schema.ResourceTypeItemSet:
		return itemSets
	case schema.ResourceTypeMedia:
		return fmt.Sprintf("sr.id IN (SELECT m.id FROM %s m JOIN %s isi ON isi.%s = m.%s WHERE isi.%s = %s)",
			schema.Media.Table, schema.ItemSite.Table, schema.ItemSite.ItemID, schema.Media.ItemID,
			schema.ItemSite.SiteID, placeholder)
	default:
		return "(" + items + " OR " + itemSets + ")"
	}
}

// # Advanced Property Clauses

/*
writeClauses translates advanced clauses into joins and one combined
predicate.

Each clause gets its own outer join on value (pvN) and linked resource
(prN). A positive clause filters on the joined row; a negative clause moves
its match into the join condition and requires that nothing joined, so a
resource without any value for the property satisfies it. Clauses combine
left to right with their joiner; the joiner of the first one is ignored.

Returns:
  - string: The joins, each with a leading space
  - string: The predicate, empty when no clause applies
*/
func writeClauses(args *sqlArgs, clauses []resolvedClause, private bool) (string, string) {
	var joins strings.Builder
	where := ""

	for i, clause := range clauses {
		op := strings.ToLower(strings.TrimSpace(clause.op))
		text := strings.TrimSpace(clause.text)

		positive, negative := op, false
		if base, ok := negated[op]; ok {
			positive, negative = base, true
		}
		if text == "" && positive != OpEx {
			continue
		}

		value := fmt.Sprintf("pv%d", i)
		linked := fmt.Sprintf("pr%d", i)

		condition, known := clauseCondition(args, positive, value, linked, text)
		if !known {
			continue
		}

		on := fmt.Sprintf("%s.resource_id = sr.id", value)
		if !clause.anyProperty {
			on += fmt.Sprintf(" AND %s.property_id = %s", value, args.add(clause.propertyID))
		}
		linkedOn := fmt.Sprintf("%s.id = %s.value_resource_id", linked, value)
		if !private {
			on += fmt.Sprintf(" AND %s.is_public", value)
			linkedOn += fmt.Sprintf(" AND %s.is_public", linked)
		}

		predicate := condition
		if negative {
			if positive != OpEx {
				on += " AND " + condition
			}
			predicate = fmt.Sprintf("%s.id IS NULL", value)
		}

		joins.WriteString(fmt.Sprintf(" LEFT JOIN (%s %s LEFT JOIN %s %s ON %s) ON %s",
			schema.Value.Table, value, schema.Resource.Table, linked, linkedOn, on))

		switch {
		case where == "":
			where = predicate
		case strings.ToLower(strings.TrimSpace(clause.joiner)) == JoinerOr:
			where = fmt.Sprintf("(%s) OR (%s)", where, predicate)
		default:
			where = fmt.Sprintf("(%s) AND (%s)", where, predicate)
		}
	}

	return joins.String(), where
}

// hasMalformedDate reports whether a date clause carries an unparsable
// literal. It runs before any argument is bound.
func hasMalformedDate(clauses []resolvedClause) bool {
	for _, clause := range clauses {
		text := strings.TrimSpace(clause.text)
		switch strings.ToLower(strings.TrimSpace(clause.op)) {
		case OpGt, OpGte, OpLt, OpLte:
			if _, ok := parseDateRange(text); text != "" && !ok {
				return true
			}
		}
	}
	return false
}

/*
clauseCondition returns the match of a positive operator on the joined value.

Text operators compare the literal value, the linked resource title and the
uri. Pattern operators (in, sw, ew) are case-insensitive; eq and list are
exact.

Returns:
  - string: The SQL condition
  - bool: false for an unknown operator or a malformed date, both skipped
*/
func clauseCondition(args *sqlArgs, op, value, linked, text string) (string, bool) {
	anyOf := func(operator, placeholder string) string {
		return fmt.Sprintf("(%[1]s.value %[3]s %[4]s OR %[2]s.title %[3]s %[4]s OR %[1]s.uri %[3]s %[4]s)",
			value, linked, operator, placeholder)
	}

	switch op {
	case OpEq:
		return anyOf("=", args.add(text)), true
	case OpIn:
		return anyOf(`ILIKE`, args.add("%"+escapeLike(text)+"%")+` ESCAPE '\'`), true
	case OpSw:
		return anyOf(`ILIKE`, args.add(escapeLike(text)+"%")+` ESCAPE '\'`), true
	case OpEw:
		return anyOf(`ILIKE`, args.add("%"+escapeLike(text))+` ESCAPE '\'`), true
	case OpList:
		placeholder := args.add(splitLines(text))
		return fmt.Sprintf("(%[1]s.value = ANY(%[3]s) OR %[2]s.title = ANY(%[3]s) OR %[1]s.uri = ANY(%[3]s))",
			value, linked, placeholder), true
	case OpRes:
		return fmt.Sprintf("%s.value_resource_id = %s", value, args.add(convert.ToInt(text))), true
	case OpEx:
		return fmt.Sprintf("%s.id IS NOT NULL", value), true
	case OpGt, OpGte, OpLt, OpLte:
		dates, ok := parseDateRange(text)
		if !ok {
			return "", false
		}
		bound, operator := dates.start, ">="
		switch op {
		case OpGt:
			bound, operator = dates.end, ">"
		case OpLt:
			operator = "<"
		case OpLte:
			bound, operator = dates.end, "<="
		}
		return fmt.Sprintf("%s.value %s %s", value, operator, args.add(bound)), true
	default:
		return "", false
	}
}

// splitLines returns the trimmed non-empty lines of a list literal.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(lineEndings.Replace(text), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// escapeLike escapes the LIKE wildcards of a literal for ESCAPE '\'.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
