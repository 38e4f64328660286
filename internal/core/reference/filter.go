// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"regexp"
	"strings"
)

// maxLikeLiterals is the largest begin/end set written as LIKE predicates.
// Larger sets become one regular expression.
const maxLikeLiterals = 20

// # Value Filters

// datatypeFilter restricts values to the given datatypes.
func datatypeFilter(args *sqlArgs, column string, datatypes []string) string {
	if len(datatypes) == 0 {
		return ""
	}
	return column + " = ANY(" + args.add(datatypes) + ")"
}

// languageFilter restricts values to the given languages. The empty
// language also matches values without a language.
func languageFilter(args *sqlArgs, column string, languages []string) string {
	if len(languages) == 0 {
		return ""
	}

	withoutLanguage := false
	for _, language := range languages {
		if language == "" {
			withoutLanguage = true
			break
		}
	}

	condition := column + " = ANY(" + args.add(languages) + ")"
	if withoutLanguage {
		condition = "(" + condition + " OR " + column + " IS NULL OR " + column + " = '')"
	}
	return condition
}

/*
affixFilter keeps values starting (or, with suffix, ending) with one of the
literals.

  - 1 literal: a single LIKE
  - 2 to 20 literals: an OR of LIKE
  - more: one anchored regular expression alternation

Wildcards and regular expression metacharacters in literals match literally.
*/
func affixFilter(args *sqlArgs, expression string, literals []string, suffix bool) string {
	if len(literals) == 0 {
		return ""
	}

	if len(literals) > maxLikeLiterals {
		quoted := make([]string, 0, len(literals))
		for _, literal := range literals {
			quoted = append(quoted, regexp.QuoteMeta(literal))
		}
		pattern := "^(" + strings.Join(quoted, "|") + ")"
		if suffix {
			pattern = "(" + strings.Join(quoted, "|") + ")$"
		}
		return expression + " ~ " + args.add(pattern)
	}

	predicates := make([]string, 0, len(literals))
	for _, literal := range literals {
		pattern := escapeLike(literal) + "%"
		if suffix {
			pattern = "%" + escapeLike(literal)
		}
		predicates = append(predicates, expression+" LIKE "+args.add(pattern)+` ESCAPE '\'`)
	}
	if len(predicates) == 1 {
		return predicates[0]
	}
	return "(" + strings.Join(predicates, " OR ") + ")"
}

// valuesFilter keeps the aggregated values of an exact allow-list.
func valuesFilter(args *sqlArgs, expression string, values []string) string {
	if len(values) == 0 {
		return ""
	}
	return expression + " = ANY(" + args.add(values) + ")"
}

// idsFilter keeps the axis entries of an allow-list resolved to ids. When
// nothing resolved the filter still applies and matches nothing.
func idsFilter(args *sqlArgs, column string, ids []int) string {
	if len(ids) == 0 {
		return "FALSE"
	}
	return column + " = ANY(" + args.add(ids) + ")"
}
