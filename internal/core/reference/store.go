// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import "context"

// # Reference Data Access

// ResourceValue is one value of a listed resource, used to project
// list_by_max entries.
type ResourceValue struct {
	ResourceID int
	PropertyID int
	Text       string
}

// Repository defines the read-only data access contract of the engine.
type Repository interface {
	TermStore

	/*
		Aggregate runs a statement built by the engine.

		Parameters:
		  - ctx: context.Context
		  - statement: Statement (SQL and positional arguments)

		Returns:
		  - []RawRow: Scanned rows in statement order
		  - error: Database execution errors
	*/
	Aggregate(ctx context.Context, statement Statement) ([]RawRow, error)

	// Count runs a single-value COUNT statement.
	Count(ctx context.Context, statement Statement) (int, error)

	/*
		ResourceValues fetches the values of some properties for a set of
		resources, in value order.

		Parameters:
		  - ctx: context.Context
		  - resourceIDs: []int
		  - propertyIDs: []int
		  - private: bool (include private values)

		Returns:
		  - []ResourceValue: Text of each value (literal, linked title or uri)
		  - error: Database execution errors
	*/
	ResourceValues(ctx context.Context, resourceIDs, propertyIDs []int, private bool) ([]ResourceValue, error)

	// SiteIDBySlug resolves a site slug. A missing site is a NOT_FOUND error.
	SiteIDBySlug(ctx context.Context, slug string) (int, error)
}
