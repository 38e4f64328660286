// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"strings"

	"github.com/taibuivan/references/internal/platform/database/schema"
	"github.com/taibuivan/references/internal/platform/validate"
	"github.com/taibuivan/references/pkg/slice"
)

// # Option Values

const (
	ResourceItems     = "items"
	ResourceItemSets  = "item_sets"
	ResourceMedia     = "media"
	ResourceResources = "resources"

	SortAlphabetic = "alphabetic"
	SortTotal      = "total"
	SortAsc        = "asc"
	SortDesc       = "desc"

	OutputList        = "list"
	OutputAssociative = "associative"
)

// Options controls one aggregation. Build it with [DefaultOptions] and call
// [Options.Normalize] before use.
type Options struct {
	// ResourceName is the scope: items, item_sets, media or resources.
	ResourceName string

	// PerPage of zero returns every reference. Page is 1-based.
	PerPage int
	Page    int

	// SortBy is alphabetic, total, or any output column name.
	SortBy    string
	SortOrder string

	// Filters
	Languages []string
	Datatypes []string
	Begin     []string
	End       []string
	Values    []string

	// Shape flags
	First    bool
	Initial  bool
	Distinct bool
	Datatype bool
	Lang     bool

	IncludeWithoutMeta bool

	// ListByMax bounds the resources listed under each reference, zero
	// disables the listing. ListFields projects each listed resource.
	ListByMax  int
	ListFields []string

	// Output is list or associative.
	Output string
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		ResourceName: ResourceItems,
		Page:         1,
		SortBy:       SortAlphabetic,
		SortOrder:    SortAsc,
		Output:       OutputList,
	}
}

/*
Normalize fills empty settings with their defaults and validates the rest.

Associative output only carries val → total, so it is downgraded to list when
any shape flag is requested.

Returns:
  - Options: The normalized copy
  - error: VALIDATION_ERROR listing every invalid setting
*/
func (options Options) Normalize() (Options, error) {
	defaults := DefaultOptions()

	if options.ResourceName == "" {
		options.ResourceName = defaults.ResourceName
	}
	if options.Page == 0 {
		options.Page = defaults.Page
	}
	if options.SortBy == "" {
		options.SortBy = defaults.SortBy
	}
	options.SortOrder = strings.ToLower(strings.TrimSpace(options.SortOrder))
	if options.SortOrder == "" {
		options.SortOrder = defaults.SortOrder
	}
	if options.Output == "" {
		options.Output = defaults.Output
	}

	validator := &validate.Validator{}
	validator.
		OneOf("resource_name", options.ResourceName, ResourceItems, ResourceItemSets, ResourceMedia, ResourceResources).
		OneOf("sort_order", options.SortOrder, SortAsc, SortDesc).
		OneOf("output", options.Output, OutputList, OutputAssociative).
		Min("per_page", options.PerPage, 0).
		Min("page", options.Page, 1).
		Min("list_by_max", options.ListByMax, 0)
	if err := validator.Err(); err != nil {
		return options, err
	}

	options.Languages = compact(options.Languages, true)
	options.Datatypes = compact(options.Datatypes, false)
	options.Begin = compact(options.Begin, false)
	options.End = compact(options.End, false)
	options.Values = compact(options.Values, false)
	options.ListFields = compact(options.ListFields, false)

	if options.Output == OutputAssociative && options.HasShape() {
		options.Output = OutputList
	}
	return options, nil
}

// HasShape reports whether a flag beyond val and total is requested.
func (options Options) HasShape() bool {
	return options.First || options.Initial || options.Distinct ||
		options.Datatype || options.Lang || options.ListByMax > 0
}

// ResourceType is the resource.resource_type of the scope, empty for all.
func (options Options) ResourceType() string {
	switch options.ResourceName {
	case ResourceItems:
		return schema.ResourceTypeItem
	case ResourceItemSets:
		return schema.ResourceTypeItemSet
	case ResourceMedia:
		return schema.ResourceTypeMedia
	default:
		return ""
	}
}

// compact drops duplicates and, unless keepEmpty, empty strings.
func compact(values []string, keepEmpty bool) []string {
	if len(values) == 0 {
		return nil
	}
	if !keepEmpty {
		values = slice.Filter(values, func(value string) bool { return value != "" })
	}
	return slice.Unique(values)
}
