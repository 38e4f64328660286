// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

// # Search Query

// Query restricts the resources a reference is computed on. Zero values
// impose no restriction.
type Query struct {
	IDs                 []int
	ResourceClassIDs    []int
	ResourceTemplateIDs []int
	ItemSetIDs          []int
	OwnerID             int
	IsPublic            *bool
	SiteID              int

	// Property holds the advanced search clauses, combined in order.
	Property []PropertyClause
}

// PropertyClause is one advanced search clause.
//
// Property is an id or a term; empty matches any property. Text is the
// compared literal; list operators take one value per line.
type PropertyClause struct {
	Joiner   string `json:"joiner,omitempty"   yaml:"joiner"`
	Property string `json:"property,omitempty" yaml:"property"`
	Type     string `json:"type"               yaml:"type"`
	Text     string `json:"text,omitempty"     yaml:"text"`
}

// Clause operators.
const (
	OpEq    = "eq"
	OpNeq   = "neq"
	OpIn    = "in"
	OpNin   = "nin"
	OpList  = "list"
	OpNlist = "nlist"
	OpSw    = "sw"
	OpNsw   = "nsw"
	OpEw    = "ew"
	OpNew   = "new"
	OpRes   = "res"
	OpNres  = "nres"
	OpEx    = "ex"
	OpNex   = "nex"
	OpGt    = "gt"
	OpGte   = "gte"
	OpLt    = "lt"
	OpLte   = "lte"

	JoinerAnd = "and"
	JoinerOr  = "or"
)

// negated maps each negative operator to the positive one it excludes.
var negated = map[string]string{
	OpNeq:   OpEq,
	OpNin:   OpIn,
	OpNlist: OpList,
	OpNsw:   OpSw,
	OpNew:   OpEw,
	OpNres:  OpRes,
	OpNex:   OpEx,
}

// resolvedClause is a [PropertyClause] whose property has been resolved.
// An unresolvable property keeps propertyID 0, which no value carries.
type resolvedClause struct {
	joiner      string
	anyProperty bool
	propertyID  int
	op          string
	text        string
}

// scope is everything that selects the resources of one computation.
type scope struct {
	resourceType string
	private      bool
	query        Query
	clauses      []resolvedClause
}
