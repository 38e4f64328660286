// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference computes "references": the distinct values of a metadata
field across a resource corpus, with their resource counts.

# Core Responsibility

  - Resolution: Maps caller keys (ids, terms, labels) to a closed [FieldKind].
  - Query building: Assembles one parameterized aggregate statement per field,
    scoped by a search [Query] and filtered by [Options].
  - Shaping: Reshapes scalar rows into list or associative output.

A [Resolver] lives for one call to [Service.List] or [Service.Count]; nothing
is shared between requests except the read-only database.
*/
package reference

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// # Field Identity

// FieldKind is the closed set of axes a reference can be computed on.
type FieldKind int

const (
	KindUnknown FieldKind = iota
	KindProperty
	KindResourceClass
	KindResourceTemplate
	KindItemSet
	KindTitle
	KindPropertyAxis
	KindClassAxis
	KindTemplateAxis
	KindItemSetAxis
)

// Reserved field keys.
const (
	TermTitle            = "o:title"
	TermPropertyAxis     = "o:property"
	TermClassAxis        = "o:resource_class"
	TermTemplateAxis     = "o:resource_template"
	TermItemSetAxis      = "o:item_set"
	ListFieldID          = "o:id"
	ListFieldTitle       = "o:title"
	DatatypeURI          = "uri"
	DatatypeResourceBase = "resource"
)

// String returns the type name exposed in results.
func (kind FieldKind) String() string {
	switch kind {
	case KindProperty:
		return "properties"
	case KindResourceClass:
		return "resource_classes"
	case KindResourceTemplate:
		return "resource_templates"
	case KindItemSet:
		return "item_sets"
	case KindTitle:
		return "resource_titles"
	case KindPropertyAxis:
		return TermPropertyAxis
	case KindClassAxis:
		return TermClassAxis
	case KindTemplateAxis:
		return TermTemplateAxis
	case KindItemSetAxis:
		return TermItemSetAxis
	default:
		return "unknown"
	}
}

// IsAxis reports whether the values of the kind are other field identifiers.
func (kind FieldKind) IsAxis() bool {
	return kind >= KindPropertyAxis
}

// Field is the resolved identity of a requested axis. It is never modified
// after the resolver builds it.
type Field struct {
	Kind  FieldKind
	ID    int
	Term  string
	Label string
}

// # Results

// ResourceEntry is one resource listed under a reference by list_by_max.
// Fields is set when a projection was requested, Title otherwise.
type ResourceEntry struct {
	ID     int
	Title  string
	Fields Object
}

// ResourceList keeps listed resources in title order.
type ResourceList []ResourceEntry

// MarshalJSON encodes the list as an object keyed by resource id.
func (list ResourceList) MarshalJSON() ([]byte, error) {
	object := make(Object, 0, len(list))
	for _, entry := range list {
		var value any = entry.Title
		if entry.Fields != nil {
			value = entry.Fields
		}
		object = append(object, Member{Key: strconv.Itoa(entry.ID), Value: value})
	}
	return object.MarshalJSON()
}

// Row is one aggregated reference.
type Row struct {
	Val       string       `json:"val"`
	Total     int          `json:"total"`
	First     *int         `json:"first,omitempty"`
	Initial   string       `json:"initial,omitempty"`
	Type      string       `json:"type,omitempty"`
	Lang      string       `json:"lang,omitempty"`
	LinkedID  *int         `json:"value_resource_id,omitempty"`
	URI       string       `json:"uri,omitempty"`
	Resources ResourceList `json:"resources,omitempty"`
}

// FieldResult holds the references of one requested field.
type FieldResult struct {
	Key         string
	Field       Field
	Rows        []Row
	Associative bool
}

// MarshalJSON renders references as a list of rows, or as an ordered
// val → total object in associative mode.
func (result FieldResult) MarshalJSON() ([]byte, error) {
	var references any = result.Rows
	if result.Rows == nil {
		references = []Row{}
	}
	if result.Associative {
		totals := make(Object, 0, len(result.Rows))
		for _, row := range result.Rows {
			totals = append(totals, Member{Key: row.Val, Value: row.Total})
		}
		references = totals
	}

	var id *int
	if result.Field.ID > 0 {
		id = &result.Field.ID
	}

	return json.Marshal(struct {
		Type       string `json:"type"`
		ID         *int   `json:"id"`
		Term       string `json:"term"`
		Label      string `json:"label"`
		References any    `json:"references"`
	}{
		Type:       result.Field.Kind.String(),
		ID:         id,
		Term:       result.Field.Term,
		Label:      result.Field.Label,
		References: references,
	})
}

// Results maps each requested field key to its references, in request order.
type Results []FieldResult

// MarshalJSON encodes the results as an object keyed by field key.
func (results Results) MarshalJSON() ([]byte, error) {
	object := make(Object, 0, len(results))
	for _, result := range results {
		object = append(object, Member{Key: result.Key, Value: result})
	}
	return object.MarshalJSON()
}

// Get returns the result of a field key.
func (results Results) Get(key string) (FieldResult, bool) {
	for _, result := range results {
		if result.Key == key {
			return result, true
		}
	}
	return FieldResult{}, false
}

// FieldCount is the number of distinct references of one field.
type FieldCount struct {
	Key   string
	Count int
}

// Counts maps each requested field key to its count, in request order.
type Counts []FieldCount

// MarshalJSON encodes the counts as an object keyed by field key.
func (counts Counts) MarshalJSON() ([]byte, error) {
	object := make(Object, 0, len(counts))
	for _, count := range counts {
		object = append(object, Member{Key: count.Key, Value: count.Count})
	}
	return object.MarshalJSON()
}

// # Ordered JSON

// Member is one key/value pair of an [Object].
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object that keeps its insertion order.
type Object []Member

// MarshalJSON writes the members in order.
func (object Object) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for i, member := range object {
		if i > 0 {
			buffer.WriteByte(',')
		}
		key, err := json.Marshal(member.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(member.Value)
		if err != nil {
			return nil, err
		}
		buffer.Write(key)
		buffer.WriteByte(':')
		buffer.Write(value)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}
