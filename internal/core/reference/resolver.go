// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"strconv"
	"strings"
)

// Term is one entry of a lookup table: a property, class, template or item set.
type Term struct {
	ID    int
	Term  string
	Label string
}

// TermStore loads the full lookup table of a kind in one read.
type TermStore interface {
	LoadTerms(ctx context.Context, kind FieldKind) ([]Term, error)
}

// termTable indexes one kind by id and by term or label.
type termTable struct {
	byID  map[int]Term
	byKey map[string]Term
}

/*
Resolver maps caller keys to fields.

Each kind is loaded at most once per resolver, on first use. A Resolver is
built per request and is not safe for concurrent use.
*/
type Resolver struct {
	store  TermStore
	tables map[FieldKind]*termTable
}

// NewResolver constructs a request scoped [Resolver].
func NewResolver(store TermStore) *Resolver {
	return &Resolver{store: store, tables: make(map[FieldKind]*termTable)}
}

/*
Resolve maps a numeric id, a "prefix:local_name" term or a label to a field
of the given kind.

Returns:
  - Field: The resolved field
  - bool: false when nothing matches
  - error: Storage failures only
*/
func (resolver *Resolver) Resolve(ctx context.Context, kind FieldKind, key string) (Field, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Field{}, false, nil
	}

	table, err := resolver.table(ctx, kind)
	if err != nil {
		return Field{}, false, err
	}

	var term Term
	var found bool
	if id, convErr := strconv.Atoi(key); convErr == nil {
		term, found = table.byID[id]
	} else {
		term, found = table.byKey[key]
	}
	if !found {
		return Field{}, false, nil
	}

	return Field{Kind: kind, ID: term.ID, Term: term.Term, Label: term.Label}, true, nil
}

// ResolveIDs maps keys to ids of one kind, dropping the keys that do not
// resolve.
func (resolver *Resolver) ResolveIDs(ctx context.Context, kind FieldKind, keys []string) ([]int, error) {
	ids := make([]int, 0, len(keys))
	for _, key := range keys {
		field, found, err := resolver.Resolve(ctx, kind, key)
		if err != nil {
			return nil, err
		}
		if found {
			ids = append(ids, field.ID)
		}
	}
	return ids, nil
}

/*
ResolveField maps a requested field key to its descriptor.

Reserved "o:" keys are matched first; then the key is tried as a property,
a resource class, a resource template and an item set, in that order.
*/
func (resolver *Resolver) ResolveField(ctx context.Context, key string) (Field, bool, error) {
	key = strings.TrimSpace(key)

	switch key {
	case TermTitle:
		return Field{Kind: KindTitle, Term: TermTitle, Label: "Title"}, true, nil
	case TermPropertyAxis:
		return Field{Kind: KindPropertyAxis, Term: TermPropertyAxis, Label: "Properties"}, true, nil
	case TermClassAxis:
		return Field{Kind: KindClassAxis, Term: TermClassAxis, Label: "Resource classes"}, true, nil
	case TermTemplateAxis:
		return Field{Kind: KindTemplateAxis, Term: TermTemplateAxis, Label: "Resource templates"}, true, nil
	case TermItemSetAxis:
		return Field{Kind: KindItemSetAxis, Term: TermItemSetAxis, Label: "Item sets"}, true, nil
	}

	for _, kind := range []FieldKind{KindProperty, KindResourceClass, KindResourceTemplate, KindItemSet} {
		field, found, err := resolver.Resolve(ctx, kind, key)
		if err != nil || found {
			return field, found, err
		}
	}
	return Field{}, false, nil
}

// table returns the lookup table of a kind, loading it on first use.
func (resolver *Resolver) table(ctx context.Context, kind FieldKind) (*termTable, error) {
	if table, ok := resolver.tables[kind]; ok {
		return table, nil
	}

	terms, err := resolver.store.LoadTerms(ctx, kind)
	if err != nil {
		return nil, err
	}

	table := &termTable{
		byID:  make(map[int]Term, len(terms)),
		byKey: make(map[string]Term, len(terms)*2),
	}
	// Labels are indexed first so a term always wins over a colliding label.
	for _, term := range terms {
		table.byID[term.ID] = term
		if term.Label != "" {
			if _, taken := table.byKey[term.Label]; !taken {
				table.byKey[term.Label] = term
			}
		}
	}
	for _, term := range terms {
		if term.Term != "" {
			table.byKey[term.Term] = term
		}
	}

	resolver.tables[kind] = table
	return table, nil
}
