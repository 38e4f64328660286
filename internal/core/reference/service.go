// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/references/internal/platform/ctxutil"
	"github.com/taibuivan/references/internal/platform/metrics"
)

// # Service Layer

// Service computes references. It holds no per-request state: every call
// builds its own [Resolver].
type Service struct {
	repo Repository
}

// NewService constructs a new reference [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

/*
List computes the references of each requested field.

The actor is read from the context: without the right to view private
resources, only public resources and values are counted. A field key that
resolves to nothing yields an empty result under that key.

Parameters:
  - ctx: context.Context (carries the actor)
  - keys: []string (field ids, terms, labels or reserved "o:" keys)
  - query: Query (resource scope)
  - options: Options (normalized here)

Returns:
  - Results: One entry per key, in request order
  - error: VALIDATION_ERROR for invalid options, storage failures otherwise
*/
func (service *Service) List(ctx context.Context, keys []string, query Query, options Options) (Results, error) {
	options, err := options.Normalize()
	if err != nil {
		return nil, err
	}

	resolver := NewResolver(service.repo)
	scope, err := service.scope(ctx, resolver, query, options)
	if err != nil {
		return nil, err
	}

	results := make(Results, 0, len(keys))
	for _, key := range keys {
		result := FieldResult{
			Key:         key,
			Field:       Field{Kind: KindUnknown, Term: key, Label: key},
			Rows:        []Row{},
			Associative: options.Output == OutputAssociative,
		}

		plan, found, err := service.plan(ctx, resolver, key, scope, options)
		if err != nil {
			return nil, err
		}
		if !found {
			results = append(results, result)
			continue
		}
		result.Field = plan.field

		started := time.Now()
		raw, err := service.repo.Aggregate(ctx, plan.aggregateStatement())
		metrics.AggregationDuration.WithLabelValues(plan.field.Kind.String()).Observe(time.Since(started).Seconds())
		if err != nil {
			return nil, err
		}

		result.Rows = shapeRows(raw, options)
		if options.ListByMax > 0 && len(options.ListFields) > 0 {
			if err := service.project(ctx, resolver, result.Rows, options.ListFields, scope.private); err != nil {
				return nil, err
			}
		}

		ctxutil.GetLogger(ctx).DebugContext(ctx, "references_computed",
			slog.String("field", key),
			slog.String("kind", plan.field.Kind.String()),
			slog.Int("rows", len(result.Rows)),
		)
		results = append(results, result)
	}

	return results, nil
}

/*
Count returns the number of distinct references of each requested field,
the same groups [Service.List] would return without pagination.

Unknown fields count 0.
*/
func (service *Service) Count(ctx context.Context, keys []string, query Query, options Options) (Counts, error) {
	options, err := options.Normalize()
	if err != nil {
		return nil, err
	}

	resolver := NewResolver(service.repo)
	scope, err := service.scope(ctx, resolver, query, options)
	if err != nil {
		return nil, err
	}

	counts := make(Counts, 0, len(keys))
	for _, key := range keys {
		plan, found, err := service.plan(ctx, resolver, key, scope, options)
		if err != nil {
			return nil, err
		}
		if !found {
			counts = append(counts, FieldCount{Key: key})
			continue
		}

		count, err := service.repo.Count(ctx, plan.countStatement())
		if err != nil {
			return nil, err
		}
		counts = append(counts, FieldCount{Key: key, Count: count})
	}
	return counts, nil
}

// SiteID resolves a site slug for the "site_slug" query parameter.
func (service *Service) SiteID(ctx context.Context, slug string) (int, error) {
	return service.repo.SiteIDBySlug(ctx, slug)
}

// # Internal Helpers

// scope resolves the properties of the advanced clauses.
func (service *Service) scope(ctx context.Context, resolver *Resolver, query Query, options Options) (scope, error) {
	result := scope{
		resourceType: options.ResourceType(),
		private:      ctxutil.CanViewPrivate(ctx),
		query:        query,
	}

	for _, clause := range query.Property {
		resolved := resolvedClause{joiner: clause.Joiner, op: clause.Type, text: clause.Text}

		property := strings.TrimSpace(clause.Property)
		if property == "" {
			resolved.anyProperty = true
		} else {
			field, found, err := resolver.Resolve(ctx, KindProperty, property)
			if err != nil {
				return scope{}, err
			}
			if found {
				resolved.propertyID = field.ID
			}
		}
		result.clauses = append(result.clauses, resolved)
	}
	return result, nil
}

// plan resolves one field key into a computation. Axis allow-lists are
// resolved to ids of the underlying kind.
func (service *Service) plan(ctx context.Context, resolver *Resolver, key string, scope scope, options Options) (plan, bool, error) {
	field, found, err := resolver.ResolveField(ctx, key)
	if err != nil || !found {
		return plan{}, false, err
	}

	result := plan{field: field, options: options, scope: scope}
	if field.Kind.IsAxis() && len(options.Values) > 0 {
		result.axisIDs, err = resolver.ResolveIDs(ctx, axisKind(field.Kind), options.Values)
		if err != nil {
			return plan{}, false, err
		}
	}
	return result, true, nil
}

// axisKind is the kind whose identifiers an axis lists.
func axisKind(kind FieldKind) FieldKind {
	switch kind {
	case KindPropertyAxis:
		return KindProperty
	case KindClassAxis:
		return KindResourceClass
	case KindTemplateAxis:
		return KindResourceTemplate
	case KindItemSetAxis:
		return KindItemSet
	default:
		return KindUnknown
	}
}

/*
project replaces the titles of listed resources by the requested fields, in
request order: "o:id", "o:title" or a property term (its values).

All listed resources of the field are fetched in one batch.
*/
func (service *Service) project(ctx context.Context, resolver *Resolver, rows []Row, listFields []string, private bool) error {
	propertyIDs := map[string]int{}
	var ids []int
	for _, key := range listFields {
		if key == ListFieldID || key == ListFieldTitle {
			continue
		}
		field, found, err := resolver.Resolve(ctx, KindProperty, key)
		if err != nil {
			return err
		}
		if found {
			propertyIDs[key] = field.ID
			ids = append(ids, field.ID)
		}
	}

	var resourceIDs []int
	for _, row := range rows {
		for _, entry := range row.Resources {
			resourceIDs = append(resourceIDs, entry.ID)
		}
	}

	values, err := service.repo.ResourceValues(ctx, resourceIDs, ids, private)
	if err != nil {
		return err
	}

	byResource := map[int]map[int][]string{}
	for _, value := range values {
		if byResource[value.ResourceID] == nil {
			byResource[value.ResourceID] = map[int][]string{}
		}
		byResource[value.ResourceID][value.PropertyID] = append(byResource[value.ResourceID][value.PropertyID], value.Text)
	}

	for r := range rows {
		for e := range rows[r].Resources {
			entry := &rows[r].Resources[e]
			fields := make(Object, 0, len(listFields))
			for _, key := range listFields {
				switch key {
				case ListFieldID:
					fields = append(fields, Member{Key: key, Value: entry.ID})
				case ListFieldTitle:
					fields = append(fields, Member{Key: key, Value: entry.Title})
				default:
					texts := []string{}
					if propertyID, ok := propertyIDs[key]; ok {
						if found := byResource[entry.ID][propertyID]; found != nil {
							texts = found
						}
					}
					fields = append(fields, Member{Key: key, Value: texts})
				}
			}
			entry.Fields = fields
		}
	}
	return nil
}
