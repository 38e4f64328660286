// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metadata

import (
	"context"
	"log/slog"

	"github.com/taibuivan/references/internal/platform/constants"
)

// Extractor derives the cache rows of resources.
//
// # Concurrency
//
// An Extractor memoizes linked titles and is not safe for concurrent use.
// The job creates one per run.
type Extractor struct {
	store  Store
	logger *slog.Logger
	titles map[titleKey]TitleResult
}

type titleKey struct {
	id         int
	visibility Visibility
}

// NewExtractor constructs an [Extractor] reading linked titles from store.
func NewExtractor(store Store, logger *slog.Logger) *Extractor {
	return &Extractor{store: store, logger: logger, titles: map[titleKey]TitleResult{}}
}

/*
Extract derives the rows of one resource for one visibility.

Description: Each value contributes to the row of its (property, language)
pair and, for the title and description properties, to the display row of
its language. The first value seen wins in both cases. A public extraction
skips private values, and a private resource yields nothing.

Parameters:
  - ctx: context.Context
  - resource: Resource (values ordered by id)
  - visibility: Visibility (public or private)

Returns:
  - []Row: Rows flagged is_public for a public extraction
  - error: Storage failures while following linked titles
*/
func (extractor *Extractor) Extract(ctx context.Context, resource Resource, visibility Visibility) ([]Row, error) {
	if visibility == Public && !resource.IsPublic {
		return nil, nil
	}

	var rows []Row
	seen := map[string]bool{}

	emit := func(value Value, field, text string) {
		key := field + "\x00" + value.Lang
		if seen[key] {
			return
		}
		seen[key] = true
		rows = append(rows, Row{
			ResourceID: resource.ID,
			ValueID:    value.ID,
			Field:      field,
			Lang:       value.Lang,
			IsPublic:   visibility == Public,
			Text:       text,
		})
	}

	for _, value := range resource.Values {
		if visibility == Public && !value.IsPublic {
			continue
		}

		text, err := extractor.valueText(ctx, resource.ID, value, visibility)
		if err != nil {
			return nil, err
		}
		if text == "" {
			continue
		}

		switch value.PropertyID {
		case resource.TitlePropertyID:
			emit(value, FieldDisplayTitle, text)
		case resource.DescriptionPropertyID:
			emit(value, FieldDisplayDescription, text)
		}
		emit(value, value.Term, text)
	}

	return rows, nil
}

// valueText is the literal, the linked resource title, or the uri.
func (extractor *Extractor) valueText(ctx context.Context, resourceID int, value Value, visibility Visibility) (string, error) {
	if value.LinkedID != nil {
		result, err := extractor.Title(ctx, *value.LinkedID, visibility)
		if err != nil {
			return "", err
		}
		if result.Truncated {
			extractor.logger.WarnContext(ctx, "metadata_title_truncated",
				slog.Int("resource_id", resourceID),
				slog.Int("linked_id", *value.LinkedID),
				slog.Int("max_depth", constants.MaxTitleDepth),
			)
		}
		return result.Text, nil
	}

	if value.Text != "" {
		return value.Text, nil
	}
	return value.URI, nil
}

/*
Title resolves the title text of a resource, following title values that
link to other resources.

The walk stops after [constants.MaxTitleDepth] links. The materialized title
of the resource reached is then used and the result is marked Truncated. An
invisible or missing resource has an empty title.
*/
func (extractor *Extractor) Title(ctx context.Context, resourceID int, visibility Visibility) (TitleResult, error) {
	key := titleKey{id: resourceID, visibility: visibility}
	if result, ok := extractor.titles[key]; ok {
		return result, nil
	}

	result, err := extractor.walkTitle(ctx, resourceID, visibility)
	if err != nil {
		return TitleResult{}, err
	}
	extractor.titles[key] = result
	return result, nil
}

func (extractor *Extractor) walkTitle(ctx context.Context, resourceID int, visibility Visibility) (TitleResult, error) {
	current := resourceID
	for depth := 0; ; depth++ {
		link, found, err := extractor.store.TitleLink(ctx, current, visibility == Private)
		if err != nil {
			return TitleResult{}, err
		}
		if !found {
			return TitleResult{}, nil
		}

		if depth == constants.MaxTitleDepth {
			return TitleResult{Text: link.Title, Truncated: true}, nil
		}
		if link.LinkedID == nil {
			return TitleResult{Text: firstNonEmpty(link.Text, link.URI, link.Title)}, nil
		}
		current = *link.LinkedID
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
