// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/references/internal/core/reference"
	"github.com/taibuivan/references/internal/core/tree"
	"github.com/taibuivan/references/internal/platform/validate"
	"github.com/taibuivan/references/pkg/slug"
)

// # File Format

type document struct {
	Pages []definition `yaml:"pages"`
}

type definition struct {
	Slug       string            `yaml:"slug"`
	Title      string            `yaml:"title"`
	Resource   string            `yaml:"resource"`
	Fields     []string          `yaml:"fields"`
	Query      queryDefinition   `yaml:"query"`
	Options    optionsDefinition `yaml:"options"`
	Tree       string            `yaml:"tree"`
	TreeLevels *levelMap         `yaml:"tree_levels"`
	Branch     bool              `yaml:"branch"`
}

type queryDefinition struct {
	IDs                 []int                      `yaml:"id"`
	ResourceClassIDs    []int                      `yaml:"resource_class_id"`
	ResourceTemplateIDs []int                      `yaml:"resource_template_id"`
	ItemSetIDs          []int                      `yaml:"item_set_id"`
	OwnerID             int                        `yaml:"owner_id"`
	IsPublic            *bool                      `yaml:"is_public"`
	SiteID              int                        `yaml:"site_id"`
	Property            []reference.PropertyClause `yaml:"property"`
}

type optionsDefinition struct {
	SortBy             string    `yaml:"sort_by"`
	SortOrder          string    `yaml:"sort_order"`
	PerPage            int       `yaml:"per_page"`
	Languages          []*string `yaml:"languages"`
	Datatypes          []string  `yaml:"datatypes"`
	Begin              []string  `yaml:"begin"`
	End                []string  `yaml:"end"`
	Values             []string  `yaml:"values"`
	First              bool      `yaml:"first"`
	Initial            bool      `yaml:"initial"`
	Distinct           bool      `yaml:"distinct"`
	Datatype           bool      `yaml:"datatype_output"`
	Lang               bool      `yaml:"lang_output"`
	IncludeWithoutMeta bool      `yaml:"include_without_meta"`
	ListByMax          int       `yaml:"list_by_max"`
	ListFields         []string  `yaml:"list_fields"`
	Output             string    `yaml:"output"`
}

// levelMap decodes the legacy "label: level" tree mapping, keeping the
// authored key order.
type levelMap tree.LevelMap

func (levels *levelMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: tree_levels must be a mapping of label to level", node.Line)
	}

	levels.Keys = make([]string, 0, len(node.Content)/2)
	levels.Levels = make(map[string]int, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var label string
		var level int
		if err := node.Content[i].Decode(&label); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&level); err != nil {
			return err
		}
		if _, seen := levels.Levels[label]; !seen {
			levels.Keys = append(levels.Keys, label)
		}
		levels.Levels[label] = level
	}
	return nil
}

// # Loading

// LoadFile reads and parses a pages file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pages: read %s: %w", path, err)
	}
	return Parse(data)
}

/*
Parse decodes and validates a pages document.

Unknown keys are rejected. A page without slug takes the slug of its title.
An empty document yields an empty catalog.
*/
func Parse(data []byte) (*Catalog, error) {
	var doc document

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("pages: decode: %w", err)
	}

	pages := make([]Page, 0, len(doc.Pages))
	seen := make(map[string]bool, len(doc.Pages))
	for i, def := range doc.Pages {
		page, err := def.page()
		if err == nil && seen[page.Slug] {
			err = (&validate.Validator{}).Custom("slug", true, "Duplicate page slug").Err()
		}
		if err != nil {
			return nil, fmt.Errorf("pages: page %d (%q): %w", i+1, page.Slug, err)
		}
		seen[page.Slug] = true
		pages = append(pages, page)
	}

	return NewCatalog(pages), nil
}

func (def definition) page() (Page, error) {
	page := Page{
		Slug:     strings.TrimSpace(def.Slug),
		Title:    strings.TrimSpace(def.Title),
		Resource: strings.TrimSpace(def.Resource),
		Fields:   def.Fields,
		Branch:   def.Branch,
		Query: reference.Query{
			IDs:                 def.Query.IDs,
			ResourceClassIDs:    def.Query.ResourceClassIDs,
			ResourceTemplateIDs: def.Query.ResourceTemplateIDs,
			ItemSetIDs:          def.Query.ItemSetIDs,
			OwnerID:             def.Query.OwnerID,
			IsPublic:            def.Query.IsPublic,
			SiteID:              def.Query.SiteID,
			Property:            def.Query.Property,
		},
	}
	if page.Slug == "" {
		page.Slug = slug.From(page.Title)
	}
	if page.Resource == "" {
		page.Resource = reference.ResourceItems
	}
	if page.Title == "" {
		page.Title = page.Slug
	}

	validator := &validate.Validator{}
	validator.
		Slug("slug", page.Slug).
		OneOf("resource", page.Resource,
			reference.ResourceItems, reference.ResourceItemSets, reference.ResourceMedia, reference.ResourceResources).
		Custom("tree", def.Tree != "" && def.TreeLevels != nil, "Use either tree or tree_levels")
	if err := validator.Err(); err != nil {
		return page, err
	}

	options, err := def.Options.options(page.Resource)
	if err != nil {
		return page, err
	}
	page.Options = options

	switch {
	case def.Tree != "":
		page.Tree = tree.TextToNodes(def.Tree)
	case def.TreeLevels != nil:
		page.Tree = tree.TextToNodes(tree.FlatLevelsToText(tree.LevelMap(*def.TreeLevels)))
	}

	return page, nil
}

func (def optionsDefinition) options(resource string) (reference.Options, error) {
	options := reference.DefaultOptions()
	options.ResourceName = resource
	options.SortBy = def.SortBy
	options.SortOrder = def.SortOrder
	options.PerPage = def.PerPage
	options.Datatypes = def.Datatypes
	options.Begin = def.Begin
	options.End = def.End
	options.Values = def.Values
	options.First = def.First
	options.Initial = def.Initial
	options.Distinct = def.Distinct
	options.Datatype = def.Datatype
	options.Lang = def.Lang
	options.IncludeWithoutMeta = def.IncludeWithoutMeta
	options.ListByMax = def.ListByMax
	options.ListFields = def.ListFields
	options.Output = def.Output

	// A bare null entry or the "null" token selects values without language.
	for _, language := range def.Languages {
		if language == nil || *language == "null" {
			options.Languages = append(options.Languages, "")
			continue
		}
		options.Languages = append(options.Languages, *language)
	}

	return options.Normalize()
}
