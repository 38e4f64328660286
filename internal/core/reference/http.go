// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/references/internal/platform/apperr"
	requestutil "github.com/taibuivan/references/internal/platform/request"
	"github.com/taibuivan/references/internal/platform/respond"
	"github.com/taibuivan/references/pkg/convert"
	"github.com/taibuivan/references/pkg/pointer"
	"github.com/taibuivan/references/pkg/query"
	"github.com/taibuivan/references/pkg/slice"
)

// noLanguage is the languages entry selecting values without a language.
const noLanguage = "null"

// propertyParam matches the nested advanced search keys, such as
// "property[0][type]".
var propertyParam = regexp.MustCompile(`^property\[(\d+)\]\[(joiner|property|type|text)\](\[\])?$`)

// Handler implements the read-only HTTP layer of the reference engine.
type Handler struct {
	service *Service
}

// NewHandler constructs a new reference [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the reference endpoints.
// Only GET is routed; any other verb answers 405.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler)
	router.MethodNotAllowed(respond.MethodNotAllowedHandler)

	router.Get("/{resource}", handler.list)
	router.Get("/{resource}/count", handler.count)

	return router
}

/*
GET /api/v1/references/{resource}.

Description: Computes the references of the "metadata" fields over the
resources of the scope, filtered by the search query.

Request:
  - resource: string (items, item_sets, media, resources)
  - metadata: []string (field keys)
  - query and options parameters, see [ParseRequest]

Response:
  - 200: Results: References per field key
  - 400: VALIDATION_ERROR: Invalid options
  - 404: NOT_FOUND: Unknown resource scope or site slug
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	keys, searchQuery, options, err := handler.parse(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	results, err := handler.service.List(request.Context(), keys, searchQuery, options)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, results)
}

/*
GET /api/v1/references/{resource}/count.

Description: Counts the distinct references of each "metadata" field.

Response:
  - 200: Counts: Number of references per field key
*/
func (handler *Handler) count(writer http.ResponseWriter, request *http.Request) {
	keys, searchQuery, options, err := handler.parse(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	counts, err := handler.service.Count(request.Context(), keys, searchQuery, options)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, counts)
}

// parse reads the scope, fields, search query and options of a request and
// resolves "site_slug".
func (handler *Handler) parse(request *http.Request) ([]string, Query, Options, error) {
	resource := requestutil.Param(request, "resource")
	switch resource {
	case ResourceItems, ResourceItemSets, ResourceMedia, ResourceResources:
	default:
		return nil, Query{}, Options{}, apperr.NotFound("Resource type " + strconv.Quote(resource))
	}

	values := request.URL.Query()
	keys, searchQuery, options := ParseRequest(values)
	options.ResourceName = resource

	if slug := strings.TrimSpace(values.Get("site_slug")); slug != "" {
		siteID, err := handler.service.SiteID(request.Context(), slug)
		if err != nil {
			return nil, Query{}, Options{}, err
		}
		searchQuery.SiteID = siteID
	}

	return keys, searchQuery, options, nil
}

/*
ParseRequest maps query parameters to field keys, a search query and options.

Search query: id, resource_class_id, resource_template_id, item_set_id,
owner_id, is_public, site_id and property[i][joiner|property|type|text].

Options: sort_by, sort_order, per_page, page, lang (or languages; "null"
selects values without language), datatype, begin, end, values, first,
initial, distinct, datatype_output, lang_output, list_by_max, fields,
include_without_meta and output.
*/
func ParseRequest(values url.Values) ([]string, Query, Options) {
	keys := requestutil.List(values, "metadata")

	searchQuery := Query{
		IDs:                 query.IntSlice(requestutil.List(values, "id")),
		ResourceClassIDs:    query.IntSlice(requestutil.List(values, "resource_class_id")),
		ResourceTemplateIDs: query.IntSlice(requestutil.List(values, "resource_template_id")),
		ItemSetIDs:          query.IntSlice(requestutil.List(values, "item_set_id")),
		OwnerID:             requestutil.Int(values, "owner_id", 0),
		SiteID:              requestutil.Int(values, "site_id", 0),
		Property:            parsePropertyClauses(values),
	}
	if raw := strings.TrimSpace(values.Get("is_public")); raw != "" {
		searchQuery.IsPublic = pointer.To(convert.ToBool(raw))
	}

	languages := append(requestutil.List(values, "lang"), requestutil.List(values, "languages")...)
	for i, language := range languages {
		if language == noLanguage {
			languages[i] = ""
		}
	}

	options := DefaultOptions()
	options.SortBy = strings.TrimSpace(values.Get("sort_by"))
	options.SortOrder = values.Get("sort_order")
	options.PerPage = requestutil.Int(values, "per_page", 0)
	options.Page = requestutil.Int(values, "page", 1)
	options.Languages = languages
	options.Datatypes = requestutil.List(values, "datatype")
	// Affixes are trimmed; the allow-list matches exactly.
	options.Begin = slice.Map(requestutil.RawList(values, "begin"), strings.TrimSpace)
	options.End = slice.Map(requestutil.RawList(values, "end"), strings.TrimSpace)
	options.Values = requestutil.RawList(values, "values")
	options.First = requestutil.Bool(values, "first")
	options.Initial = requestutil.Bool(values, "initial")
	options.Distinct = requestutil.Bool(values, "distinct")
	options.Datatype = requestutil.Bool(values, "datatype_output")
	options.Lang = requestutil.Bool(values, "lang_output")
	options.IncludeWithoutMeta = requestutil.Bool(values, "include_without_meta")
	options.ListByMax = requestutil.Int(values, "list_by_max", 0)
	options.ListFields = requestutil.List(values, "fields")
	options.Output = strings.TrimSpace(values.Get("output"))

	return keys, searchQuery, options
}

// parsePropertyClauses collects property[i][...] keys, ordered by index.
// List texts sent as property[i][text][] are joined one per line.
func parsePropertyClauses(values url.Values) []PropertyClause {
	byIndex := map[int]*PropertyClause{}

	for key, raw := range values {
		match := propertyParam.FindStringSubmatch(key)
		if match == nil || len(raw) == 0 {
			continue
		}
		index, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		clause, ok := byIndex[index]
		if !ok {
			clause = &PropertyClause{}
			byIndex[index] = clause
		}

		switch match[2] {
		case "joiner":
			clause.Joiner = raw[0]
		case "property":
			clause.Property = raw[0]
		case "type":
			clause.Type = raw[0]
		case "text":
			clause.Text = strings.Join(raw, "\n")
		}
	}

	indexes := make([]int, 0, len(byIndex))
	for index := range byIndex {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	clauses := make([]PropertyClause, 0, len(indexes))
	for _, index := range indexes {
		clauses = append(clauses, *byIndex[index])
	}
	return clauses
}
