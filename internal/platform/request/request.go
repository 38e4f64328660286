// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and the loose
query-string conventions of the host platform: list parameters may be sent
repeated (`lang=fr&lang=en`), with brackets (`lang[]=fr`) or comma separated
(`lang=fr,en`).
*/
package requestutil

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/references/pkg/convert"
	"github.com/taibuivan/references/pkg/query"
)

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
List collects every value of a list parameter.

Parameters:
  - values: url.Values (parsed query string)
  - key: string parameter name, without brackets

Returns:
  - []string: trimmed, non-empty values in request order
*/
func List(values url.Values, key string) []string {
	var result []string
	for _, name := range []string{key, key + "[]"} {
		for _, raw := range values[name] {
			result = append(result, query.StringSlice(raw)...)
		}
	}
	return result
}

/*
RawList collects every value of a list parameter verbatim, without splitting
on commas or trimming. Only empty values are dropped.

Use it for free text values (begin/end literals, value allow-lists) where
commas and surrounding spaces are part of the data.
*/
func RawList(values url.Values, key string) []string {
	var result []string
	for _, name := range []string{key, key + "[]"} {
		for _, raw := range values[name] {
			if raw != "" {
				result = append(result, raw)
			}
		}
	}
	return result
}

/*
Int reads an integer parameter, falling back to def when absent or invalid.
*/
func Int(values url.Values, key string, def int) int {
	return convert.ToIntD(values.Get(key), def)
}

/*
Bool reads a boolean flag. A bare flag (`first=`) counts as true.
*/
func Bool(values url.Values, key string) bool {
	raw, present := values[key]
	if !present {
		return false
	}
	if len(raw) == 0 || raw[0] == "" {
		return true
	}
	return convert.ToBool(raw[0])
}
