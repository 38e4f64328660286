// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"encoding/json"
	"unicode"
	"unicode/utf8"

	"github.com/gosimple/unidecode"
)

// # Output Shaping

// shapeRows turns scanned rows into references according to the shape flags.
func shapeRows(raw []RawRow, options Options) []Row {
	rows := make([]Row, 0, len(raw))
	for _, item := range raw {
		row := Row{Val: item.Val, Total: item.Total}

		if options.First {
			row.First = item.First
		}
		if options.Initial {
			row.Initial = initialOf(item.Val)
		}
		if options.Datatype && item.Type != nil {
			row.Type = *item.Type
		}
		if options.Lang && item.Lang != nil {
			row.Lang = *item.Lang
		}
		if options.Distinct {
			row.LinkedID = item.LinkedID
			if item.URI != nil {
				row.URI = *item.URI
			}
		}
		if item.Listing != nil {
			row.Resources = parseListing(*item.Listing)
		}
		rows = append(rows, row)
	}
	return rows
}

/*
initialOf returns the upper-cased first letter of a value, transliterated to
ASCII when possible ("É" → "E", "Ж" → "Z").

A character without transliteration is kept as is.
*/
func initialOf(val string) string {
	first, size := utf8.DecodeRuneInString(val)
	if size == 0 || first == utf8.RuneError {
		return ""
	}

	ascii := unidecode.Unidecode(string(first))
	for _, r := range ascii {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return string(unicode.ToUpper(r))
		}
	}
	return string(unicode.ToUpper(first))
}

// parseListing decodes the JSON [[title, id], ...] array of a listing,
// skipping malformed entries.
func parseListing(listing string) ResourceList {
	if listing == "" {
		return nil
	}

	var entries [][2]json.RawMessage
	if err := json.Unmarshal([]byte(listing), &entries); err != nil || len(entries) == 0 {
		return nil
	}

	list := make(ResourceList, 0, len(entries))
	for _, entry := range entries {
		var title string
		var id int
		if json.Unmarshal(entry[0], &title) != nil || json.Unmarshal(entry[1], &id) != nil {
			continue
		}
		list = append(list, ResourceEntry{ID: id, Title: title})
	}
	return list
}
