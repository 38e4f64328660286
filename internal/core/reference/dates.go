// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"strings"
	"time"
)

// dateFormat is the sortable form stored date values are compared against.
const dateFormat = "2006-01-02T15:04:05"

// datePrecision is one accepted input layout and the unit it stops at.
type datePrecision struct {
	layout string
	unit   string
}

// Layouts from the least to the most precise.
var dateLayouts = []datePrecision{
	{"2006", "year"},
	{"2006-01", "month"},
	{"2006-01-02", "day"},
	{"2006-01-02T15", "hour"},
	{"2006-01-02T15:04", "minute"},
	{"2006-01-02T15:04:05", "second"},
}

// dateRange is the first and last second a partial date literal covers.
type dateRange struct {
	start string
	end   string
}

/*
parseDateRange reads a partial ISO-8601 literal ("2020", "2020-05",
"2020-05-06T10:20") and widens it to the range of seconds it denotes.

A space is accepted in place of the "T" separator.

Returns:
  - dateRange: Start and end formatted as YYYY-MM-DDTHH:MM:SS
  - bool: false when the literal matches no layout
*/
func parseDateRange(text string) (dateRange, bool) {
	text = strings.Replace(strings.TrimSpace(text), " ", "T", 1)

	for _, precision := range dateLayouts {
		start, err := time.Parse(precision.layout, text)
		if err != nil {
			continue
		}
		return dateRange{
			start: start.Format(dateFormat),
			end:   endOf(start, precision.unit).Format(dateFormat),
		}, true
	}
	return dateRange{}, false
}

// endOf returns the last second of the unit starting at start.
func endOf(start time.Time, unit string) time.Time {
	var next time.Time
	switch unit {
	case "year":
		next = start.AddDate(1, 0, 0)
	case "month":
		next = start.AddDate(0, 1, 0)
	case "day":
		next = start.AddDate(0, 0, 1)
	case "hour":
		next = start.Add(time.Hour)
	case "minute":
		next = start.Add(time.Minute)
	default:
		return start
	}
	return next.Add(-time.Second)
}
