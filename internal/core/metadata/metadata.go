// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metadata maintains the reference_metadata cache table.

For every resource the [Extractor] derives denormalized (field, language,
text) rows: one per property and language present on the resource, plus the
synthetic display_title and display_description rows. The [Job] walks all
resources in id order, replacing the rows of each batch inside one
transaction.

The job runs in its own process with its own pool. Its progress and the stop
flag live in Redis so that the API and the CLI can observe and steer it.
*/
package metadata

import "time"

// Synthetic fields.
const (
	FieldDisplayTitle       = "display_title"
	FieldDisplayDescription = "display_description"
)

// Visibility selects the values an extraction may read.
type Visibility int

const (
	// Public reads public values of public resources only.
	Public Visibility = iota
	// Private reads everything.
	Private
)

func (visibility Visibility) String() string {
	if visibility == Private {
		return "private"
	}
	return "public"
}

// # Domain Models

// Resource is a resource with its values, as read for extraction.
type Resource struct {
	ID       int
	Title    string
	IsPublic bool

	// TitlePropertyID and DescriptionPropertyID come from the resource
	// template, or default to dcterms:title and dcterms:description.
	TitlePropertyID       int
	DescriptionPropertyID int

	// Values are ordered by value id.
	Values []Value
}

// Value is one value of a resource.
type Value struct {
	ID         int
	PropertyID int
	Term       string
	Type       string
	Lang       string
	Text       string
	URI        string
	LinkedID   *int
	IsPublic   bool
}

// Row is one reference_metadata row.
type Row struct {
	ResourceID int
	ValueID    int
	Field      string
	Lang       string
	IsPublic   bool
	Text       string
}

// TitleLink is the first title value of a resource, used to follow linked
// resources.
type TitleLink struct {
	// Title is the materialized resource.title.
	Title    string
	Text     string
	URI      string
	LinkedID *int
}

// TitleResult is the text of a linked resource title. Truncated reports that
// the walk hit the depth bound and fell back to the materialized title.
type TitleResult struct {
	Text      string
	Truncated bool
}

// # Job State

// Job statuses.
const (
	StatusIdle      = "idle"
	StatusRunning   = "running"
	StatusStopped   = "stopped"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// State is the progress of the last metadata job run.
type State struct {
	RunID      string     `json:"run_id,omitempty"`
	Status     string     `json:"status"`
	Total      int        `json:"total"`
	Processed  int        `json:"processed"`
	Rows       int        `json:"rows"`
	LastID     int        `json:"last_id"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}
