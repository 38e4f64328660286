// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metadata

import (
	"context"
	"time"
)

// Store defines the persistence contract of the metadata job.
type Store interface {
	// CountResources returns the number of resources to process.
	CountResources(ctx context.Context) (int, error)

	// ResourceIDs returns up to limit resource ids above afterID, ascending.
	ResourceIDs(ctx context.Context, afterID, limit int) ([]int, error)

	// Resources loads resources with every value, ordered by id.
	Resources(ctx context.Context, ids []int) ([]Resource, error)

	// TitleLink returns the first title value of a resource. found is false
	// when the resource does not exist or is not visible.
	TitleLink(ctx context.Context, resourceID int, private bool) (link TitleLink, found bool, err error)

	// ReplaceRows deletes the rows of the resources and inserts the new ones
	// in a single transaction.
	ReplaceRows(ctx context.Context, resourceIDs []int, rows []Row) error
}

// StateStore persists the job state, the stop flag and the run lock.
type StateStore interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
	RequestStop(ctx context.Context) error
	StopRequested(ctx context.Context) (bool, error)
	ClearStop(ctx context.Context) error

	// Acquire takes the run lock for runID. Unless force is set it fails
	// with acquired false while another run holds it.
	Acquire(ctx context.Context, runID string, ttl time.Duration, force bool) (acquired bool, err error)

	// Extend renews the lock held by runID, or returns [ErrLockLost].
	Extend(ctx context.Context, runID string, ttl time.Duration) error

	// Release drops the lock if runID still holds it.
	Release(ctx context.Context, runID string) error
}
