// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metadata_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/taibuivan/references/internal/core/metadata"
)

// fakeStore serves resources and title links from memory and records every
// replaced batch. Like pgx, every call fails once its context is cancelled.
type fakeStore struct {
	resources map[int]metadata.Resource
	links     map[int]metadata.TitleLink
	hidden    map[int]bool
	linkCalls int

	replaced    [][]int
	rows        [][]metadata.Row
	replaceErr  error
	onReplace   func(batch int)
	loads       int
	onResources func(call int)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		resources: map[int]metadata.Resource{},
		links:     map[int]metadata.TitleLink{},
		hidden:    map[int]bool{},
	}
}

func (fake *fakeStore) CountResources(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(fake.resources), nil
}

func (fake *fakeStore) ResourceIDs(ctx context.Context, afterID, limit int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var ids []int
	for id := range fake.resources {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (fake *fakeStore) Resources(ctx context.Context, ids []int) ([]metadata.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fake.loads++
	if fake.onResources != nil {
		fake.onResources(fake.loads)
	}
	resources := make([]metadata.Resource, 0, len(ids))
	for _, id := range ids {
		if resource, ok := fake.resources[id]; ok {
			resources = append(resources, resource)
		}
	}
	return resources, nil
}

func (fake *fakeStore) TitleLink(ctx context.Context, resourceID int, private bool) (metadata.TitleLink, bool, error) {
	if err := ctx.Err(); err != nil {
		return metadata.TitleLink{}, false, err
	}
	fake.linkCalls++
	link, ok := fake.links[resourceID]
	if !ok || (fake.hidden[resourceID] && !private) {
		return metadata.TitleLink{}, false, nil
	}
	return link, true, nil
}

func (fake *fakeStore) ReplaceRows(ctx context.Context, resourceIDs []int, rows []metadata.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if fake.replaceErr != nil {
		return fake.replaceErr
	}
	fake.replaced = append(fake.replaced, resourceIDs)
	fake.rows = append(fake.rows, rows)
	if fake.onReplace != nil {
		fake.onReplace(len(fake.replaced))
	}
	return nil
}

// fakeState keeps the job state and the run lock in memory.
type fakeState struct {
	state metadata.State
	stop  bool
	saves []metadata.State

	lock     string
	released []string
	// clearErr fails ClearStop while the stop flag is raised.
	clearErr error
}

func newFakeState() *fakeState {
	return &fakeState{state: metadata.State{Status: metadata.StatusIdle}}
}

func (fake *fakeState) Load(context.Context) (metadata.State, error) { return fake.state, nil }

func (fake *fakeState) Save(_ context.Context, state metadata.State) error {
	fake.state = state
	fake.saves = append(fake.saves, state)
	return nil
}

func (fake *fakeState) RequestStop(context.Context) error { fake.stop = true; return nil }

func (fake *fakeState) StopRequested(context.Context) (bool, error) { return fake.stop, nil }

func (fake *fakeState) ClearStop(context.Context) error {
	if fake.stop && fake.clearErr != nil {
		return fake.clearErr
	}
	fake.stop = false
	return nil
}

func (fake *fakeState) Acquire(_ context.Context, runID string, _ time.Duration, force bool) (bool, error) {
	if fake.lock != "" && !force {
		return false, nil
	}
	fake.lock = runID
	return true, nil
}

func (fake *fakeState) Extend(_ context.Context, runID string, _ time.Duration) error {
	if fake.lock != runID {
		return metadata.ErrLockLost
	}
	return nil
}

func (fake *fakeState) Release(_ context.Context, runID string) error {
	if fake.lock == runID {
		fake.lock = ""
		fake.released = append(fake.released, runID)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }
