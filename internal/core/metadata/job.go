// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/references/internal/platform/constants"
	"github.com/taibuivan/references/internal/platform/metrics"
	"github.com/taibuivan/references/pkg/uuidv7"
)

var (
	// ErrAlreadyRunning is returned when a run starts while another worker
	// holds the run lock.
	ErrAlreadyRunning = errors.New("metadata job is already running")

	// ErrLockLost is returned when the run lock expired or was taken over
	// by a forced run.
	ErrLockLost = errors.New("metadata job lock lost")
)

// Job rebuilds the reference_metadata table.
type Job struct {
	store     Store
	state     StateStore
	batchSize int
	logger    *slog.Logger
	now       func() time.Time
}

// NewJob constructs the metadata [Job]. A non-positive batch size falls back
// to [constants.DefaultJobBatchSize].
func NewJob(store Store, state StateStore, batchSize int, logger *slog.Logger) *Job {
	if batchSize <= 0 {
		batchSize = constants.DefaultJobBatchSize
	}
	return &Job{store: store, state: state, batchSize: batchSize, logger: logger, now: time.Now}
}

/*
Run processes every resource, batch by batch, in ascending id order.

Description: For each batch the previous rows of its resources are deleted
and the rows of a public and a private extraction inserted, in one
transaction. Between batches the run stops if ctx is cancelled or a stop was
requested; a batch in flight always completes and committed batches stay
valid. The state is saved after each batch. Only one run holds the run lock
at a time; the lock expires if the worker dies.

Parameters:
  - ctx: context.Context (cancellation stops the run at the next batch)
  - force: bool (take the run lock over from another worker)

Returns:
  - State: The final state (completed, stopped or failed)
  - error: ErrAlreadyRunning, or the failure that ended the run
*/
func (job *Job) Run(ctx context.Context, force bool) (State, error) {
	previous, err := job.state.Load(ctx)
	if err != nil {
		return State{}, err
	}

	runID := uuidv7.New()
	acquired, err := job.state.Acquire(ctx, runID, constants.JobLockTTL, force)
	if err != nil {
		return State{}, err
	}
	if !acquired {
		return previous, ErrAlreadyRunning
	}

	// Batch I/O ignores cancellation; ctx is only read between batches.
	work := context.WithoutCancel(ctx)
	logger := job.logger.With(slog.String("run_id", runID))

	started := job.now()
	state := State{RunID: runID, Status: StatusRunning, StartedAt: &started}

	if err := job.state.ClearStop(work); err != nil {
		return job.finish(work, logger, state, StatusFailed, err)
	}

	state.Total, err = job.store.CountResources(work)
	if err != nil {
		return job.finish(work, logger, state, StatusFailed, err)
	}
	if err := job.state.Save(work, state); err != nil {
		return job.finish(work, logger, state, StatusFailed, err)
	}

	logger.InfoContext(ctx, "metadata_job_started", slog.Int("total", state.Total), slog.Int("batch_size", job.batchSize))

	extractor := NewExtractor(job.store, logger)
	for {
		stop, err := job.shouldStop(ctx, work)
		if err != nil {
			return job.finish(work, logger, state, StatusFailed, err)
		}
		if stop {
			logger.InfoContext(work, "metadata_job_stopped", slog.Int("processed", state.Processed))
			return job.finish(work, logger, state, StatusStopped, nil)
		}

		ids, err := job.store.ResourceIDs(work, state.LastID, job.batchSize)
		if err != nil {
			return job.finish(work, logger, state, StatusFailed, err)
		}
		if len(ids) == 0 {
			break
		}

		rows, err := job.batch(work, extractor, ids)
		if err != nil {
			return job.finish(work, logger, state, StatusFailed, err)
		}

		state.Processed += len(ids)
		state.Rows += rows
		state.LastID = ids[len(ids)-1]
		metrics.JobBatches.Inc()
		metrics.JobResources.Add(float64(len(ids)))

		logger.InfoContext(work, "metadata_batch_committed",
			slog.Int("resources", len(ids)),
			slog.Int("rows", rows),
			slog.Int("last_id", state.LastID),
			slog.Int("processed", state.Processed),
		)

		if err := job.state.Save(work, state); err != nil {
			return job.finish(work, logger, state, StatusFailed, err)
		}
		if err := job.state.Extend(work, runID, constants.JobLockTTL); err != nil {
			return job.finish(work, logger, state, StatusFailed, err)
		}
	}

	logger.InfoContext(work, "metadata_job_completed",
		slog.Int("processed", state.Processed),
		slog.Int("rows", state.Rows),
	)
	return job.finish(work, logger, state, StatusCompleted, nil)
}

// batch extracts and replaces the rows of one batch, returning the number
// of rows written.
func (job *Job) batch(ctx context.Context, extractor *Extractor, ids []int) (int, error) {
	resources, err := job.store.Resources(ctx, ids)
	if err != nil {
		return 0, err
	}

	var rows []Row
	for _, resource := range resources {
		for _, visibility := range []Visibility{Public, Private} {
			extracted, err := extractor.Extract(ctx, resource, visibility)
			if err != nil {
				return 0, fmt.Errorf("extract resource %d (%s): %w", resource.ID, visibility, err)
			}
			rows = append(rows, extracted...)
		}
	}

	if err := job.store.ReplaceRows(ctx, ids, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// shouldStop reads the stop signals: cancellation of ctx and the stored flag.
func (job *Job) shouldStop(ctx, work context.Context) (bool, error) {
	if ctx.Err() != nil {
		return true, nil
	}
	return job.state.StopRequested(work)
}

// finish records the final state and releases the run lock.
func (job *Job) finish(work context.Context, logger *slog.Logger, state State, status string, cause error) (State, error) {
	finished := job.now()
	state.Status = status
	state.FinishedAt = &finished
	if cause != nil {
		state.Error = cause.Error()
	}

	if err := job.state.Save(work, state); err != nil && cause == nil {
		cause = err
	}
	if status == StatusStopped {
		if err := job.state.ClearStop(work); err != nil {
			logger.WarnContext(work, "metadata_stop_clear_failed", slog.String("error", err.Error()))
		}
	}
	if err := job.state.Release(work, state.RunID); err != nil {
		logger.WarnContext(work, "metadata_lock_release_failed", slog.String("error", err.Error()))
	}
	return state, cause
}

// Stop asks a running job to stop at its next batch boundary.
func (job *Job) Stop(ctx context.Context) error {
	return job.state.RequestStop(ctx)
}

// Status returns the stored state, idle when the job never ran.
func (job *Job) Status(ctx context.Context) (State, error) {
	return job.state.Load(ctx)
}
