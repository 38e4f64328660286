// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taibuivan/references/internal/core/metadata"
	pgstore "github.com/taibuivan/references/internal/platform/postgres"
	redisstore "github.com/taibuivan/references/internal/platform/redis"
)

var (
	runBatchSize int
	runForce     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rebuild the metadata cache of every resource",
	Long: `Rebuild the metadata cache of every resource, batch by batch in id order.

SIGINT or SIGTERM, like "refjob stop", ends the run after the current batch.
Committed batches are kept.`,
	RunE: runJob,
}

func init() {
	runCmd.Flags().IntVar(&runBatchSize, "batch-size", 0, "Resources per batch (default JOB_BATCH_SIZE)")
	runCmd.Flags().BoolVar(&runForce, "force", false, "Take the run lock over from another worker")
	rootCmd.AddCommand(runCmd)
}

func runJob(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, pgstore.JobPoolOptions(), log)
	if err != nil {
		return err
	}
	defer pool.Close()

	rdb, err := redisstore.NewClient(ctx, cfg.RedisURL, 2, log)
	if err != nil {
		return err
	}
	defer rdb.Close()

	batchSize := cfg.JobBatchSize
	if runBatchSize > 0 {
		batchSize = runBatchSize
	}

	job := metadata.NewJob(metadata.NewPostgresStore(pool), metadata.NewRedisStateStore(rdb), batchSize, log)
	state, err := job.Run(ctx, runForce)
	if printErr := printJSON(cmd.OutOrStdout(), state); printErr != nil && err == nil {
		err = printErr
	}
	return err
}

// stateStore opens the Redis job state for the light commands.
func stateStore(ctx context.Context) (*metadata.RedisStateStore, func(), error) {
	rdb, err := redisstore.NewClient(ctx, cfg.RedisURL, 1, log)
	if err != nil {
		return nil, nil, err
	}
	return metadata.NewRedisStateStore(rdb), func() { _ = rdb.Close() }, nil
}
