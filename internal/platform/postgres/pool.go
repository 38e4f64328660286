// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres provides managed PostgreSQL connection pools.
//
// # Architecture
//
// This package is part of the Infrastructure layer. It manages the physical
// database connections (pgxpool). The API server and the metadata job each
// open their own pool so that the long running job never shares a session
// or a transaction with request traffic.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/references/internal/platform/constants"
)

// Opinionated pool settings.
const (
	// maxConnLifetime ensures connections are periodically recycled.
	maxConnLifetime = 60 * time.Minute
	// maxConnIdleTime closes connections that have been idle too long.
	maxConnIdleTime = 10 * time.Minute
	// healthCheckPeriod is the frequency of background connection health checks.
	healthCheckPeriod = 1 * time.Minute
	// connectTimeout is the maximum time allowed to establish a new connection.
	connectTimeout = 5 * time.Second
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second
)

// Querier is the subset of [pgxpool.Pool] the repositories depend on.
// [pgx.Tx] satisfies it as well.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PoolOptions tunes one pool.
type PoolOptions struct {
	// ApplicationName tags the sessions in pg_stat_activity.
	ApplicationName string
	MaxConns        int32
	MinConns        int32
	// ReadOnly makes every transaction of the pool read-only.
	ReadOnly bool
	// StatementTimeout of zero disables the per-statement timeout.
	StatementTimeout time.Duration
}

// APIPoolOptions is the read-only pool serving HTTP requests.
func APIPoolOptions() PoolOptions {
	return PoolOptions{
		ApplicationName:  constants.AppName,
		MaxConns:         25,
		MinConns:         5,
		ReadOnly:         true,
		StatementTimeout: constants.GlobalRequestTimeout,
	}
}

// JobPoolOptions is the small writable pool of the metadata job.
func JobPoolOptions() PoolOptions {
	return PoolOptions{
		ApplicationName: constants.AppName + "-job",
		MaxConns:        2,
		MinConns:        1,
	}
}

// NewPool creates and validates a new PostgreSQL connection pool.
//
// # Parameters
//   - ctx: Context for the initial connection attempt.
//   - dsn: A libpq-compatible connection string or postgres:// URL.
//   - options: Pool sizing and session settings.
//   - logger: Structured logger for pool-level events.
func NewPool(ctx context.Context, dsn string, options PoolOptions, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	// Apply pool tuning parameters.
	poolConfig.MaxConns = options.MaxConns
	poolConfig.MinConns = options.MinConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout
	if options.ApplicationName != "" {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = options.ApplicationName
	}

	// AfterConnect is called each time a new physical connection is established.
	poolConfig.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		if options.StatementTimeout > 0 {
			timeoutQuery := fmt.Sprintf("SET statement_timeout = '%ds'", int(options.StatementTimeout.Seconds()))
			if _, err := connection.Exec(ctx, timeoutQuery); err != nil {
				return err
			}
		}
		if options.ReadOnly {
			if _, err := connection.Exec(ctx, "SET default_transaction_read_only = on"); err != nil {
				return err
			}
		}
		return nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	// Validate that we can actually reach the database.
	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	stats := pool.Stat()
	logger.Info("postgres pool connected",
		slog.String("application_name", options.ApplicationName),
		slog.Bool("read_only", options.ReadOnly),
		slog.Int("max_conns", int(stats.MaxConns())),
		slog.Int("total_conns", int(stats.TotalConns())),
	)

	return pool, nil
}

// Ping verifies that the PostgreSQL connection pool is healthy.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}

	return nil
}
