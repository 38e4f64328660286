// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/references/internal/platform/constants"
)

const (
	jobName = "metadata"

	// stopTTL expires a stop request nobody consumed.
	stopTTL = time.Hour
)

// Lock scripts compare the holder before touching the key, so a worker never
// renews or drops a lock taken over by a forced run.
var (
	extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)
)

// RedisStateStore implements [StateStore] using Redis.
type RedisStateStore struct {
	client *redis.Client
}

// NewRedisStateStore creates a new Redis-backed [StateStore].
func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

/*
Load retrieves the last saved state.

Returns:
  - State: The stored state, or an idle state if none was saved
  - error: Connectivity or decoding errors
*/
func (store *RedisStateStore) Load(ctx context.Context) (State, error) {
	payload, err := store.client.Get(ctx, constants.RedisPrefixJobState+jobName).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{Status: StatusIdle}, nil
		}
		return State{}, fmt.Errorf("redis_job_state_get_failed: %w", err)
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}, fmt.Errorf("redis_job_state_decode_failed: %w", err)
	}
	return state, nil
}

// Save stores the state without expiry.
func (store *RedisStateStore) Save(ctx context.Context, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("redis_job_state_encode_failed: %w", err)
	}

	if err := store.client.Set(ctx, constants.RedisPrefixJobState+jobName, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis_job_state_set_failed: %w", err)
	}
	return nil
}

// RequestStop raises the stop flag read by the worker between batches.
func (store *RedisStateStore) RequestStop(ctx context.Context) error {
	if err := store.client.Set(ctx, constants.RedisPrefixJobStop+jobName, "1", stopTTL).Err(); err != nil {
		return fmt.Errorf("redis_job_stop_set_failed: %w", err)
	}
	return nil
}

// StopRequested reports whether the stop flag is raised.
func (store *RedisStateStore) StopRequested(ctx context.Context) (bool, error) {
	count, err := store.client.Exists(ctx, constants.RedisPrefixJobStop+jobName).Result()
	if err != nil {
		return false, fmt.Errorf("redis_job_stop_get_failed: %w", err)
	}
	return count > 0, nil
}

// ClearStop lowers the stop flag.
func (store *RedisStateStore) ClearStop(ctx context.Context) error {
	if err := store.client.Del(ctx, constants.RedisPrefixJobStop+jobName).Err(); err != nil {
		return fmt.Errorf("redis_job_stop_delete_failed: %w", err)
	}
	return nil
}

// # Run Lock

// Acquire takes the run lock with SET NX, or overwrites it when force is set.
func (store *RedisStateStore) Acquire(ctx context.Context, runID string, ttl time.Duration, force bool) (bool, error) {
	key := constants.RedisPrefixJobLock + jobName

	if force {
		if err := store.client.Set(ctx, key, runID, ttl).Err(); err != nil {
			return false, fmt.Errorf("redis_job_lock_set_failed: %w", err)
		}
		return true, nil
	}

	acquired, err := store.client.SetNX(ctx, key, runID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis_job_lock_set_failed: %w", err)
	}
	return acquired, nil
}

// Extend renews the lock while runID holds it.
func (store *RedisStateStore) Extend(ctx context.Context, runID string, ttl time.Duration) error {
	renewed, err := extendScript.Run(ctx, store.client, []string{constants.RedisPrefixJobLock + jobName}, runID, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("redis_job_lock_extend_failed: %w", err)
	}
	if renewed == 0 {
		return ErrLockLost
	}
	return nil
}

// Release deletes the lock while runID holds it.
func (store *RedisStateStore) Release(ctx context.Context, runID string) error {
	if err := releaseScript.Run(ctx, store.client, []string{constants.RedisPrefixJobLock + jobName}, runID).Err(); err != nil {
		return fmt.Errorf("redis_job_lock_release_failed: %w", err)
	}
	return nil
}
