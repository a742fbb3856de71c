// Copyright (c) 2026 Moka. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/moka/internal/platform/apperr"
	"github.com/taibuivan/moka/internal/platform/constants"
)

// RedisStateRepository implements StateRepository using Redis.
//
// State values exist to bind an authorize redirect to the callback that
// follows it. They are write-once, read-once, and expire on their own, which
// is exactly the Redis TTL model.
type RedisStateRepository struct {
	client *redis.Client
}

// NewStateRepository creates a new Redis-backed StateRepository.
func NewStateRepository(client *redis.Client) *RedisStateRepository {
	return &RedisStateRepository{client: client}
}

/*
Set stores an OAuth state value with a TTL.

Parameters:
  - context: context.Context
  - state: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisStateRepository) Set(context context.Context, state string, ttl time.Duration) error {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixOAuthState, state)

	// Set the state with TTL; the value itself carries no information
	if err := repository.client.Set(context, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_oauth_state_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Consume retrieves and deletes an OAuth state value in a single atomic step.

Description: GETDEL enforces single use: two callbacks presenting the same
state cannot both succeed.

Parameters:
  - context: context.Context
  - state: string

Returns:
  - error: apperr.NotFound when the state is absent or expired, or connectivity errors
*/
func (repository *RedisStateRepository) Consume(context context.Context, state string) error {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixOAuthState, state)

	// Atomically read and remove the state
	_, err := repository.client.GetDel(context, key).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperr.NotFound("State")
		}
		return fmt.Errorf("redis_oauth_state_consume_failed: %w", err)
	}

	// Return nil on success
	return nil
}
