// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/keystone-adops/metrics"
	"github.com/danielhkuo/keystone-adops/models"
)

// DefaultRedisKey holds the snapshot when none is configured.
const DefaultRedisKey = "keystone:campaigns:snapshot"

// RedisSnapshots stores the snapshot under a single Redis key with no expiry.
type RedisSnapshots struct {
	client *redis.Client
	key    string
}

// NewRedisSnapshots parses a redis:// URL. No connection is made until the
// first Save or Load.
func NewRedisSnapshots(redisURL, key string) (*RedisSnapshots, error) {
	if redisURL == "" {
		return nil, errors.New("redis URL required")
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	return NewRedisSnapshotsFromClient(redis.NewClient(opt), key), nil
}

func NewRedisSnapshotsFromClient(client *redis.Client, key string) *RedisSnapshots {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisSnapshots{client: client, key: key}
}

func (r *RedisSnapshots) Kind() string { return BackendRedis }

func (r *RedisSnapshots) Close() error { return r.client.Close() }

func (r *RedisSnapshots) Save(ctx context.Context, list models.CampaignList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	err = r.client.Set(ctx, r.key, data, 0).Err()
	metrics.ObserveUpstream("redis", err)
	if err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisSnapshots) Load(ctx context.Context) (models.CampaignList, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ObserveUpstream("redis", nil)
		return models.CampaignList{}, ErrNoSnapshot
	}
	metrics.ObserveUpstream("redis", err)
	if err != nil {
		return models.CampaignList{}, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return decode(data)
}
