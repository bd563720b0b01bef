package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

// availabilityTTL is a safety net against a missed invalidation, not a cache
// eviction policy; invalidation is expected to be event-driven.
const availabilityTTL = 24 * time.Hour

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    availabilityTTL,
	}
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (r *RedisStore) Get(ctx context.Context, key string) bool {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return true // default-open: never assume unavailability
	}
	if err != nil {
		log.Printf("availability get %s failed, falling back to available: %v", key, err)
		return true
	}
	return val != "0"
}

func (r *RedisStore) Set(ctx context.Context, key string, available bool) error {
	if err := r.client.Set(ctx, key, flagValue(available), r.ttl).Err(); err != nil {
		return fmt.Errorf("availability set %s failed: %w", key, err)
	}
	return nil
}

func (r *RedisStore) SyncStall(ctx context.Context, items []domain.MenuItem) error {
	pipe := r.client.Pipeline()
	for _, key := range deriveFlags(items) {
		pipe.Set(ctx, key.key, flagValue(key.available), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("availability sync failed: %w", err)
	}
	return nil
}

func (r *RedisStore) InvalidateStall(ctx context.Context, items []domain.MenuItem) error {
	pipe := r.client.Pipeline()
	for _, key := range deriveFlags(items) {
		pipe.Del(ctx, key.key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("availability invalidate failed: %w", err)
	}
	return nil
}

type flag struct {
	key       string
	available bool
}

func deriveFlags(items []domain.MenuItem) []flag {
	var flags []flag
	for _, item := range items {
		flags = append(flags, flag{domain.ItemKey(item.ID), item.IsAvailable})
		for _, ex := range item.Extras {
			flags = append(flags, flag{domain.ExtraKey(item.ID, ex.ID), ex.IsAvailable})
		}
		for _, cz := range item.Customizations {
			for _, op := range cz.Options {
				flags = append(flags, flag{domain.OptionKey(item.ID, cz.ID, op.ID), op.IsAvailable})
			}
		}
	}
	return flags
}

func flagValue(available bool) string {
	if available {
		return "1"
	}
	return "0"
}
