package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

type RedisNotifier struct {
	client *redis.Client
}

func (n *RedisNotifier) PublishStockUpdate(ctx context.Context, ev domain.StockUpdateEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal stock update failed: %w", err)
	}

	if err := n.client.Publish(ctx, StockTopic(ev.StallID), payload).Err(); err != nil {
		return fmt.Errorf("publish stock update failed: %w", err)
	}
	return nil
}

func (n *RedisNotifier) PublishStallVisibility(ctx context.Context, ev domain.StallVisibilityEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal visibility event failed: %w", err)
	}

	if err := n.client.Publish(ctx, VisibilityTopic, payload).Err(); err != nil {
		return fmt.Errorf("publish visibility event failed: %w", err)
	}
	return nil
}
