package notifier

import (
	"context"

	"github.com/PranavReddyy/stallsatfest-sub000/internal/domain"
)

// VisibilityTopic is the single global topic carrying stall active/inactive
// announcements.
const VisibilityTopic = "stalls:visibility"

const stockTopicPrefix = "stock:"

// StockTopic returns the per-stall topic carrying availability toggles.
func StockTopic(stallID string) string {
	return stockTopicPrefix + stallID
}

// StockTopicPattern matches every per-stall stock topic.
const StockTopicPattern = stockTopicPrefix + "*"

// StallFromTopic extracts the stall id from a stock topic name.
func StallFromTopic(topic string) string {
	if len(topic) <= len(stockTopicPrefix) || topic[:len(stockTopicPrefix)] != stockTopicPrefix {
		return ""
	}
	return topic[len(stockTopicPrefix):]
}

// ChangeNotifier is a fire-and-forget fan-out. No delivery guarantee, no
// persistence; ordering holds only within one connection to one topic.
// Publish failures must never fail the caller's primary write.
type ChangeNotifier interface {
	PublishStockUpdate(ctx context.Context, ev domain.StockUpdateEvent) error
	PublishStallVisibility(ctx context.Context, ev domain.StallVisibilityEvent) error
}
