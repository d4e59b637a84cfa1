package reconcile

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Notifier delivers outbound side effects. Implementations must not block
// the write path and must swallow their own failures — a lost notification
// never fails a reconciliation batch.
type Notifier interface {
	// JobsDeactivated announces deactivated job slugs so indexers drop them.
	JobsDeactivated(ctx context.Context, slugs []string)
	// ScrapeAnomaly fires when the safety guard suppresses deactivation.
	ScrapeAnomaly(ctx context.Context, employerName string, foundCount, activeCount int)
}

// RedisNotifier publishes notifications as Redis pub/sub events.
type RedisNotifier struct {
	rdb *redis.Client
}

// NewRedisNotifier returns a Notifier backed by the given Redis client.
func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

// JobsDeactivated publishes one batched EVENT_JOBS_DEACTIVATED event with
// intent "delete" (non-fatal).
func (n *RedisNotifier) JobsDeactivated(ctx context.Context, slugs []string) {
	if len(slugs) == 0 {
		return
	}
	event, _ := json.Marshal(map[string]any{
		"type":   "EVENT_JOBS_DEACTIVATED",
		"intent": "delete",
		"slugs":  slugs,
	})
	if err := n.rdb.Publish(ctx, "EVENT_JOBS_DEACTIVATED", event).Err(); err != nil {
		slog.Warn("publish EVENT_JOBS_DEACTIVATED failed", "count", len(slugs), "err", err)
	}
}

// ScrapeAnomaly publishes an ALERT_SCRAPE_ANOMALY event (non-fatal).
func (n *RedisNotifier) ScrapeAnomaly(ctx context.Context, employerName string, foundCount, activeCount int) {
	event, _ := json.Marshal(map[string]any{
		"type":               "ALERT_SCRAPE_ANOMALY",
		"employer":           employerName,
		"foundCount":         foundCount,
		"currentActiveCount": activeCount,
	})
	if err := n.rdb.Publish(ctx, "ALERT_SCRAPE_ANOMALY", event).Err(); err != nil {
		slog.Warn("publish ALERT_SCRAPE_ANOMALY failed", "employer", employerName, "err", err)
	}
}
