package rawg

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NotifyChannel is the Redis pub/sub channel ingestion events go out on.
// The API server listens here to invalidate its response cache.
const NotifyChannel = "gameinsight:ingestion"

// Notifier publishes ingestion events on a Redis pub/sub channel for
// dashboards and other listeners. A nil notifier is safe and drops events.
type Notifier struct {
	client *redis.Client
}

// NewNotifier creates a notifier over the given Redis URL. Returns nil when
// Redis is not configured; callers may use the result either way.
func NewNotifier(redisURL, password string) *Notifier {
	if redisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[Notifier] Invalid redis url, notifications disabled: %v", err)
		return nil
	}
	if password != "" {
		opts.Password = password
	}
	return &Notifier{client: redis.NewClient(opts)}
}

// NotifyNewGame announces a newly ingested game (async, non-blocking).
func (n *Notifier) NotifyNewGame(slug, name string) {
	n.publish(map[string]interface{}{
		"type": "new_game",
		"slug": slug,
		"name": name,
	})
}

// NotifyRunFinished announces a finished unit of work with its report.
func (n *Notifier) NotifyRunFinished(report *Report) {
	n.publish(map[string]interface{}{
		"type":   "run_finished",
		"run_id": report.RunID,
		"label":  report.Label,
		"status": report.Status,
	})
}

func (n *Notifier) publish(payload map[string]interface{}) {
	if n == nil || n.client == nil {
		return
	}
	go func() {
		body, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[Notifier] Failed to marshal payload: %v", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := n.client.Publish(ctx, NotifyChannel, body).Err(); err != nil {
			log.Printf("[Notifier] Failed to publish event: %v", err)
		}
	}()
}
