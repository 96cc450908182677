package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mindlink-backend/internal/database"
)

// Dashboard event types pushed over the live feed.
const (
	EventBusyMode    = "busy_mode"
	EventMessage     = "message"
	EventConnection  = "connection"
	EventStressAlert = "stress_alert"
)

// DashboardEvent is the payload broadcast over Redis and WebSocket when a
// widget's state changes.
type DashboardEvent struct {
	Type      string         `json:"type"`
	UserID    string         `json:"user_id"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp,omitempty"`
}

// dashboardHub fans events out to the local WebSocket subscribers of each
// user. Cross-instance delivery goes through Redis Pub/Sub.
type dashboardHub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan DashboardEvent]struct{}
}

var (
	feedHub            = &dashboardHub{subs: make(map[uuid.UUID]map[chan DashboardEvent]struct{})}
	feedSubscriberOnce sync.Once
)

// SubscribeDashboardFeed registers a listener for one user's events.
// The returned channel is closed by the unsubscribe func.
func SubscribeDashboardFeed(userID uuid.UUID) (<-chan DashboardEvent, func()) {
	ch := make(chan DashboardEvent, 16)

	feedHub.mu.Lock()
	if feedHub.subs[userID] == nil {
		feedHub.subs[userID] = make(map[chan DashboardEvent]struct{})
	}
	feedHub.subs[userID][ch] = struct{}{}
	feedHub.mu.Unlock()

	unsubscribe := func() {
		feedHub.mu.Lock()
		if set, ok := feedHub.subs[userID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(feedHub.subs, userID)
			}
		}
		feedHub.mu.Unlock()
	}
	return ch, unsubscribe
}

// fanOutDashboardEvent delivers an event to every local subscriber of the
// event's user. Slow subscribers are skipped rather than blocked on.
func fanOutDashboardEvent(event DashboardEvent) {
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return
	}

	feedHub.mu.RLock()
	defer feedHub.mu.RUnlock()
	for ch := range feedHub.subs[userID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// PublishDashboardEvent publishes an event to Redis; the per-instance
// subscriber fans it out to connected WebSockets.
func PublishDashboardEvent(ctx context.Context, event DashboardEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return database.RedisClient.Publish(ctx, "dashboard:user:"+event.UserID, data).Err()
}

// StartDashboardFeedSubscriber ensures a single shared Redis listener per instance.
func StartDashboardFeedSubscriber(ctx context.Context) {
	feedSubscriberOnce.Do(func() {
		go runFeedSubscriber(ctx)
	})
}

func runFeedSubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; dashboard feed subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.PSubscribe(ctx, "dashboard:user:*")
			defer pubsub.Close()

			log.Println("✅ Dashboard feed subscriber started (pattern: dashboard:user:*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event DashboardEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal dashboard event: %v", err)
					continue
				}

				fanOutDashboardEvent(event)
			}
		}()
	}
}
