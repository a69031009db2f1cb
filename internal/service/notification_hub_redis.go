package service

import (
	"context"
	"encoding/json"
	"fmt"

	"medibook/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Constants
// =============================================================================

// NotificationChannelPrefix namespaces the per-recipient pub/sub channels.
const NotificationChannelPrefix = "notifications:"

// =============================================================================
// Types
// =============================================================================

// RedisHub relays notifications through Redis pub/sub so every API instance can push
// to the sockets it holds, whichever instance created the notification.
type RedisHub struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisHub(client *redis.Client, log *logrus.Logger) *RedisHub {
	return &RedisHub{
		client: client,
		log:    log,
	}
}

func NotificationChannel(userID uuid.UUID) string {
	return NotificationChannelPrefix + userID.String()
}

// =============================================================================
// Publish / Subscribe
// =============================================================================

func (h *RedisHub) Publish(ctx context.Context, notification *entity.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := h.client.Publish(ctx, NotificationChannel(notification.UserID), payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (h *RedisHub) Subscribe(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	pubsub := h.client.Subscribe(ctx, NotificationChannel(userID))

	// Wait for the subscription confirmation so no publish is missed after we return.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan entity.Notification, subscriberBuffer)
	done := make(chan struct{})

	go func() {
		defer close(out)
		messages := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var n entity.Notification
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					h.log.Warnf("Dropping malformed notification on %s: %+v", msg.Channel, err)
					continue
				}
				select {
				case out <- n:
				default:
					h.log.Debugf("Subscriber for %s is behind, dropping notification %s", userID, n.ID)
				}
			}
		}
	}()

	return newSubscription(ctx, out, func() {
		close(done)
		if err := pubsub.Close(); err != nil {
			h.log.Warnf("Failed to close redis subscription for %s: %+v", userID, err)
		}
	}), nil
}
