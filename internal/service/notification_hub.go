package service

import (
	"context"
	"sync"

	"medibook/internal/domain/entity"

	"github.com/google/uuid"
)

// subscriberBuffer is how many undelivered notifications a subscriber may lag behind
// before new ones are dropped for it. The inbox row is the source of truth either way.
const subscriberBuffer = 32

// NotificationHub pushes freshly created notifications to connected recipients.
type NotificationHub interface {
	Publish(ctx context.Context, notification *entity.Notification) error
	// Subscribe streams notifications addressed to userID until Close is called
	// or ctx is done.
	Subscribe(ctx context.Context, userID uuid.UUID) (*Subscription, error)
}

// Subscription is a live feed for one recipient.
type Subscription struct {
	C <-chan entity.Notification

	once    sync.Once
	closeFn func()
}

func newSubscription(ctx context.Context, c <-chan entity.Notification, closeFn func()) *Subscription {
	sub := &Subscription{C: c, closeFn: closeFn}
	context.AfterFunc(ctx, sub.Close)
	return sub
}

// Close ends the subscription and closes C. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(s.closeFn)
}

// LocalHub fans notifications out to subscribers in this process.
type LocalHub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan entity.Notification]struct{}
}

func NewLocalHub() *LocalHub {
	return &LocalHub{
		subs: make(map[uuid.UUID]map[chan entity.Notification]struct{}),
	}
}

func (h *LocalHub) Subscribe(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	ch := make(chan entity.Notification, subscriberBuffer)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan entity.Notification]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	return newSubscription(ctx, ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[userID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, userID)
			}
		}
		close(ch)
	}), nil
}

// Publish never blocks; a full subscriber buffer drops the notification for that subscriber.
func (h *LocalHub) Publish(_ context.Context, notification *entity.Notification) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[notification.UserID] {
		select {
		case ch <- *notification:
		default:
		}
	}
	return nil
}

// SubscriberCount returns the number of live subscriptions for userID.
func (h *LocalHub) SubscriberCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
