package live

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"bclub/backend/services/counter-service/internal/service"
)

// SnapshotSource produces the table state pushed to subscribers.
type SnapshotSource interface {
	LiveSnapshot(ctx context.Context) (*service.LiveSnapshot, error)
}

// Hub tracks live feed subscribers and broadcasts snapshots to them.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
	source      SnapshotSource
	interval    time.Duration
	logger      *zap.Logger
}

// NewHub builds a hub that broadcasts every interval.
func NewHub(source SnapshotSource, interval time.Duration, logger *zap.Logger) *Hub {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Hub{
		subscribers: make(map[string]*Subscriber),
		source:      source,
		interval:    interval,
		logger:      logger,
	}
}

// Add registers a subscriber and sends it the current snapshot right away.
func (h *Hub) Add(ctx context.Context, sub *Subscriber) {
	h.mu.Lock()
	h.subscribers[sub.ID()] = sub
	h.mu.Unlock()

	if msg, err := h.snapshot(ctx); err == nil {
		sub.Send(msg)
	}
}

// Remove forgets a subscriber.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, id)
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Run broadcasts until ctx is done, then disconnects every subscriber.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			if h.Count() == 0 {
				continue
			}
			msg, err := h.snapshot(ctx)
			if err != nil {
				continue
			}
			h.Broadcast(msg)
		}
	}
}

// Broadcast queues msg for every subscriber. Subscribers whose buffer is full are dropped.
func (h *Hub) Broadcast(msg []byte) {
	var slow []*Subscriber
	h.mu.RLock()
	for _, sub := range h.subscribers {
		if !sub.Send(msg) {
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		h.logger.Warn("dropping slow live subscriber", zap.String("subscriber_id", sub.ID()))
		sub.Close()
	}
}

func (h *Hub) snapshot(ctx context.Context) ([]byte, error) {
	snap, err := h.source.LiveSnapshot(ctx)
	if err != nil {
		h.logger.Error("live snapshot failed", zap.Error(err))
		return nil, err
	}
	return json.Marshal(snap)
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()
	for _, sub := range subs {
		sub.Close()
	}
}
