package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/pkg/logging"
)

const sideEffectTimeout = 5 * time.Second

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type ProductIndexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, q string, from, size int) ([]uuid.UUID, int64, error)
}

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// publish is best-effort: the request already succeeded, so a broker
// failure is only logged.
func publish(ctx context.Context, p Publisher, topic, key, typ string, data any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	ev := Event{ID: uuid.NewString(), Type: typ, OccurredAt: time.Now().UTC(), Data: data}
	if err := p.PublishEvent(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "type", typ, "key", key, "error", err)
	}
}
