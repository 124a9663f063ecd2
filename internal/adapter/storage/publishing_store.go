package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rl1809/brewery/internal/core/domain"
	"github.com/rl1809/brewery/internal/port"
)

const DefaultPublishTimeout = 3 * time.Second

// PublishingStore emits a change event after every successful write of
// the wrapped store. A failed publish is logged and never undoes the write.
// Each publish is bounded by the publish timeout and detached from the
// caller's cancellation.
type PublishingStore struct {
	port.BeerStore
	publisher      port.EventPublisher
	publishTimeout time.Duration
	now            func() time.Time
}

type PublishingOption func(*PublishingStore)

func WithPublishTimeout(d time.Duration) PublishingOption {
	return func(p *PublishingStore) {
		if d > 0 {
			p.publishTimeout = d
		}
	}
}

func NewPublishingStore(store port.BeerStore, publisher port.EventPublisher, opts ...PublishingOption) *PublishingStore {
	p := &PublishingStore{
		BeerStore:      store,
		publisher:      publisher,
		publishTimeout: DefaultPublishTimeout,
		now:            func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PublishingStore) SaveNew(ctx context.Context, beer domain.Beer) (domain.Beer, error) {
	saved, err := p.BeerStore.SaveNew(ctx, beer)
	if err != nil {
		return saved, err
	}

	p.publish(ctx, domain.BeerEvent{
		Type:       domain.BeerEventCreated,
		BeerID:     saved.ID,
		Version:    saved.Version,
		OccurredAt: p.now(),
	})
	return saved, nil
}

func (p *PublishingStore) Update(ctx context.Context, id uuid.UUID, beer domain.Beer) error {
	if err := p.BeerStore.Update(ctx, id, beer); err != nil {
		return err
	}

	p.publish(ctx, domain.BeerEvent{
		Type:       domain.BeerEventUpdated,
		BeerID:     id,
		OccurredAt: p.now(),
	})
	return nil
}

// Ping checks the wrapped store when it supports it. The broker is
// reported as its own readiness component.
func (p *PublishingStore) Ping(ctx context.Context) error {
	if pinger, ok := p.BeerStore.(port.Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

func (p *PublishingStore) publish(ctx context.Context, event domain.BeerEvent) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.publishTimeout)
	defer cancel()

	if err := p.publisher.Publish(pubCtx, event); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("event", string(event.Type)).
			Stringer("beer_id", event.BeerID).
			Msg("failed to publish beer event")
	}
}
