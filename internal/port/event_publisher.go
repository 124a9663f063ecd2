package port

import (
	"context"

	"github.com/rl1809/brewery/internal/core/domain"
)

type EventPublisher interface {
	// Publish delivers a change event, blocking until acknowledged
	Publish(ctx context.Context, event domain.BeerEvent) error
}
