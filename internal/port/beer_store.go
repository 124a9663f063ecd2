package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/rl1809/brewery/internal/core/domain"
)

type BeerStore interface {
	// GetByID returns domain.ErrNotFound when no beer has the id
	GetByID(ctx context.Context, id uuid.UUID) (domain.Beer, error)

	// SaveNew assigns id, version and audit timestamps and persists the beer
	SaveNew(ctx context.Context, beer domain.Beer) (domain.Beer, error)

	// Update replaces client fields, bumps version and last modified date
	Update(ctx context.Context, id uuid.UUID, beer domain.Beer) error
}

// Pinger is implemented by adapters backed by a remote dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}
