package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/brewery/internal/core/domain"
)

type MemoryStore struct {
	mu    sync.RWMutex
	beers map[uuid.UUID]domain.Beer
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		beers: make(map[uuid.UUID]domain.Beer),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (domain.Beer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	beer, ok := m.beers[id]
	if !ok {
		return domain.Beer{}, domain.ErrNotFound
	}
	return beer, nil
}

func (m *MemoryStore) SaveNew(ctx context.Context, beer domain.Beer) (domain.Beer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	beer.ID = uuid.New()
	for _, taken := m.beers[beer.ID]; taken; _, taken = m.beers[beer.ID] {
		beer.ID = uuid.New()
	}
	beer.Version = 1
	beer.CreatedDate = now
	beer.LastModifiedDate = now
	beer.QuantityOnHand = 0

	m.beers[beer.ID] = beer
	return beer, nil
}

func (m *MemoryStore) Update(ctx context.Context, id uuid.UUID, beer domain.Beer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.beers[id]
	if !ok {
		return domain.ErrNotFound
	}

	current.BeerName = beer.BeerName
	current.BeerStyle = beer.BeerStyle
	current.UPC = beer.UPC
	current.Price = beer.Price
	current.Version++
	current.LastModifiedDate = m.now()

	m.beers[id] = current
	return nil
}
