package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rl1809/brewery/internal/core/domain"
	"github.com/rl1809/brewery/internal/port"
)

var ErrStoreFailure = errors.New("store failure")

type BeerService struct {
	store  port.BeerStore
	tracer trace.Tracer
}

func NewBeerService(store port.BeerStore) *BeerService {
	return &BeerService{
		store:  store,
		tracer: otel.Tracer("github.com/rl1809/brewery/internal/core/service"),
	}
}

func (s *BeerService) GetBeerByID(ctx context.Context, id uuid.UUID) (domain.Beer, error) {
	ctx, span := s.tracer.Start(ctx, "BeerService.GetBeerByID", trace.WithAttributes(
		attribute.String("beer.id", id.String()),
	))
	defer span.End()

	beer, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.Beer{}, classify(span, "get beer", err)
	}
	return beer, nil
}

// SaveNewBeer passes only the client fields to the store. Id, version,
// audit dates and stock are assigned there.
func (s *BeerService) SaveNewBeer(ctx context.Context, beer domain.Beer) (domain.Beer, error) {
	ctx, span := s.tracer.Start(ctx, "BeerService.SaveNewBeer")
	defer span.End()

	saved, err := s.store.SaveNew(ctx, beer.ClientFields())
	if err != nil {
		return domain.Beer{}, classify(span, "save beer", err)
	}

	span.SetAttributes(attribute.String("beer.id", saved.ID.String()))
	return saved, nil
}

func (s *BeerService) UpdateBeer(ctx context.Context, id uuid.UUID, beer domain.Beer) error {
	ctx, span := s.tracer.Start(ctx, "BeerService.UpdateBeer", trace.WithAttributes(
		attribute.String("beer.id", id.String()),
	))
	defer span.End()

	if err := s.store.Update(ctx, id, beer.ClientFields()); err != nil {
		return classify(span, "update beer", err)
	}
	return nil
}

// Ping reports whether the underlying store is reachable.
// Stores without a remote dependency are always reachable.
func (s *BeerService) Ping(ctx context.Context) error {
	p, ok := s.store.(port.Pinger)
	if !ok {
		return nil
	}
	return p.Ping(ctx)
}

func classify(span trace.Span, op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidArgument) {
		return fmt.Errorf("%s: %w", op, err)
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return fmt.Errorf("%s: %w: %w", op, ErrStoreFailure, err)
}
