package domain

import (
	"time"

	"github.com/google/uuid"
)

type BeerEventType string

const (
	BeerEventCreated BeerEventType = "beer.created"
	BeerEventUpdated BeerEventType = "beer.updated"
)

type BeerEvent struct {
	Type       BeerEventType `json:"type"`
	BeerID     uuid.UUID     `json:"beerId"`
	Version    int           `json:"version,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}
