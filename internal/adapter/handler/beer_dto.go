package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rl1809/brewery/internal/core/domain"
)

// BeerDto is the wire shape of a beer on every transport. Read-only
// fields are filled on responses and ignored on requests.
type BeerDto struct {
	ID               *uuid.UUID       `json:"id" readOnly:"true" description:"Id of Beer"`
	Version          int              `json:"version" readOnly:"true" description:"Version number"`
	CreatedDate      time.Time        `json:"createdDate" readOnly:"true" description:"Date Created"`
	LastModifiedDate time.Time        `json:"lastModifiedDate" readOnly:"true" description:"Date Updated"`
	BeerName         string           `json:"beerName" description:"Name of the beer" validate:"notblank,max=100"`
	BeerStyle        domain.BeerStyle `json:"beerStyle" description:"Style of Beer" validate:"required,oneof=LAGER PILSNER STOUT GOSE PORTER ALE WHEAT IPA PALE_ALE SAISON"`
	UPC              int64            `json:"upc" description:"Beer UPC" validate:"required,gt=0"`
	Price            decimal.Decimal  `json:"price" description:"Beer Price" validate:"gte=0"`
	QuantityOnHand   int              `json:"quantityOnHand" readOnly:"true" description:"Quantity On hand"`
}

func toBeerDto(b domain.Beer) BeerDto {
	id := b.ID
	return BeerDto{
		ID:               &id,
		Version:          b.Version,
		CreatedDate:      b.CreatedDate,
		LastModifiedDate: b.LastModifiedDate,
		BeerName:         b.BeerName,
		BeerStyle:        b.BeerStyle,
		UPC:              b.UPC,
		Price:            b.Price,
		QuantityOnHand:   b.QuantityOnHand,
	}
}

// toDomain keeps only the client-writable fields.
func (d BeerDto) toDomain() domain.Beer {
	return domain.Beer{
		BeerName:  d.BeerName,
		BeerStyle: d.BeerStyle,
		UPC:       d.UPC,
		Price:     d.Price,
	}
}
