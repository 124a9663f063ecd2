package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BeerStyle string

const (
	BeerStyleLager   BeerStyle = "LAGER"
	BeerStylePilsner BeerStyle = "PILSNER"
	BeerStyleStout   BeerStyle = "STOUT"
	BeerStyleGose    BeerStyle = "GOSE"
	BeerStylePorter  BeerStyle = "PORTER"
	BeerStyleAle     BeerStyle = "ALE"
	BeerStyleWheat   BeerStyle = "WHEAT"
	BeerStyleIPA     BeerStyle = "IPA"
	BeerStylePaleAle BeerStyle = "PALE_ALE"
	BeerStyleSaison  BeerStyle = "SAISON"
)

// BeerStyles lists every accepted style in declaration order.
var BeerStyles = []BeerStyle{
	BeerStyleLager,
	BeerStylePilsner,
	BeerStyleStout,
	BeerStyleGose,
	BeerStylePorter,
	BeerStyleAle,
	BeerStyleWheat,
	BeerStyleIPA,
	BeerStylePaleAle,
	BeerStyleSaison,
}

func (s BeerStyle) Valid() bool {
	for _, style := range BeerStyles {
		if s == style {
			return true
		}
	}
	return false
}

// ParseBeerStyle returns s as a BeerStyle, or an error when s is not one
// of BeerStyles.
func ParseBeerStyle(s string) (BeerStyle, error) {
	style := BeerStyle(s)
	if !style.Valid() {
		return "", fmt.Errorf("unknown beer style %q", s)
	}
	return style, nil
}

type Beer struct {
	ID               uuid.UUID
	Version          int // optimistic locking
	CreatedDate      time.Time
	LastModifiedDate time.Time
	BeerName         string
	BeerStyle        BeerStyle
	UPC              int64
	Price            decimal.Decimal
	QuantityOnHand   int
}

// ClientFields returns a copy holding only the fields a client may set.
// Identity, audit fields and quantity on hand are owned by the store.
func (b Beer) ClientFields() Beer {
	return Beer{
		BeerName:  b.BeerName,
		BeerStyle: b.BeerStyle,
		UPC:       b.UPC,
		Price:     b.Price,
	}
}
