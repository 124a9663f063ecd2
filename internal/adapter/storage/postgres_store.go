package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/rl1809/brewery/internal/core/domain"
)

type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool: pool,
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// EnsureSchema creates the beers table when it does not exist yet.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create beers table: %w", err)
	}
	return nil
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (domain.Beer, error) {
	var (
		beer                  domain.Beer
		rawID, style, rawCost string
	)
	err := p.pool.QueryRow(ctx, `
		SELECT id::text, version, created_date, last_modified_date,
		       beer_name, beer_style, upc, price::text, quantity_on_hand
		FROM beers WHERE id = $1`, id.String(),
	).Scan(
		&rawID, &beer.Version, &beer.CreatedDate, &beer.LastModifiedDate,
		&beer.BeerName, &style, &beer.UPC, &rawCost, &beer.QuantityOnHand,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Beer{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Beer{}, fmt.Errorf("query beer: %w", err)
	}

	if beer.ID, err = uuid.Parse(rawID); err != nil {
		return domain.Beer{}, fmt.Errorf("parse beer id %q: %w", rawID, err)
	}
	if beer.Price, err = decimal.NewFromString(rawCost); err != nil {
		return domain.Beer{}, fmt.Errorf("parse beer price %q: %w", rawCost, err)
	}
	if beer.BeerStyle, err = domain.ParseBeerStyle(style); err != nil {
		return domain.Beer{}, fmt.Errorf("beer %s: %w", rawID, err)
	}
	beer.CreatedDate = beer.CreatedDate.UTC()
	beer.LastModifiedDate = beer.LastModifiedDate.UTC()

	return beer, nil
}

func (p *PostgresStore) SaveNew(ctx context.Context, beer domain.Beer) (domain.Beer, error) {
	now := p.now()
	beer.ID = uuid.New()
	beer.Version = 1
	beer.CreatedDate = now
	beer.LastModifiedDate = now
	beer.QuantityOnHand = 0

	_, err := p.pool.Exec(ctx, `
		INSERT INTO beers (id, version, created_date, last_modified_date,
		                   beer_name, beer_style, upc, price, quantity_on_hand)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		beer.ID.String(), beer.Version, beer.CreatedDate, beer.LastModifiedDate,
		beer.BeerName, string(beer.BeerStyle), beer.UPC, beer.Price.String(), beer.QuantityOnHand,
	)
	if err != nil {
		return domain.Beer{}, fmt.Errorf("insert beer: %w", err)
	}

	return beer, nil
}

func (p *PostgresStore) Update(ctx context.Context, id uuid.UUID, beer domain.Beer) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE beers
		SET beer_name = $1, beer_style = $2, upc = $3, price = $4,
		    version = version + 1, last_modified_date = $5
		WHERE id = $6`,
		beer.BeerName, string(beer.BeerStyle), beer.UPC, beer.Price.String(), p.now(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("update beer: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}
