package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/brewery/internal/core/domain"
)

type MySQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// EnsureSchema creates the beers table when it does not exist yet.
func (m *MySQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, mysqlSchema); err != nil {
		return fmt.Errorf("create beers table: %w", err)
	}
	return nil
}

func (m *MySQLStore) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *MySQLStore) GetByID(ctx context.Context, id uuid.UUID) (domain.Beer, error) {
	var (
		beer         domain.Beer
		rawID, style string
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT id, version, created_date, last_modified_date,
		       beer_name, beer_style, upc, price, quantity_on_hand
		FROM beers WHERE id = ?`, id.String(),
	).Scan(
		&rawID, &beer.Version, &beer.CreatedDate, &beer.LastModifiedDate,
		&beer.BeerName, &style, &beer.UPC, &beer.Price, &beer.QuantityOnHand,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Beer{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Beer{}, fmt.Errorf("query beer: %w", err)
	}

	beer.ID, err = uuid.Parse(rawID)
	if err != nil {
		return domain.Beer{}, fmt.Errorf("parse beer id %q: %w", rawID, err)
	}
	if beer.BeerStyle, err = domain.ParseBeerStyle(style); err != nil {
		return domain.Beer{}, fmt.Errorf("beer %s: %w", rawID, err)
	}
	return beer, nil
}

func (m *MySQLStore) SaveNew(ctx context.Context, beer domain.Beer) (domain.Beer, error) {
	now := m.now()
	beer.ID = uuid.New()
	beer.Version = 1
	beer.CreatedDate = now
	beer.LastModifiedDate = now
	beer.QuantityOnHand = 0

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO beers (id, version, created_date, last_modified_date,
		                   beer_name, beer_style, upc, price, quantity_on_hand)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		beer.ID.String(), beer.Version, beer.CreatedDate, beer.LastModifiedDate,
		beer.BeerName, beer.BeerStyle, beer.UPC, beer.Price, beer.QuantityOnHand,
	)
	if err != nil {
		return domain.Beer{}, fmt.Errorf("insert beer: %w", err)
	}

	return beer, nil
}

func (m *MySQLStore) Update(ctx context.Context, id uuid.UUID, beer domain.Beer) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE beers
		SET beer_name = ?, beer_style = ?, upc = ?, price = ?,
		    version = version + 1, last_modified_date = ?
		WHERE id = ?`,
		beer.BeerName, beer.BeerStyle, beer.UPC, beer.Price, m.now(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("update beer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update beer: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}
