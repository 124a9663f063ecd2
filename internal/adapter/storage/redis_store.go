package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/rl1809/brewery/internal/core/domain"
)

const beerKeyPrefix = "beer:"

var saveBeerScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end

redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)

var updateBeerScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end

redis.call('HSET', KEYS[1],
	'beer_name', ARGV[1],
	'beer_style', ARGV[2],
	'upc', ARGV[3],
	'price', ARGV[4],
	'last_modified_date', ARGV[5])
return redis.call('HINCRBY', KEYS[1], 'version', 1)
`)

type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) GetByID(ctx context.Context, id uuid.UUID) (domain.Beer, error) {
	fields, err := r.client.HGetAll(ctx, beerKeyPrefix+id.String()).Result()
	if err != nil {
		return domain.Beer{}, fmt.Errorf("hgetall beer: %w", err)
	}
	if len(fields) == 0 {
		return domain.Beer{}, domain.ErrNotFound
	}

	beer, err := decodeBeerHash(fields)
	if err != nil {
		return domain.Beer{}, fmt.Errorf("decode beer %s: %w", id, err)
	}
	beer.ID = id
	return beer, nil
}

func (r *RedisStore) SaveNew(ctx context.Context, beer domain.Beer) (domain.Beer, error) {
	now := r.now()
	beer.Version = 1
	beer.CreatedDate = now
	beer.LastModifiedDate = now
	beer.QuantityOnHand = 0

	for {
		beer.ID = uuid.New()

		created, err := saveBeerScript.Run(ctx, r.client, []string{beerKeyPrefix + beer.ID.String()}, encodeBeerHash(beer)...).Int()
		if err != nil {
			return domain.Beer{}, fmt.Errorf("save beer: %w", err)
		}
		if created == 1 {
			return beer, nil
		}
	}
}

func (r *RedisStore) Update(ctx context.Context, id uuid.UUID, beer domain.Beer) error {
	version, err := updateBeerScript.Run(ctx, r.client, []string{beerKeyPrefix + id.String()},
		beer.BeerName,
		string(beer.BeerStyle),
		beer.UPC,
		beer.Price.String(),
		r.now().Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return fmt.Errorf("update beer: %w", err)
	}

	if version == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func encodeBeerHash(b domain.Beer) []interface{} {
	return []interface{}{
		"version", b.Version,
		"created_date", b.CreatedDate.Format(time.RFC3339Nano),
		"last_modified_date", b.LastModifiedDate.Format(time.RFC3339Nano),
		"beer_name", b.BeerName,
		"beer_style", string(b.BeerStyle),
		"upc", b.UPC,
		"price", b.Price.String(),
		"quantity_on_hand", b.QuantityOnHand,
	}
}

func decodeBeerHash(fields map[string]string) (domain.Beer, error) {
	var (
		b   domain.Beer
		err error
	)

	if b.Version, err = strconv.Atoi(fields["version"]); err != nil {
		return b, fmt.Errorf("version: %w", err)
	}
	if b.CreatedDate, err = time.Parse(time.RFC3339Nano, fields["created_date"]); err != nil {
		return b, fmt.Errorf("created_date: %w", err)
	}
	if b.LastModifiedDate, err = time.Parse(time.RFC3339Nano, fields["last_modified_date"]); err != nil {
		return b, fmt.Errorf("last_modified_date: %w", err)
	}
	if b.UPC, err = strconv.ParseInt(fields["upc"], 10, 64); err != nil {
		return b, fmt.Errorf("upc: %w", err)
	}
	if b.Price, err = decimal.NewFromString(fields["price"]); err != nil {
		return b, fmt.Errorf("price: %w", err)
	}
	if b.QuantityOnHand, err = strconv.Atoi(fields["quantity_on_hand"]); err != nil {
		return b, fmt.Errorf("quantity_on_hand: %w", err)
	}
	if b.BeerStyle, err = domain.ParseBeerStyle(fields["beer_style"]); err != nil {
		return b, fmt.Errorf("beer_style: %w", err)
	}
	b.BeerName = fields["beer_name"]

	return b, nil
}
