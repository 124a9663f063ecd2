package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/brewery/internal/core/domain"
)

func getRedisClient(t *testing.T, addr string) *redis.Client {
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisStore_Suite(t *testing.T) {
	client := getRedisClient(t, "")
	defer client.Close()

	runStoreSuite(t, NewRedisStore(client))
}

func TestRedisStore_HashLayout(t *testing.T) {
	client := getRedisClient(t, "")
	defer client.Close()

	ctx := context.Background()
	store := NewRedisStore(client)

	saved, err := store.SaveNew(ctx, sampleBeer())
	require.NoError(t, err)

	key := beerKeyPrefix + saved.ID.String()
	defer client.Del(ctx, key)

	fields, err := client.HGetAll(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, "Beer1", fields["beer_name"])
	assert.Equal(t, "PALE_ALE", fields["beer_style"])
	assert.Equal(t, "123456789012", fields["upc"])
	assert.Equal(t, "12.95", fields["price"])
	assert.Equal(t, "1", fields["version"])
	assert.Equal(t, "0", fields["quantity_on_hand"])

	// quantity is owned by stock processes, updates must leave it alone
	require.NoError(t, client.HSet(ctx, key, "quantity_on_hand", 12).Err())
	require.NoError(t, store.Update(ctx, saved.ID, sampleBeer()))

	got, err := store.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.QuantityOnHand)
	assert.Equal(t, 2, got.Version)
}

func TestDecodeBeerHash_Corrupt(t *testing.T) {
	_, err := decodeBeerHash(map[string]string{"version": "x"})
	assert.ErrorContains(t, err, "version")
}

func TestDecodeBeerHash_UnknownStyle(t *testing.T) {
	now := time.Now().UTC()
	fields := map[string]string{}
	encoded := encodeBeerHash(domain.Beer{
		ID:               uuid.New(),
		Version:          1,
		CreatedDate:      now,
		LastModifiedDate: now,
		BeerName:         "Beer1",
		BeerStyle:        domain.BeerStylePaleAle,
		UPC:              1,
		Price:            decimal.RequireFromString("1.00"),
	})
	for i := 0; i+1 < len(encoded); i += 2 {
		fields[encoded[i].(string)] = fmt.Sprint(encoded[i+1])
	}

	_, err := decodeBeerHash(fields)
	require.NoError(t, err)

	fields["beer_style"] = "CIDER"
	_, err = decodeBeerHash(fields)
	assert.ErrorContains(t, err, "beer_style")
}
