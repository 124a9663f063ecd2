package handler

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rl1809/brewery/internal/core/domain"
	"github.com/rl1809/brewery/internal/core/service"
)

func newBufconnClient(t *testing.T, store *fakeBeerStore) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv, _ := NewGRPCServer(NewGRPCHandler(service.NewBeerService(store)), zerolog.Nop())
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	cc, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { cc.Close() })

	return cc
}

func TestGRPC_GetBeer(t *testing.T) {
	store := &fakeBeerStore{beer: validBeer()}
	client := NewBeerServiceClient(newBufconnClient(t, store))

	resp, err := client.GetBeer(context.Background(), &GetBeerRequest{ID: validBeer().ID.String()})
	require.NoError(t, err)
	require.NotNil(t, resp.ID)
	assert.Equal(t, validBeer().ID, *resp.ID)
	assert.Equal(t, "Beer1", resp.BeerName)
	assert.True(t, resp.Price.Equal(validBeer().Price))
}

func TestGRPC_SaveNewBeer(t *testing.T) {
	store := &fakeBeerStore{beer: validBeer()}
	client := NewBeerServiceClient(newBufconnClient(t, store))

	other := uuid.New()
	resp, err := client.SaveNewBeer(context.Background(), &SaveNewBeerRequest{Beer: BeerDto{
		ID:             &other,
		BeerName:       "Beer1",
		BeerStyle:      domain.BeerStylePaleAle,
		UPC:            123456789012,
		QuantityOnHand: 50,
	}})
	require.NoError(t, err)
	assert.Equal(t, validBeer().ID, *resp.ID)

	require.Len(t, store.saveCalls, 1)
	assert.Equal(t, uuid.Nil, store.saveCalls[0].ID)
	assert.Zero(t, store.saveCalls[0].QuantityOnHand)
}

func TestGRPC_UpdateBeer(t *testing.T) {
	store := &fakeBeerStore{}
	client := NewBeerServiceClient(newBufconnClient(t, store))

	id := uuid.New()
	_, err := client.UpdateBeer(context.Background(), &UpdateBeerRequest{
		ID:   id.String(),
		Beer: BeerDto{BeerName: "Beer1", BeerStyle: domain.BeerStylePaleAle, UPC: 123456789012},
	})
	require.NoError(t, err)

	require.Len(t, store.updCalls, 1)
	assert.Equal(t, id, store.updCalls[0].id)
}

func TestGRPC_ErrorCodes(t *testing.T) {
	testCases := map[string]struct {
		store *fakeBeerStore
		call  func(c *BeerServiceClient) error
		code  codes.Code
	}{
		"malformed id": {
			store: &fakeBeerStore{},
			call: func(c *BeerServiceClient) error {
				_, err := c.GetBeer(context.Background(), &GetBeerRequest{ID: "nope"})
				return err
			},
			code: codes.InvalidArgument,
		},
		"validation": {
			store: &fakeBeerStore{},
			call: func(c *BeerServiceClient) error {
				_, err := c.SaveNewBeer(context.Background(), &SaveNewBeerRequest{})
				return err
			},
			code: codes.InvalidArgument,
		},
		"not found": {
			store: &fakeBeerStore{getErr: domain.ErrNotFound},
			call: func(c *BeerServiceClient) error {
				_, err := c.GetBeer(context.Background(), &GetBeerRequest{ID: uuid.NewString()})
				return err
			},
			code: codes.NotFound,
		},
		"store failure": {
			store: &fakeBeerStore{updErr: errors.New("boom")},
			call: func(c *BeerServiceClient) error {
				_, err := c.UpdateBeer(context.Background(), &UpdateBeerRequest{
					ID:   uuid.NewString(),
					Beer: BeerDto{BeerName: "x", BeerStyle: domain.BeerStyleAle, UPC: 1},
				})
				return err
			},
			code: codes.Internal,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			client := NewBeerServiceClient(newBufconnClient(t, tc.store))

			err := tc.call(client)
			assert.Equal(t, tc.code, status.Code(err), "error: %v", err)
		})
	}
}

func TestGRPC_Health(t *testing.T) {
	cc := newBufconnClient(t, &fakeBeerStore{})

	resp, err := healthpb.NewHealthClient(cc).Check(context.Background(), &healthpb.HealthCheckRequest{
		Service: beerServiceName,
	})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
