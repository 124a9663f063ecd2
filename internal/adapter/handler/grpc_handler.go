package handler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/rl1809/brewery/internal/core/domain"
	"github.com/rl1809/brewery/internal/core/service"
)

type GRPCHandler struct {
	beerService *service.BeerService
}

func NewGRPCHandler(beerService *service.BeerService) *GRPCHandler {
	return &GRPCHandler{beerService: beerService}
}

// NewGRPCServer registers the beer service and the standard health
// service, which reports the beer service as serving.
func NewGRPCServer(h *GRPCHandler, logger zerolog.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append(opts, grpc.ChainUnaryInterceptor(loggingInterceptor(logger)))
	srv := grpc.NewServer(opts...)

	RegisterBeerServiceServer(srv, h)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(beerServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthServer)

	return srv, healthServer
}

func (h *GRPCHandler) GetBeer(ctx context.Context, req *GetBeerRequest) (*BeerDto, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "id %q is not a valid UUID", req.ID)
	}

	beer, err := h.beerService.GetBeerByID(ctx, id)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	dto := toBeerDto(beer)
	return &dto, nil
}

func (h *GRPCHandler) SaveNewBeer(ctx context.Context, req *SaveNewBeerRequest) (*BeerDto, error) {
	if err := validateBeer(req.Beer); err != nil {
		return nil, toStatus(ctx, err)
	}

	saved, err := h.beerService.SaveNewBeer(ctx, req.Beer.toDomain())
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	dto := toBeerDto(saved)
	return &dto, nil
}

func (h *GRPCHandler) UpdateBeer(ctx context.Context, req *UpdateBeerRequest) (*Empty, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "id %q is not a valid UUID", req.ID)
	}

	if err := validateBeer(req.Beer); err != nil {
		return nil, toStatus(ctx, err)
	}

	if err := h.beerService.UpdateBeer(ctx, id, req.Beer.toDomain()); err != nil {
		return nil, toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, domain.ErrNotFound.Error())
	default:
		zerolog.Ctx(ctx).Error().Err(err).Msg("rpc failed")
		return status.Error(codes.Internal, "internal error")
	}
}

func loggingInterceptor(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		ctx = logger.With().Str("rpc", info.FullMethod).Logger().WithContext(ctx)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		event := zerolog.Ctx(ctx).Info()
		if code == codes.Internal || code == codes.Unknown {
			event = zerolog.Ctx(ctx).Error()
		}
		event.
			Str("code", code.String()).
			Dur("duration", time.Since(start)).
			Msg("grpc request")

		return resp, err
	}
}
