package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/brewery/internal/adapter/handler"
	"github.com/rl1809/brewery/internal/adapter/messaging"
	"github.com/rl1809/brewery/internal/adapter/storage"
	"github.com/rl1809/brewery/internal/apidoc"
	"github.com/rl1809/brewery/internal/config"
	"github.com/rl1809/brewery/internal/core/service"
	"github.com/rl1809/brewery/internal/logger"
	"github.com/rl1809/brewery/internal/port"
	"github.com/rl1809/brewery/internal/telemetry"
)

const (
	apiTitle   = "Brewery API"
	apiVersion = "v1"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty, cfg.Service.Name)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: apiVersion,
		Endpoint:       cfg.OTel.Endpoint,
		Insecure:       cfg.OTel.Insecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error().Err(err).Msg("failed to flush traces")
		}
	}()

	// Initialize store
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var checks []handler.HealthCheck

	// Initialize Kafka
	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		client, err := kgo.NewClient(
			kgo.SeedBrokers(brokers...),
			kgo.ClientID(cfg.Service.Name),
			kgo.RecordDeliveryTimeout(cfg.Kafka.PublishTimeout),
		)
		if err != nil {
			return fmt.Errorf("create kafka client: %w", err)
		}
		defer client.Close()

		publisher := messaging.NewKafkaPublisher(client, cfg.Kafka.Topic)
		store = storage.NewPublishingStore(store, publisher, storage.WithPublishTimeout(cfg.Kafka.PublishTimeout))
		checks = append(checks, handler.HealthCheck{Name: "kafka", Ping: publisher.Ping})
		log.Info().Strs("brokers", brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing beer events")
	}

	// Initialize service
	beerService := service.NewBeerService(store)
	checks = append([]handler.HealthCheck{{Name: "store", Ping: beerService.Ping}}, checks...)

	spec, err := apidoc.Build(apiTitle, apiVersion, handler.Routes())
	if err != nil {
		return err
	}
	docs, err := apidoc.Handler(spec)
	if err != nil {
		return err
	}

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(beerService, checks...)
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           otelhttp.NewHandler(handler.NewRouter(httpHandler, log, docs), "http"),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// Initialize gRPC server
	grpcServer, healthServer := handler.NewGRPCServer(handler.NewGRPCHandler(beerService), log)
	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPC.Addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.GRPC.Addr).Msg("gRPC server listening")
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr).Str("store", cfg.Store.Driver).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		log.Info().Msg("HTTP server stopped")

		grpcServer.GracefulStop()
		log.Info().Msg("gRPC server stopped")
		return err
	})

	return g.Wait()
}

// openStore connects the configured beer store and returns a func that
// releases its connections.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (port.BeerStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMySQL:
		db, err := sql.Open("mysql", cfg.MySQL.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping mysql: %w", err)
		}

		store := storage.NewMySQLStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Msg("connected to mysql")
		return store, func() { db.Close() }, nil

	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}

		store := storage.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info().Msg("connected to postgres")
		return store, pool.Close, nil

	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		log.Info().Msg("connected to redis")
		return storage.NewRedisStore(rdb), func() { rdb.Close() }, nil

	default:
		log.Warn().Msg("using in-memory store, beers are lost on restart")
		return storage.NewMemoryStore(), func() {}, nil
	}
}
