package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/broadcast"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/config"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/events"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/files"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/messaging"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/repository"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/service"
	httpTransport "github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/transport/http"
	websocketTransport "github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/transport/websocket"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		hclog.Default().Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize the logger
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "catalog-api",
		Level: hclog.LevelFromString(cfg.LogLevel),
	})

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger hclog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create a standard logger for the HTTP server
	standardLogger := logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})

	products, carts, mongoClient, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if mongoClient != nil {
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoClient.Disconnect(dctx); err != nil {
				logger.Error("Error disconnecting from MongoDB", "error", err)
			}
		}()
	}

	// Every session subscribes to the broadcaster; domain events go on the bus
	broadcaster := broadcast.New(logger.Named("broadcaster"), events.DefaultBuffer)
	eventBus := newEventBus(logger.Named("events"))

	ps := service.NewProductService(
		products,
		broadcaster,
		eventBus,
		logger.Named("product-service"),
	)
	cs := service.NewCartService(carts, products, logger.Named("cart-service"))

	g, gctx := errgroup.WithContext(ctx)

	if cfg.RedisAddress != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}

		relay := broadcast.NewRelay(client, cfg.RedisChannel, logger.Named("relay"))
		broadcaster.SetAnnouncer(relay)
		g.Go(func() error {
			return relay.Run(gctx, broadcaster, ps)
		})
		logger.Info("Broadcast relay enabled", "address", cfg.RedisAddress, "channel", cfg.RedisChannel)
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := messaging.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger.Named("kafka"))
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("Error closing Kafka publisher", "error", err)
			}
		}()

		sub := eventBus.Subscribe()
		g.Go(func() error {
			defer eventBus.Unsubscribe(sub)
			publisher.Run(gctx, sub)
			return nil
		})
		logger.Info("Catalog events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	store, err := files.NewLocal(cfg.ThumbnailDir, cfg.ThumbnailMaxBytes)
	if err != nil {
		return err
	}

	// Initialize the router
	router := httpTransport.NewRouter(httpTransport.Handlers{
		Products:   httpTransport.NewProductHandler(ps, logger.Named("http-handler")),
		Carts:      httpTransport.NewCartHandler(cs, logger.Named("http-handler")),
		Thumbnails: httpTransport.NewThumbnailHandler(ps, store, cfg.ThumbnailMaxBytes, logger.Named("thumbnails")),
		WebSocket: websocketTransport.NewHandler(
			logger.Named("websocket-handler"),
			broadcaster,
			ps,
			cfg.AllowedOrigins,
		),
	}, logger, corsConfig(cfg))

	// Create the HTTP Server
	server := &http.Server{
		Addr:         cfg.BindAddress,
		Handler:      router,
		ErrorLog:     standardLogger,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("Starting server", "bind_address", cfg.BindAddress, "storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStorage(ctx context.Context, cfg *config.Config, logger hclog.Logger) (repository.ProductRepository, repository.CartRepository, *mongo.Client, error) {
	if cfg.StorageDriver == config.DriverFile {
		products, err := repository.NewFileProductRepository(cfg.DataDir)
		if err != nil {
			return nil, nil, nil, err
		}
		carts, err := repository.NewFileCartRepository(cfg.DataDir)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("Using file storage", "dir", cfg.DataDir)
		return products, carts, nil, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := repository.ConnectMongo(cctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, nil, err
	}

	db := client.Database(cfg.MongoDatabase)
	products, err := repository.NewMongoProductRepository(cctx, db)
	if err != nil {
		client.Disconnect(context.Background())
		return nil, nil, nil, err
	}
	logger.Info("Using MongoDB storage", "database", cfg.MongoDatabase)
	return products, repository.NewMongoCartRepository(db), client, nil
}

// newEventBus creates the domain event bus; events a slow consumer misses are logged
func newEventBus(logger hclog.Logger) *events.EventBus[events.ProductEvent] {
	bus := events.NewEventBus[events.ProductEvent]()
	bus.OnDrop = func(_ events.Subscriber[events.ProductEvent], e events.ProductEvent) {
		logger.Warn("Event consumer is not keeping up, event dropped", "type", e.Type, "product", e.ProductID)
	}
	return bus
}

func corsConfig(cfg *config.Config) *httpTransport.CORSConfig {
	cors := httpTransport.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.AllowedOrigins
	return cors
}
