// @title                       Storefront API
// @version                     1.0
// @description                 Accounts, catalog, cart, search and navigation for the storefront UI.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/api"
	"github.com/storefront/storefront-api/internal/core/ports"
	"github.com/storefront/storefront-api/internal/core/service"
	"github.com/storefront/storefront-api/internal/infrastructure/config"
	mongodb "github.com/storefront/storefront-api/internal/infrastructure/db/mongo"
	redisdb "github.com/storefront/storefront-api/internal/infrastructure/db/redis"
	"github.com/storefront/storefront-api/internal/infrastructure/events"
	"github.com/storefront/storefront-api/internal/infrastructure/http/handlers"
	"github.com/storefront/storefront-api/internal/infrastructure/queue"
	"github.com/storefront/storefront-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Pretty: true})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}
	catalogRepo := mongodb.NewCatalogRepository(db)
	if err := catalogRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	avatars, err := mongodb.NewAvatarStore(db)
	if err != nil {
		return err
	}
	sessions := redisdb.NewSessionStore(rdb)
	carts := redisdb.NewCartStore(rdb)

	publisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("event publisher close")
		}
	}()

	dispatcher := queue.NewDispatcher(cfg.Kafka.Workers, publisher, log.With().Str("component", "dispatcher").Logger())
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	authSvc := service.NewAuthService(users, avatars, sessions, dispatcher, service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.TokenTTL,
		MaxAvatarBytes: cfg.MaxAvatarBytes,
	}, log)
	userSvc := service.NewUserService(users, avatars, dispatcher, log)
	catalogSvc := service.NewCatalogService(catalogRepo, cfg.CatalogTTL, log)
	cartSvc := service.NewCartService(carts, catalogSvc)
	navSvc := service.NewNavigationService(users, cartSvc, log)

	if cfg.Admin.Email != "" {
		if err := userSvc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Deps{
		Auth:       authSvc,
		Users:      userSvc,
		Catalog:    catalogSvc,
		Cart:       cartSvc,
		Navigation: navSvc,
		Sessions:   sessions,
		Readiness: map[string]handlers.Checker{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
		JWTSecret:      cfg.JWTSecret,
		SearchDebounce: cfg.SearchDebounce,
		AuthRateLimit:  cfg.AuthRateLimit,
		Log:            log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("shutdown complete")
	return nil
}

// newPublisher returns the Kafka publisher, or a log-only publisher when no
// brokers are configured.
func newPublisher(cfg *config.Config, log zerolog.Logger) (ports.EventPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Warn().Msg("KAFKA_BROKERS not set, user events are only logged")
		return events.NewLogPublisher(log), nil
	}
	return events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}
