package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/flicky/toolstore/internal/config"
	"github.com/flicky/toolstore/internal/handler"
	"github.com/flicky/toolstore/internal/metrics"
	"github.com/flicky/toolstore/internal/repository"
	"github.com/flicky/toolstore/internal/service"
	"github.com/flicky/toolstore/internal/worker"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the order event worker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	log := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.DB.MigrateOnStart {
		if err := repository.Migrate(cfg.DB.DSN()); err != nil {
			return err
		}
		log.Info("database migrated")
	}

	dbPool, err := connectDB(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	redisClient, err := connectRedis(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// RabbitMQ: one channel for publishing from request handlers, one for the consumer.
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		return fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	defer amqpConn.Close()

	publishCh, err := amqpConn.Channel()
	if err != nil {
		return fmt.Errorf("open RabbitMQ channel: %w", err)
	}
	defer publishCh.Close()

	if err := worker.SetupRabbitMQ(publishCh); err != nil {
		return fmt.Errorf("setup RabbitMQ: %w", err)
	}

	consumeCh, err := amqpConn.Channel()
	if err != nil {
		return fmt.Errorf("open RabbitMQ channel: %w", err)
	}
	defer consumeCh.Close()
	log.Info("connected to RabbitMQ")

	m := metrics.New()

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	categoryRepo := repository.NewCategoryRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	cartRepo := repository.NewCartRepository(dbPool)
	wishlistRepo := repository.NewWishlistRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)

	// Services
	userSvc := service.NewUserService(userRepo)
	catalogSvc := service.NewCatalogService(categoryRepo, productRepo, redisClient, cfg.Cache.TTL, m)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	wishlistSvc := service.NewWishlistService(wishlistRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, worker.NewPublisher(publishCh), log, m)

	router := handler.NewRouter(handler.RouterConfig{
		Logger:    log,
		Metrics:   m,
		JWTSecret: cfg.JWT.Secret,
		AdminRole: cfg.JWT.AdminRole,
		Health:    handler.NewHealthHandler(dbPool, redisClient, amqpConn),
		User:      handler.NewUserHandler(userSvc),
		Catalog:   handler.NewCatalogHandler(catalogSvc),
		Cart:      handler.NewCartHandler(cartSvc),
		Wishlist:  handler.NewWishlistHandler(wishlistSvc),
		Order:     handler.NewOrderHandler(orderSvc),
	})

	orderWorker := worker.NewOrderEventWorker(consumeCh, orderRepo, worker.NewRedisIdempotencyStore(redisClient), log, m)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return orderWorker.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}
