package main

import (
	"github.com/spf13/cobra"

	"github.com/flicky/toolstore/internal/config"
	"github.com/flicky/toolstore/internal/repository"
	"github.com/flicky/toolstore/internal/seed"
	"github.com/flicky/toolstore/internal/service"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dbPool, err := connectDB(ctx, cfg.DB, log)
			if err != nil {
				return err
			}
			defer dbPool.Close()

			categoryRepo := repository.NewCategoryRepository(dbPool)
			productRepo := repository.NewProductRepository(dbPool)

			res, err := seed.Run(ctx, categoryRepo, productRepo)
			if err != nil {
				return err
			}
			log.Info("catalog seeded", "categories", res.Categories, "products", len(res.ProductIDs))

			// Stale catalog entries expire on their own; a missing Redis is not fatal here.
			redisClient, err := connectRedis(ctx, cfg.Redis, log)
			if err != nil {
				log.Warn("skipping cache invalidation", "error", err)
				return nil
			}
			defer redisClient.Close()

			catalog := service.NewCatalogService(categoryRepo, productRepo, redisClient, cfg.Cache.TTL, nil)
			if err := catalog.InvalidateCache(ctx, res.ProductIDs...); err != nil {
				log.Warn("invalidate catalog cache", "error", err)
			}
			return nil
		},
	}
}
