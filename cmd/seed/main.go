package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/storebilling/storebilling-backend/internal/items"
	"github.com/storebilling/storebilling-backend/pkg/config"
	"github.com/storebilling/storebilling-backend/pkg/db"
	"github.com/storebilling/storebilling-backend/pkg/logger"
	"github.com/storebilling/storebilling-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	inserted, err := items.Seed(ctx, dbClient.DB())
	if err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}
	if inserted == 0 {
		logg.Info(ctx, "items already present, nothing seeded")
		return
	}
	logg.Info(logg.WithField(ctx, "items", inserted), "sample catalog seeded")
}
