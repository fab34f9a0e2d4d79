// cmd/migrate/main.go
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"course_quest/internal/config"
	"course_quest/internal/repository"
)

// テーブルの作成・更新とバッジカタログの投入を行います。
// 例: go run ./cmd/migrate -seed=true
func main() {
	seed := flag.Bool("seed", true, "seed the badge catalog after migration")
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.LoadConfig(*configDir); err != nil {
		logger.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		logger.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger.Info("Starting database migration...")
	if err := repository.AutoMigrate(db.WithContext(ctx)); err != nil {
		logger.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Database migration completed.")

	if !*seed {
		return
	}
	if err := repository.SeedBadgeCatalog(ctx, db, repository.NewGormBadgeRepository()); err != nil {
		logger.Error("Badge catalog seed failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Badge catalog seeded.", slog.Int("badges", len(repository.DefaultBadgeCatalog())))
}
