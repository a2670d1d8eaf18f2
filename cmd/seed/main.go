package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"quizhub-backend/internal/config"
	"quizhub-backend/internal/database"
	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/models"
	"quizhub-backend/internal/repository"
	"quizhub-backend/internal/seed"
)

func main() {
	cfg := config.LoadSeed()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, closeDB, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("✗ Database connection failed", "driver", cfg.DBDriver, "error", err)
	}
	defer closeDB()

	if err := database.RunMigrations(db, cfg.DBDriver); err != nil {
		log.Fatal("✗ Database migration failed", "error", err)
	}

	questions, err := loadQuestions(cfg.SeedFile)
	if err != nil {
		log.Fatal("✗ Could not load question catalog", "file", cfg.SeedFile, "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := seed.Run(ctx, repository.NewStore(db), questions, log); err != nil {
		log.Fatal("✗ Seeding failed", "error", err)
	}
}

func loadQuestions(path string) ([]models.Question, error) {
	if path == "" {
		return seed.SampleCatalog()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return seed.LoadCatalog(f)
}
