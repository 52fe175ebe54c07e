package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"trendz_shop/internal/config"
	"trendz_shop/internal/database"
	"trendz_shop/internal/logger"
	"trendz_shop/internal/migrations"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	appLogger, err := logger.New(cfg.Environment, cfg.LogFile)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer func() { _ = appLogger.Sync() }()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.IsProduction(), appLogger)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Force recreate all tables
	fmt.Println("Dropping existing tables...")
	if err := migrations.Reset(db); err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fmt.Println("Creating tables and default data...")
	if err := migrations.RunMigrations(ctx, db, cfg, appLogger); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("Admin login:", cfg.AdminEmail)
	fmt.Println("Database initialization completed successfully!")
}
