package database

import (
	"fmt"
	"time"

	"trendz_shop/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL string, production bool, log *zap.Logger) (*gorm.DB, error) {
	// Configure GORM
	level := logger.Info
	if production {
		level = logger.Warn
	}
	config := &gorm.Config{
		Logger: logger.Default.LogMode(level),
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	log.Info("database connected")
	return db, nil
}

// AutoMigrate creates or updates the tables of every shop model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
