package migrations

import (
	"context"

	"trendz_shop/internal/apperrors"
	"trendz_shop/internal/config"
	"trendz_shop/internal/database"
	"trendz_shop/internal/models"
	"trendz_shop/internal/repository"
	"trendz_shop/internal/services"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type sampleProduct struct {
	category    string
	name        string
	description string
	price       string
	stock       int
}

var sampleProducts = []sampleProduct{
	{"Shirts", "Classic Oxford Shirt", "Cotton oxford shirt with button-down collar.", "1499.00", 25},
	{"Shirts", "Linen Summer Shirt", "Breathable linen blend.", "1899.00", 15},
	{"Hats", "Canvas Baseball Cap", "Adjustable strap, one size.", "499.00", 40},
	{"Shoes", "White Leather Sneakers", "Minimal low-top sneakers.", "3299.00", 10},
	{"Accessories", "Woven Leather Belt", "Brown full-grain leather.", "799.00", 30},
}

// Reset drops every table owned by the shop.
func Reset(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.OrderItem{}, &models.Order{}, &models.Product{}, &models.User{})
}

// RunMigrations runs all database migrations and creates default data
func RunMigrations(ctx context.Context, db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	log.Info("running database migrations")

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	if err := createDefaultData(ctx, db, cfg, log); err != nil {
		log.Warn("failed to create default data", zap.Error(err))
	}

	log.Info("database migrations completed")
	return nil
}

// createDefaultData creates the admin account and a starter catalog when they
// are missing.
func createDefaultData(ctx context.Context, db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	repos := repository.NewRepositories(db)
	userService := services.NewUserService(repos.Users, log)
	productService := services.NewProductService(repos.Products, log)

	// Check if admin already exists
	_, err := userService.GetUserByEmail(ctx, cfg.AdminEmail)
	switch {
	case err == nil:
		log.Info("admin user already exists", zap.String("email", cfg.AdminEmail))
	case apperrors.Is(err, apperrors.KindNotFound):
		_, err := userService.CreateUser(ctx, services.CreateUserInput{
			Name:     "Administrator",
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
			Role:     models.RoleAdmin,
		})
		if err != nil {
			return err
		}
		log.Info("admin user created", zap.String("email", cfg.AdminEmail))
	default:
		return err
	}

	count, err := repos.Products.CountAll(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, p := range sampleProducts {
		_, err := productService.CreateProduct(ctx, services.ProductInput{
			Category:    p.category,
			Name:        p.name,
			Description: p.description,
			Price:       decimal.RequireFromString(p.price),
			Stock:       p.stock,
		})
		if err != nil {
			return err
		}
	}
	log.Info("sample products created", zap.Int("count", len(sampleProducts)))
	return nil
}
