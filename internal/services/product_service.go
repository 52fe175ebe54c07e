package services

import (
	"context"
	"fmt"
	"strings"

	"trendz_shop/internal/apperrors"
	"trendz_shop/internal/models"
	"trendz_shop/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductInput struct {
	Category    string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
}

// ProductUpdate carries the fields to change; nil fields are left untouched.
type ProductUpdate struct {
	Category    *string
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	ImageURL    *string
}

type ProductService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id uint, update ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	GenerateSerial(ctx context.Context, category string) (string, error)
}

type productService struct {
	productRepo repository.ProductRepository
	log         *zap.Logger
}

func NewProductService(productRepo repository.ProductRepository, log *zap.Logger) ProductService {
	return &productService{productRepo: productRepo, log: log.Named("products")}
}

func validateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperrors.Validation("name is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return apperrors.Validation("category is required")
	}
	if p.Price.IsNegative() {
		return apperrors.Validation("price must not be negative")
	}
	if p.Stock < 0 {
		return apperrors.Validation("stock must not be negative")
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	product := &models.Product{
		Category:    strings.TrimSpace(input.Category),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price.Round(2),
		ImageURL:    input.ImageURL,
	}
	product.SetStock(input.Stock)
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	serial, err := s.GenerateSerial(ctx, product.Category)
	if err != nil {
		return nil, err
	}
	product.SerialCode = serial

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, apperrors.Persistence("Failed to create product", err)
	}

	s.log.Info("product created", zap.Uint("product_id", product.ID), zap.String("serial_code", serial))
	return product, nil
}

// GenerateSerial returns "<first 4 letters of category, upper>-<NNN>" where NNN
// is the number of products ever created plus one.
func (s *productService) GenerateSerial(ctx context.Context, category string) (string, error) {
	count, err := s.productRepo.CountAll(ctx)
	if err != nil {
		return "", apperrors.Persistence("Failed to count products", err)
	}
	return formatSerial(category, count+1), nil
}

func formatSerial(category string, n int64) string {
	prefix := []rune(strings.TrimSpace(category))
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return fmt.Sprintf("%s-%03d", strings.ToUpper(string(prefix)), n)
}

func (s *productService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product", id)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, apperrors.Persistence("Failed to list products", err)
	}
	return products, nil
}

// UpdateProduct changes only the fields set in update. Stock is written only
// when update.Stock is set, so units reserved by orders placed since the read
// are kept.
func (s *productService) UpdateProduct(ctx context.Context, id uint, update ProductUpdate) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product", id)
	}

	fields := map[string]interface{}{}
	if update.Category != nil {
		product.Category = strings.TrimSpace(*update.Category)
		fields["category"] = product.Category
	}
	if update.Name != nil {
		product.Name = strings.TrimSpace(*update.Name)
		fields["name"] = product.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
		fields["description"] = product.Description
	}
	if update.Price != nil {
		product.Price = update.Price.Round(2)
		fields["price"] = product.Price
	}
	if update.ImageURL != nil {
		product.ImageURL = *update.ImageURL
		fields["image_url"] = product.ImageURL
	}
	if update.Stock != nil {
		product.SetStock(*update.Stock)
		fields["stock"] = product.Stock
		fields["is_available"] = product.IsAvailable
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return product, nil
	}

	if err := s.productRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, notFoundOr(err, "Product", id)
	}

	updated, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product", id)
	}
	s.log.Info("product updated", zap.Uint("product_id", id), zap.Int("fields", len(fields)))
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Product", id)
	}
	s.log.Info("product deleted", zap.Uint("product_id", id))
	return nil
}
