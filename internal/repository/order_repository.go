package repository

import (
	"context"

	"trendz_shop/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetByUserID(ctx context.Context, userID uint, page, limit int) ([]models.Order, int64, error)
	GetAll(ctx context.Context, page, limit int) ([]models.Order, int64, error)
	UpdateTotal(ctx context.Context, id uint, total decimal.Decimal) error
	UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) error
	SetInvoicePath(ctx context.Context, id uint, path string) error
	Delete(ctx context.Context, id uint) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByUserID retrieves orders for a specific user with pagination
func (r *orderRepository) GetByUserID(ctx context.Context, userID uint, page, limit int) ([]models.Order, int64, error) {
	return r.paginate(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}, page, limit)
}

// GetAll retrieves all orders with pagination
func (r *orderRepository) GetAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	return r.paginate(ctx, func(db *gorm.DB) *gorm.DB { return db }, page, limit)
}

// paginate returns one page of orders matching filter, newest first, with
// their items, and the total number of matching orders.
func (r *orderRepository) paginate(ctx context.Context, filter func(*gorm.DB) *gorm.DB, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	err := r.db.WithContext(ctx).Model(&models.Order{}).Scopes(filter).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err = r.db.WithContext(ctx).
		Scopes(filter).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateTotal(ctx context.Context, id uint, total decimal.Decimal) error {
	return r.updateColumn(ctx, id, "total_price", total)
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) error {
	return r.updateColumn(ctx, id, "payment_status", status)
}

func (r *orderRepository) SetInvoicePath(ctx context.Context, id uint, path string) error {
	return r.updateColumn(ctx, id, "invoice_path", path)
}

func (r *orderRepository) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the order row. Items must be removed first in the same
// transaction; see OrderItemRepository.DeleteByOrderID.
func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Order{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
