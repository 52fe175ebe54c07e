package repository

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork is one database transaction with repositories bound to it.
// Callers decide the outcome explicitly with Commit or Rollback.
type UnitOfWork interface {
	Products() ProductRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Commit() error
	Rollback() error
}

type TxManager interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) Begin(ctx context.Context) (UnitOfWork, error) {
	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &unitOfWork{tx: tx}, nil
}

type unitOfWork struct {
	tx *gorm.DB
}

func (u *unitOfWork) Products() ProductRepository {
	return NewProductRepository(u.tx)
}

func (u *unitOfWork) Orders() OrderRepository {
	return NewOrderRepository(u.tx)
}

func (u *unitOfWork) OrderItems() OrderItemRepository {
	return NewOrderItemRepository(u.tx)
}

func (u *unitOfWork) Commit() error {
	return u.tx.Commit().Error
}

func (u *unitOfWork) Rollback() error {
	return u.tx.Rollback().Error
}
