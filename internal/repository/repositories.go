package repository

import "gorm.io/gorm"

// Repositories bundles the repositories bound to the shared connection pool.
type Repositories struct {
	Users      UserRepository
	Products   ProductRepository
	Orders     OrderRepository
	OrderItems OrderItemRepository
	Tx         TxManager
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db),
		Products:   NewProductRepository(db),
		Orders:     NewOrderRepository(db),
		OrderItems: NewOrderItemRepository(db),
		Tx:         NewTxManager(db),
	}
}
