package services

import (
	"context"

	"trendz_shop/internal/models"
	"trendz_shop/internal/redis"
)

// OrderCache stores rendered order details. Implementations return
// redis.ErrCacheMiss for absent entries.
type OrderCache interface {
	GetOrderDetail(ctx context.Context, orderID uint) (*models.OrderDetail, error)
	SetOrderDetail(ctx context.Context, detail *models.OrderDetail) error
	DeleteOrderDetail(ctx context.Context, orderID uint) error
}

// NoCache is used when Redis is not configured.
type NoCache struct{}

func (NoCache) GetOrderDetail(context.Context, uint) (*models.OrderDetail, error) {
	return nil, redis.ErrCacheMiss
}

func (NoCache) SetOrderDetail(context.Context, *models.OrderDetail) error { return nil }

func (NoCache) DeleteOrderDetail(context.Context, uint) error { return nil }
