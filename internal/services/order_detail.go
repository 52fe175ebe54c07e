package services

import (
	"context"
	"errors"
	"fmt"

	"trendz_shop/internal/apperrors"
	"trendz_shop/internal/models"
	"trendz_shop/internal/repository"

	"gorm.io/gorm"
)

// detailLoader joins an order with its items, product names and owner.
type detailLoader struct {
	repos *repository.Repositories
}

func (l detailLoader) load(ctx context.Context, orderID uint) (*models.OrderDetail, error) {
	order, err := l.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, "Order", orderID)
	}

	items, err := l.repos.OrderItems.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, apperrors.Persistence("Failed to load order items", err)
	}

	productIDs := make([]uint, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	names, err := l.repos.Products.FindNames(ctx, productIDs)
	if err != nil {
		return nil, apperrors.Persistence("Failed to load product names", err)
	}

	detail := &models.OrderDetail{
		OrderID:       order.ID,
		UserID:        order.UserID,
		UserName:      models.GuestName,
		UserEmail:     models.GuestEmail,
		Items:         make([]models.OrderDetailItem, 0, len(items)),
		TotalPrice:    order.TotalPrice,
		PaymentStatus: order.PaymentStatus,
		InvoicePath:   order.InvoicePath,
		CreatedAt:     order.CreatedAt.UTC(),
	}

	if order.UserID != nil {
		user, err := l.repos.Users.GetByID(ctx, *order.UserID)
		switch {
		case err == nil:
			detail.UserName = user.Name
			detail.UserEmail = user.Email
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apperrors.Persistence("Failed to load order owner", err)
		}
	}

	for _, item := range items {
		name, ok := names[item.ProductID]
		if !ok {
			name = fmt.Sprintf("Product %d", item.ProductID)
		}
		detail.Items = append(detail.Items, models.OrderDetailItem{
			ProductID: item.ProductID,
			Name:      name,
			Price:     item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}

	return detail, nil
}
