package services

import (
	"context"
	"errors"

	"trendz_shop/internal/apperrors"
	"trendz_shop/internal/logger"
	"trendz_shop/internal/metrics"
	"trendz_shop/internal/models"
	"trendz_shop/internal/redis"
	"trendz_shop/internal/repository"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "trendz_shop/internal/services"

type PlaceOrderItem struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

type PlaceOrderRequest struct {
	UserID uint
	Items  []PlaceOrderItem
	// TotalPrice is the total the client computed. It is only compared with
	// the server-side total.
	TotalPrice *decimal.Decimal
}

type PlaceOrderResult struct {
	OrderID    uint
	TotalPrice decimal.Decimal
}

type OrderService interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error)
	GetOrderDetail(ctx context.Context, id uint) (*models.OrderDetail, error)
	ListUserOrders(ctx context.Context, userID uint, page, limit int) (*OrderList, error)
	ListOrders(ctx context.Context, page, limit int) (*OrderList, error)
	UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) error
	DeleteOrder(ctx context.Context, id uint) error
}

type orderService struct {
	repos   *repository.Repositories
	details detailLoader
	cache   OrderCache
	metrics *metrics.Metrics
	log     *zap.Logger
	tracer  trace.Tracer
}

func NewOrderService(repos *repository.Repositories, cache OrderCache, m *metrics.Metrics, log *zap.Logger) OrderService {
	if cache == nil {
		cache = NoCache{}
	}
	return &orderService{
		repos:   repos,
		details: detailLoader{repos: repos},
		cache:   cache,
		metrics: m,
		log:     log.Named("orders"),
		tracer:  otel.Tracer(tracerName),
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	ctx, span := s.tracer.Start(ctx, "orders.PlaceOrder",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(req.UserID)),
			attribute.Int("order.items", len(req.Items)),
		))
	defer span.End()
	log := logger.WithTrace(ctx, s.log)

	result, units, err := s.placeOrder(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.OrderPlaced(apperrors.KindOf(err).Code())

		fields := []zap.Field{zap.Uint("user_id", req.UserID), zap.Error(err)}
		if apperrors.KindOf(err).HTTPStatus() >= 500 {
			log.Error("order placement failed", fields...)
		} else {
			log.Warn("order rejected", fields...)
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int64("order.id", int64(result.OrderID)))
	s.metrics.OrderPlaced("success")
	s.metrics.UnitsReserved(units)
	log.Info("order placed",
		zap.Uint("order_id", result.OrderID),
		zap.Uint("user_id", req.UserID),
		zap.String("total", result.TotalPrice.StringFixed(2)),
	)
	return result, nil
}

func validatePlaceOrder(req PlaceOrderRequest) error {
	if req.UserID == 0 || len(req.Items) == 0 {
		return apperrors.Validation("user_id and items are required")
	}
	for i, item := range req.Items {
		if item.ProductID == 0 {
			return apperrors.Validation("item %d: product_id is required", i+1)
		}
		if item.Quantity <= 0 {
			return apperrors.Validation("item %d: quantity must be positive", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return apperrors.Validation("item %d: unit_price must not be negative", i+1)
		}
	}
	return nil
}

// placeOrder runs the placement in one unit of work and reports the number of
// units taken from stock.
func (s *orderService) placeOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, int, error) {
	if err := validatePlaceOrder(req); err != nil {
		return nil, 0, err
	}

	if _, err := s.repos.Users.GetByID(ctx, req.UserID); err != nil {
		return nil, 0, notFoundOr(err, "User", req.UserID)
	}

	uow, err := s.repos.Tx.Begin(ctx)
	if err != nil {
		return nil, 0, apperrors.Persistence("Failed to start transaction", err)
	}

	result, units, err := s.reserve(ctx, uow, req)
	if err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			s.log.Error("rollback failed", zap.Error(rbErr))
		}
		return nil, 0, err
	}

	if err := uow.Commit(); err != nil {
		return nil, 0, apperrors.Persistence("Failed to commit order", err)
	}

	if req.TotalPrice != nil && !req.TotalPrice.Round(2).Equal(result.TotalPrice) {
		s.log.Warn("client total differs from computed total",
			zap.Uint("order_id", result.OrderID),
			zap.String("claimed", req.TotalPrice.StringFixed(2)),
			zap.String("computed", result.TotalPrice.StringFixed(2)),
		)
	}
	return result, units, nil
}

func (s *orderService) reserve(ctx context.Context, uow repository.UnitOfWork, req PlaceOrderRequest) (*PlaceOrderResult, int, error) {
	userID := req.UserID
	order := &models.Order{
		UserID:        &userID,
		TotalPrice:    decimal.Zero,
		PaymentStatus: models.PaymentPending,
	}
	if err := uow.Orders().Create(ctx, order); err != nil {
		return nil, 0, apperrors.Persistence("Failed to create order", err)
	}

	total := decimal.Zero
	units := 0
	for _, requested := range req.Items {
		product, err := uow.Products().GetForUpdate(ctx, requested.ProductID)
		if err != nil {
			return nil, 0, notFoundOr(err, "Product", requested.ProductID)
		}
		if product.Stock < requested.Quantity {
			return nil, 0, apperrors.InsufficientStock(product.Name)
		}

		ok, err := uow.Products().DecrementStock(ctx, product.ID, requested.Quantity)
		if err != nil {
			return nil, 0, apperrors.Persistence("Failed to update stock", err)
		}
		if !ok {
			return nil, 0, apperrors.InsufficientStock(product.Name)
		}

		item := &models.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  requested.Quantity,
			UnitPrice: requested.UnitPrice.Round(2),
		}
		if err := uow.OrderItems().Create(ctx, item); err != nil {
			return nil, 0, apperrors.Persistence("Failed to create order item", err)
		}

		total = total.Add(item.LineTotal())
		units += requested.Quantity
	}

	total = total.Round(2)
	if err := uow.Orders().UpdateTotal(ctx, order.ID, total); err != nil {
		return nil, 0, apperrors.Persistence("Failed to store order total", err)
	}

	return &PlaceOrderResult{OrderID: order.ID, TotalPrice: total}, units, nil
}

func (s *orderService) GetOrderDetail(ctx context.Context, id uint) (*models.OrderDetail, error) {
	cached, err := s.cache.GetOrderDetail(ctx, id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		s.log.Warn("order detail cache read failed", zap.Uint("order_id", id), zap.Error(err))
	}

	detail, err := s.details.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetOrderDetail(ctx, detail); err != nil {
		s.log.Warn("order detail cache write failed", zap.Uint("order_id", id), zap.Error(err))
	}
	return detail, nil
}

func (s *orderService) ListUserOrders(ctx context.Context, userID uint, page, limit int) (*OrderList, error) {
	if _, err := s.repos.Users.GetByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "User", userID)
	}

	page, limit = normalizePage(page, limit)
	orders, total, err := s.repos.Orders.GetByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, apperrors.Persistence("Failed to list orders", err)
	}
	return &OrderList{Orders: orders, Meta: newPageMeta(page, limit, total)}, nil
}

func (s *orderService) ListOrders(ctx context.Context, page, limit int) (*OrderList, error) {
	page, limit = normalizePage(page, limit)
	orders, total, err := s.repos.Orders.GetAll(ctx, page, limit)
	if err != nil {
		return nil, apperrors.Persistence("Failed to list orders", err)
	}
	return &OrderList{Orders: orders, Meta: newPageMeta(page, limit, total)}, nil
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) error {
	if !status.Valid() {
		return apperrors.Validation("invalid payment status %q", status)
	}

	if err := s.repos.Orders.UpdatePaymentStatus(ctx, id, status); err != nil {
		return notFoundOr(err, "Order", id)
	}
	s.invalidate(ctx, id)

	s.log.Info("payment status updated", zap.Uint("order_id", id), zap.String("status", string(status)))
	return nil
}

// DeleteOrder removes an order and its items. Stock is not restored.
func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	if _, err := s.repos.Orders.GetByID(ctx, id); err != nil {
		return notFoundOr(err, "Order", id)
	}

	uow, err := s.repos.Tx.Begin(ctx)
	if err != nil {
		return apperrors.Persistence("Failed to start transaction", err)
	}
	if err := deleteOrder(ctx, uow, id); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			s.log.Error("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	if err := uow.Commit(); err != nil {
		return apperrors.Persistence("Failed to commit order deletion", err)
	}
	s.invalidate(ctx, id)

	s.log.Info("order deleted", zap.Uint("order_id", id))
	return nil
}

func deleteOrder(ctx context.Context, uow repository.UnitOfWork, id uint) error {
	if err := uow.OrderItems().DeleteByOrderID(ctx, id); err != nil {
		return apperrors.Persistence("Failed to delete order items", err)
	}
	if err := uow.Orders().Delete(ctx, id); err != nil {
		return notFoundOr(err, "Order", id)
	}
	return nil
}

func (s *orderService) invalidate(ctx context.Context, id uint) {
	if err := s.cache.DeleteOrderDetail(ctx, id); err != nil {
		s.log.Warn("order detail cache invalidation failed", zap.Uint("order_id", id), zap.Error(err))
	}
}
