package services

import (
	"context"
	"time"

	"trendz_shop/internal/apperrors"
	"trendz_shop/internal/invoice"
	"trendz_shop/internal/logger"
	"trendz_shop/internal/metrics"
	"trendz_shop/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type InvoiceResult struct {
	OrderID uint
	Path    string
	Totals  invoice.Totals
}

type InvoiceService interface {
	Generate(ctx context.Context, orderID uint) (*InvoiceResult, error)
}

type invoiceService struct {
	repos    *repository.Repositories
	details  detailLoader
	renderer invoice.Renderer
	settings invoice.Settings
	cache    OrderCache
	metrics  *metrics.Metrics
	log      *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

func NewInvoiceService(repos *repository.Repositories, renderer invoice.Renderer, settings invoice.Settings, cache OrderCache, m *metrics.Metrics, log *zap.Logger) InvoiceService {
	if cache == nil {
		cache = NoCache{}
	}
	return &invoiceService{
		repos:    repos,
		details:  detailLoader{repos: repos},
		renderer: renderer,
		settings: settings,
		cache:    cache,
		metrics:  m,
		log:      log.Named("invoices"),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

// Generate renders the invoice for an order, replacing any earlier artifact,
// and records its path on the order.
func (s *invoiceService) Generate(ctx context.Context, orderID uint) (*InvoiceResult, error) {
	ctx, span := s.tracer.Start(ctx, "invoices.Generate",
		trace.WithAttributes(attribute.Int64("order.id", int64(orderID))))
	defer span.End()
	log := logger.WithTrace(ctx, s.log)

	result, err := s.generate(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn("invoice generation failed", zap.Uint("order_id", orderID), zap.Error(err))
		return nil, err
	}

	log.Info("invoice generated",
		zap.Uint("order_id", orderID),
		zap.String("path", result.Path),
		zap.String("grand_total", result.Totals.GrandTotal.StringFixed(2)),
	)
	return result, nil
}

func (s *invoiceService) generate(ctx context.Context, orderID uint) (*InvoiceResult, error) {
	detail, err := s.details.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	doc := invoice.NewDocument(s.settings, detail, s.now())

	start := time.Now()
	path, err := s.renderer.Render(doc)
	if err != nil {
		s.metrics.InvoiceRendered("failure", time.Since(start))
		return nil, apperrors.Render("Failed to render invoice", err)
	}
	s.metrics.InvoiceRendered("success", time.Since(start))

	if err := s.repos.Orders.SetInvoicePath(ctx, orderID, path); err != nil {
		return nil, notFoundOr(err, "Order", orderID)
	}
	if err := s.cache.DeleteOrderDetail(ctx, orderID); err != nil {
		s.log.Warn("order detail cache invalidation failed", zap.Uint("order_id", orderID), zap.Error(err))
	}

	return &InvoiceResult{OrderID: orderID, Path: path, Totals: doc.Totals}, nil
}
