package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"trendz_shop/internal/apperrors"
	"trendz_shop/internal/invoice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type failingRenderer struct{}

func (failingRenderer) Render(*invoice.Document) (string, error) {
	return "", errors.New("disk full")
}

func newInvoiceService(f *fixture, renderer invoice.Renderer, cache OrderCache) *invoiceService {
	svc := NewInvoiceService(f.repos, renderer, invoice.DefaultSettings(), cache, nil, f.log).(*invoiceService)
	svc.now = func() time.Time { return time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestGenerateInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "Asha", "asha@example.com")
	orders := NewOrderService(f.repos, nil, nil, f.log)
	orderID := placeSample(t, f, orders, user.ID)

	dir := t.TempDir()
	cache := newMemoryCache()
	svc := newInvoiceService(f, invoice.NewPDFRenderer(dir), cache)

	first, err := svc.Generate(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, invoice.FileName(orderID)), first.Path)
	assert.Equal(t, "49.48", first.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "4.95", first.Totals.Tax.StringFixed(2))
	assert.Equal(t, "54.43", first.Totals.GrandTotal.StringFixed(2))
	assert.FileExists(t, first.Path)
	assert.Equal(t, 1, cache.deletes)

	order, err := f.repos.Orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	require.NotNil(t, order.InvoicePath)
	assert.Equal(t, first.Path, *order.InvoicePath)

	second, err := svc.Generate(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.Totals.Subtotal.String(), second.Totals.Subtotal.String())
	assert.Equal(t, first.Totals.Tax.String(), second.Totals.Tax.String())
	assert.Equal(t, first.Totals.GrandTotal.String(), second.Totals.GrandTotal.String())
}

func TestGenerateInvoice_MissingOrder(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	svc := newInvoiceService(f, invoice.NewPDFRenderer(dir), nil)

	_, err := svc.Generate(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateInvoice_RenderFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "Asha", "asha@example.com")
	orders := NewOrderService(f.repos, nil, nil, f.log)
	orderID := placeSample(t, f, orders, user.ID)

	svc := newInvoiceService(f, failingRenderer{}, nil)
	_, err := svc.Generate(ctx, orderID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindRender))

	order, err := f.repos.Orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Nil(t, order.InvoicePath)
}

func TestGenerateInvoice_RecordsFailedSpan(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "Asha", "asha@example.com")
	orderID := placeSample(t, f, NewOrderService(f.repos, nil, nil, f.log), user.ID)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	svc := newInvoiceService(f, failingRenderer{}, nil)
	svc.tracer = tp.Tracer(tracerName)

	_, err := svc.Generate(context.Background(), orderID)
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "invoices.Generate", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
