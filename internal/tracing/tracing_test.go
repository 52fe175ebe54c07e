package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

func restoreGlobals(t *testing.T) {
	prevProvider := otel.GetTracerProvider()
	prevPropagator := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
	})
}

func TestSetup_StdoutExportsSpans(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	tp, err := Setup("trendz-shop", ExporterStdout, &buf)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "orders.PlaceOrder")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, tp.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name":"orders.PlaceOrder"`)
	assert.Contains(t, buf.String(), "trendz-shop")
}

func TestSetup_NoneStillIssuesIDs(t *testing.T) {
	restoreGlobals(t)

	tp, err := Setup("trendz-shop", ExporterNone, nil)
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := otel.Tracer("test").Start(context.Background(), "work")
	defer span.End()
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestSetup_UnknownExporter(t *testing.T) {
	restoreGlobals(t)

	_, err := Setup("trendz-shop", "jaeger", nil)
	assert.Error(t, err)
}
