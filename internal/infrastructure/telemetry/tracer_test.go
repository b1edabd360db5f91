package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func newTestProvider(t *testing.T) (*TracerProvider, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp, err := NewTracerProviderWithExporter(Config{ServiceName: "propledger-test", SamplingRatio: 1}, exporter, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, exporter
}

func spanAttrs(span tracetest.SpanStub) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value, len(span.Attributes))
	for _, kv := range span.Attributes {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, nil)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestStartServiceSpan(t *testing.T) {
	tp, exporter := newTestProvider(t)
	assert.True(t, tp.IsEnabled())

	_, span := StartServiceSpan(context.Background(), "settlement", "export",
		"property_id", "prop-1",
		"lines", 2,
		"net_profit", decimal.RequireFromString("2000.50"),
		42, "ignored key",
	)
	SetAttributes(span, "closed", true)
	SetOK(span)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "settlement.export", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)

	attrs := spanAttrs(spans[0])
	assert.Equal(t, "prop-1", attrs["property_id"].AsString())
	assert.Equal(t, int64(2), attrs["lines"].AsInt64())
	assert.Equal(t, "2000.5", attrs["net_profit"].AsString())
	assert.True(t, attrs["closed"].AsBool())
	assert.Len(t, attrs, 4)
}

func TestRecordError(t *testing.T) {
	_, exporter := newTestProvider(t)

	_, span := StartServiceSpan(context.Background(), "settlement", "export")
	RecordError(span, nil)
	RecordError(span, errors.New("chrome crashed"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "chrome crashed", spans[0].Status.Description)
	require.Len(t, spans[0].Events, 1)
}
