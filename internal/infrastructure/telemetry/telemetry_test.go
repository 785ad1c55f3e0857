package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestStartServiceSpan_RecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, span := StartServiceSpan(context.Background(), "billing", "scan_upcoming")
	SetAttributes(span, SpanAttrLeadDays, 4, SpanAttrPeriod, "2025-03", 42, "ignored")
	AddEvent(span, "occupancy_skipped", SpanAttrOccupancyID, "abc")
	RecordError(span, errors.New("boom"))
	assert.NotEmpty(t, GetTraceID(ctx))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "billing.scan_upcoming", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Attributes(), 2)
	assert.Len(t, spans[0].Events(), 2) // added event + recorded error
}

func TestRecordError_NilSafe(t *testing.T) {
	RecordError(nil, errors.New("x"))
	SetAttributes(nil, "k", "v")
	AddEvent(nil, "e")
	assert.Equal(t, "", GetTraceID(context.Background()))
}

func TestBillingMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	bm, err := NewBillingMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	bm.PaymentGenerated(ctx, "SCHEDULED")
	bm.PaymentGenerated(ctx, "SCHEDULED")
	bm.PaymentPaid(ctx)
	bm.ScanFailure(ctx)
	bm.ReminderSent(ctx)
	bm.JobFinished(ctx, "generation", 50*time.Millisecond, nil)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := map[string]bool{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names[m.Name] = true
		if m.Name == "hostel_payments_generated_total" {
			sum := m.Data.(metricdata.Sum[int64])
			require.Len(t, sum.DataPoints, 1)
			assert.Equal(t, int64(2), sum.DataPoints[0].Value)
		}
	}
	assert.True(t, names["hostel_payments_paid_total"])
	assert.True(t, names["hostel_job_duration_seconds"])
}

func TestBillingMetrics_NilReceiver(t *testing.T) {
	var bm *BillingMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		bm.PaymentGenerated(ctx, "INITIAL")
		bm.PaymentPaid(ctx)
		bm.ScanFailure(ctx)
		bm.ReminderSent(ctx)
		bm.JobFinished(ctx, "x", time.Second, errors.New("e"))
	})

	_, err := NewBillingMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestRegisterDBTracing(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, RegisterDBTracing(db, DefaultDBTracingConfig(), zap.NewNop()))

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.DBSystem = "sqlite"
	require.NoError(t, RegisterDBTracing(db, cfg, zap.NewNop()))

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestDisabledProviders(t *testing.T) {
	ctx := context.Background()
	tp, err := NewTracerProvider(ctx, Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(ctx))
	assert.NotNil(t, tp.Tracer("x"))

	mp, err := NewMeterProvider(ctx, MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, mp.Meter("x"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewResource_CarriesVersionAndEnvironment(t *testing.T) {
	res, err := newResource("hostel-backend", "1.4.2", "staging")
	require.NoError(t, err)

	values := map[string]string{}
	for _, kv := range res.Attributes() {
		values[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "hostel-backend", values["service.name"])
	assert.Equal(t, "1.4.2", values["service.version"])
	assert.Equal(t, "staging", values["deployment.environment.name"])

	res, err = newResource("hostel-backend", "", "")
	require.NoError(t, err)
	found := false
	for _, kv := range res.Attributes() {
		if kv.Key == "service.version" {
			found = true
			assert.Equal(t, "dev", kv.Value.Emit())
		}
		assert.NotEqual(t, "deployment.environment.name", string(kv.Key))
	}
	assert.True(t, found)
}
