package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeter creates an OTLP/HTTP meter provider and installs it globally.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the module meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Refresh outcomes.
const (
	RefreshNetwork = "network"
	RefreshReused  = "reused"
	RefreshFailed  = "failed"
)

// Metrics holds the client instruments. A nil *Metrics records nothing.
type Metrics struct {
	sendTotal      metric.Int64Counter
	sendDuration   metric.Float64Histogram
	refreshTotal   metric.Int64Counter
	refreshWaiters metric.Int64Counter
	retryTotal     metric.Int64Counter
}

// NewMetrics creates the client instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	sendTotal, err := meter.Int64Counter("authclient.send.total",
		metric.WithDescription("Requests sent by the transport, by method and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authclient.send.total counter: %w", err)
	}

	sendDuration, err := meter.Float64Histogram("authclient.send.duration",
		metric.WithDescription("Transport round-trip duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authclient.send.duration histogram: %w", err)
	}

	refreshTotal, err := meter.Int64Counter("authclient.refresh.total",
		metric.WithDescription("Session refresh operations, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authclient.refresh.total counter: %w", err)
	}

	refreshWaiters, err := meter.Int64Counter("authclient.refresh.waiters",
		metric.WithDescription("Callers that joined an in-flight refresh instead of starting one"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authclient.refresh.waiters counter: %w", err)
	}

	retryTotal, err := meter.Int64Counter("authclient.retry.total",
		metric.WithDescription("Requests re-sent after an unauthorized response"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authclient.retry.total counter: %w", err)
	}

	return &Metrics{
		sendTotal:      sendTotal,
		sendDuration:   sendDuration,
		refreshTotal:   refreshTotal,
		refreshWaiters: refreshWaiters,
		retryTotal:     retryTotal,
	}, nil
}

// RecordSend records one transport round trip. outcome is "ok" or an error kind.
func (m *Metrics) RecordSend(ctx context.Context, method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.sendTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	))
	m.sendDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("method", method)))
}

// RecordRefresh records a completed shared refresh operation.
func (m *Metrics) RecordRefresh(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.refreshTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordRefreshWaiter records a caller that joined an in-flight refresh.
func (m *Metrics) RecordRefreshWaiter(ctx context.Context) {
	if m == nil {
		return
	}
	m.refreshWaiters.Add(ctx, 1)
}

// RecordRetry records a re-send after an unauthorized response.
func (m *Metrics) RecordRetry(ctx context.Context) {
	if m == nil {
		return
	}
	m.retryTotal.Add(ctx, 1)
}
