package observability

import (
	"context"
	"errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/authclient/logger"
)

// Observability bundles the providers and instruments created by Setup.
type Observability struct {
	Metrics *Metrics

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// Setup initialises exporters when cfg.Enabled and creates the client
// instruments on the resulting global meter.
func Setup(ctx context.Context, cfg Config, log *logger.Logger) (*Observability, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log = logger.OrNop(log).WithComponent("observability")

	o := &Observability{}
	if cfg.Enabled {
		tp, err := InitTracer(ctx, cfg)
		if err != nil {
			return nil, err
		}
		o.tp = tp

		mp, err := InitMeter(ctx, cfg)
		if err != nil {
			_ = tp.Shutdown(ctx)
			return nil, err
		}
		o.mp = mp

		log.Info("telemetry export enabled", logger.Fields(
			"endpoint", cfg.Endpoint,
			"sample_rate", cfg.SampleRate,
			"metric_interval", cfg.MetricInterval.String(),
		))
	}

	m, err := NewMetrics(Meter())
	if err != nil {
		_ = o.Shutdown(ctx)
		return nil, err
	}
	o.Metrics = m
	return o, nil
}

// Shutdown flushes and stops the providers created by Setup.
func (o *Observability) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tp != nil {
		errs = append(errs, o.tp.Shutdown(ctx))
	}
	if o.mp != nil {
		errs = append(errs, o.mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
