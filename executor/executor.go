package executor

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/authclient/httpclient"
	"github.com/kbukum/authclient/logger"
	"github.com/kbukum/authclient/observability"
)

// Adapter signs wire requests. Adapt is used for the first attempt and
// Readapt after the server answered 401.
type Adapter interface {
	Adapt(ctx context.Context, req *httpclient.Request, d httpclient.Descriptor) error
	Readapt(ctx context.Context, req *httpclient.Request, d httpclient.Descriptor) error
}

// Executor runs descriptors through build, adapt and send. A request that
// requires authorization and is answered with 401 is re-adapted and sent
// exactly once more.
type Executor struct {
	builder   httpclient.RequestBuilder
	transport httpclient.Transport
	adapter   Adapter
	codec     httpclient.Codec
	log       *logger.Logger
	metrics   *observability.Metrics
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the executor logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Executor) { e.log = l }
}

// WithMetrics sets the instruments retries are recorded on.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithCodec sets the codec Execute decodes with.
func WithCodec(c httpclient.Codec) Option {
	return func(e *Executor) { e.codec = c }
}

// New creates an executor.
func New(builder httpclient.RequestBuilder, transport httpclient.Transport, adapter Adapter, opts ...Option) *Executor {
	e := &Executor{
		builder:   builder,
		transport: transport,
		adapter:   adapter,
		codec:     httpclient.JSON,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = logger.OrNop(e.log).WithComponent("executor")
	return e
}

// Do executes d and returns the raw response. Errors are *httpclient.Error.
func (e *Executor) Do(ctx context.Context, d httpclient.Descriptor) (resp *httpclient.Response, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanExecute,
		attribute.Bool("authclient.authorization_required", d.AuthorizationRequired()),
	)
	defer func() { observability.EndSpan(span, err) }()

	req, err := e.builder.Build(d)
	if err != nil {
		if _, ok := httpclient.AsError(err); !ok {
			err = httpclient.NewInvalidRequest(err)
		}
		return nil, err
	}

	if !d.AuthorizationRequired() {
		return e.transport.Send(ctx, req)
	}

	if err := e.adapter.Adapt(ctx, req, d); err != nil {
		return nil, err
	}
	resp, err = e.transport.Send(ctx, req)
	if err == nil || !httpclient.IsUnauthorized(err) {
		return resp, err
	}

	start := time.Now()
	span.SetAttributes(attribute.Int(observability.AttrAttempt, 2))
	e.metrics.RecordRetry(ctx)
	e.log.Debug("unauthorized, re-adapting request", logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURL, req.URL.Redacted(),
		logger.FieldAttempt, 2,
	))

	if err := e.adapter.Readapt(ctx, req, d); err != nil {
		return nil, err
	}
	resp, err = e.transport.Send(ctx, req)
	if err != nil {
		e.log.Debug("retry failed", logger.Fields(
			logger.FieldURL, req.URL.Redacted(),
			logger.FieldError, err.Error(),
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
	}
	return resp, err
}

// Execute runs d and decodes the response body into T. Decoding happens
// once, after a successful send.
func Execute[T any](ctx context.Context, e *Executor, d httpclient.Descriptor) (T, error) {
	resp, err := e.Do(ctx, d)
	if err != nil {
		var zero T
		return zero, err
	}
	return httpclient.Decode[T](e.codec, resp)
}
