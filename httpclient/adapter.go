package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/net/http2"

	"github.com/kbukum/authclient/logger"
	"github.com/kbukum/authclient/observability"
	"github.com/kbukum/authclient/resilience"
)

// Adapter is the concrete REST transport. It sends wire requests over
// net/http with default headers, request ids, TLS, optional HTTP/2 and
// optional circuit breaker and rate limiter, and maps every outcome onto
// the pipeline error taxonomy.
type Adapter struct {
	httpClient *http.Client
	config     Config
	breaker    *resilience.Breaker
	limiter    *resilience.Limiter
	log        *logger.Logger
	metrics    *observability.Metrics
}

var _ Transport = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// WithMetrics sets the instruments the adapter records sends on.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Adapter) { a.metrics = m }
}

// WithHTTPClient replaces the underlying *http.Client. TLS and HTTP/2
// settings are then the caller's responsibility.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.httpClient = c }
}

// New creates a REST transport with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{config: cfg}
	for _, opt := range opts {
		opt(a)
	}
	a.log = logger.OrNop(a.log).WithComponent("httpclient")

	if a.httpClient == nil {
		transport, err := newTransport(cfg)
		if err != nil {
			return nil, err
		}
		// Timeouts are applied per request through the context.
		a.httpClient = &http.Client{Transport: transport}
	}

	if cfg.CircuitBreaker != nil {
		bc := *cfg.CircuitBreaker
		bc.IsFailure = countsAgainstCircuit
		bc.OnStateChange = func(name string, from, to resilience.State) {
			a.log.Warn("circuit breaker state changed", logger.Fields(
				"breaker", name, "from", from.String(), "to", to.String(),
			))
		}
		a.breaker = resilience.NewBreaker(bc)
	}
	if cfg.RateLimiter != nil {
		a.limiter = resilience.NewLimiter(*cfg.RateLimiter)
	}
	return a, nil
}

func newTransport(cfg Config) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}

	// A custom TLS config disables net/http's automatic HTTP/2 upgrade.
	if cfg.HTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("httpclient: configure http2: %w", err)
		}
	}
	return transport, nil
}

// Send transmits req and maps the result. 2xx returns the response, 401
// returns ErrUnauthorized without decoding, other statuses return
// KindUnacceptableStatusCode, and connectivity failures return
// KindRequestError.
func (a *Adapter) Send(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	method := methodOf(req)

	ctx, span := observability.StartSpan(ctx, observability.SpanSend,
		attribute.String(observability.AttrHTTPMethod, method),
		attribute.String(observability.AttrHTTPURL, req.URL.Redacted()),
	)
	start := time.Now()

	resp, err := a.guarded(ctx, req)

	elapsed := time.Since(start)
	outcome := "ok"
	fields := logger.Fields(
		logger.FieldMethod, method,
		logger.FieldURL, req.URL.Redacted(),
		logger.FieldDuration, elapsed.Milliseconds(),
	)
	if err != nil {
		outcome = KindOf(err).String()
		span.SetAttributes(attribute.String(observability.AttrErrorKind, outcome))
		if e, ok := AsError(err); ok && e.StatusCode > 0 {
			span.SetAttributes(attribute.Int(observability.AttrHTTPStatus, e.StatusCode))
			fields[logger.FieldStatus] = e.StatusCode
		}
		fields[logger.FieldError] = err.Error()
		if IsRequestError(err) || IsKind(err, KindInvalidResponse) {
			a.log.Warn("request failed", fields)
		} else {
			a.log.Debug("request rejected", fields)
		}
	} else {
		span.SetAttributes(attribute.Int(observability.AttrHTTPStatus, resp.StatusCode))
		fields[logger.FieldStatus] = resp.StatusCode
		a.log.Debug("request completed", fields)
	}
	observability.EndSpan(span, err)
	a.metrics.RecordSend(ctx, method, outcome, elapsed)

	return resp, err
}

// guarded applies the rate limiter and circuit breaker around one round trip.
func (a *Adapter) guarded(ctx context.Context, req *Request) (*Response, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, NewRequestError(err)
		}
	}
	if a.breaker == nil {
		return a.roundTrip(ctx, req)
	}

	var resp *Response
	err := a.breaker.Execute(func() error {
		var rtErr error
		resp, rtErr = a.roundTrip(ctx, req)
		return rtErr
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return nil, NewRequestError(err)
	}
	return resp, err
}

func (a *Adapter) roundTrip(ctx context.Context, req *Request) (*Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = a.config.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, methodOf(req), req.URL.String(), body)
	if err != nil {
		return nil, NewInvalidRequest(err)
	}
	httpReq.Header = a.headersFor(req)
	observability.InjectHeaders(ctx, propagation.HeaderCarrier(httpReq.Header))

	if a.config.LogCurl {
		a.log.Debug("sending request", logger.Fields(
			"curl", CURL(&Request{Method: httpReq.Method, URL: req.URL, Header: httpReq.Header, Body: req.Body}),
			logger.FieldRequestID, httpReq.Header.Get(HeaderRequestID),
		))
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewRequestError(fmt.Errorf("read response body: %w", err))
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, data); classErr != nil {
		return nil, classErr
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// headersFor merges configured defaults under the request headers and adds
// a request id when the request has none.
func (a *Adapter) headersFor(req *Request) http.Header {
	h := req.Header.Clone()
	if h == nil {
		h = http.Header{}
	}
	for k, v := range a.config.Headers {
		if h.Get(k) == "" {
			h.Set(k, v)
		}
	}
	if h.Get(HeaderRequestID) == "" {
		h.Set(HeaderRequestID, uuid.NewString())
	}
	return h
}

func validateRequest(req *Request) error {
	if req == nil || req.URL == nil {
		return ErrInvalidRequest
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return NewInvalidRequest(fmt.Errorf("unsupported scheme %q", req.URL.Scheme))
	}
	if req.URL.Host == "" {
		return NewInvalidRequest(errors.New("missing host"))
	}
	return nil
}

func methodOf(req *Request) string {
	if req.Method == "" {
		return http.MethodGet
	}
	return req.Method
}

// mapTransportError classifies an error from http.Client.Do. net/http
// reports unparseable server replies only through the message text.
func mapTransportError(err error) *Error {
	if strings.Contains(err.Error(), "malformed HTTP") {
		return &Error{Kind: KindInvalidResponse, Err: err}
	}
	return NewRequestError(err)
}

// countsAgainstCircuit reports whether err indicates an unhealthy server.
// 4xx answers, including 401, are healthy replies.
func countsAgainstCircuit(err error) bool {
	return IsRequestError(err) || IsServerError(err) || IsKind(err, KindInvalidResponse)
}

// Name returns the transport name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// IsAvailable reports false while the circuit breaker is open.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	if a.breaker != nil {
		return a.breaker.State() != resilience.StateOpen
	}
	return true
}

// Close releases idle connections.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// Config returns the adapter's configuration with defaults applied.
func (a *Adapter) Config() Config {
	return a.config
}

// Unwrap returns the underlying *http.Client.
func (a *Adapter) Unwrap() *http.Client {
	return a.httpClient
}
