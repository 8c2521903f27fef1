package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/kbukum/authclient/httpclient"
	"github.com/kbukum/authclient/logger"
	"github.com/kbukum/authclient/observability"
)

var errNoSession = errors.New("no stored session")

// Handler owns the session lifecycle: it persists sessions, signs requests
// and refreshes expired credentials. At most one refresh per credential id
// is in flight; concurrent callers join it and share its outcome.
//
// A Handler is safe for concurrent use. The executor and any other caller
// share one instance for the lifetime of the client.
type Handler struct {
	config    Config
	builder   httpclient.RequestBuilder
	transport httpclient.Transport
	store     CredentialStore
	codec     httpclient.Codec
	group     singleflight.Group
	log       *logger.Logger
	metrics   *observability.Metrics
	now       func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the handler logger.
func WithLogger(l *logger.Logger) Option {
	return func(h *Handler) { h.log = l }
}

// WithMetrics sets the instruments refreshes are recorded on.
func WithMetrics(m *observability.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithCodec sets the codec refresh responses are decoded with.
func WithCodec(c httpclient.Codec) Option {
	return func(h *Handler) { h.codec = c }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler creates a session handler. The builder and transport are used
// for refresh requests only.
func NewHandler(cfg Config, builder httpclient.RequestBuilder, transport httpclient.Transport, store CredentialStore, opts ...Option) *Handler {
	cfg.ApplyDefaults()
	h := &Handler{
		config:    cfg,
		builder:   builder,
		transport: transport,
		store:     store,
		codec:     httpclient.JSON,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = logger.OrNop(h.log).WithComponent("session")
	return h
}

// Config returns the handler configuration with defaults applied.
func (h *Handler) Config() Config {
	return h.config
}

// Save writes s through to the credential store. Every call writes once.
func (h *Handler) Save(ctx context.Context, s Session) error {
	data, err := Marshal(s)
	if err != nil {
		return httpclient.NewRequestError(fmt.Errorf("encode session: %w", err))
	}
	if err := h.store.Save(ctx, h.config.CredentialID, data); err != nil {
		return httpclient.NewRequestError(fmt.Errorf("save session: %w", err))
	}
	return nil
}

// Clear removes the persisted session.
func (h *Handler) Clear(ctx context.Context) error {
	if err := h.store.Clear(ctx, h.config.CredentialID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	h.log.Debug("session cleared", logger.Fields(logger.FieldCredential, h.config.CredentialID))
	return nil
}

// Current reads the persisted session. It returns nil when none is stored.
func (h *Handler) Current(ctx context.Context) (*Session, error) {
	data, err := h.store.Retrieve(ctx, h.config.CredentialID)
	if err != nil {
		return nil, fmt.Errorf("retrieve session: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	s, err := Unmarshal(data, h.now(), h.config.DefaultLifetime)
	if err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Adapt signs req with the stored session. With no stored session it fails
// with ErrUnauthorized and sends nothing. An expired session is refreshed
// first.
func (h *Handler) Adapt(ctx context.Context, req *httpclient.Request, _ httpclient.Descriptor) error {
	s, err := h.stored(ctx)
	if err != nil {
		return err
	}
	if !h.valid(*s) {
		refreshed, err := h.Refresh(ctx, *s)
		if err != nil {
			return err
		}
		s = &refreshed
	}
	req.SetHeader(httpclient.Authorization(s.AccessToken))
	return nil
}

// Readapt signs req again after the server rejected it with 401. When the
// store still holds the rejected token, the session is refreshed even if it
// has not expired. When another caller already replaced it, the newer
// token is attached. With PolicyExpiry it behaves like Adapt.
func (h *Handler) Readapt(ctx context.Context, req *httpclient.Request, d httpclient.Descriptor) error {
	if h.config.UnauthorizedPolicy == PolicyExpiry {
		return h.Adapt(ctx, req, d)
	}

	rejected := httpclient.BearerToken(req.Header)
	s, err := h.stored(ctx)
	if err != nil {
		return err
	}
	if s.AccessToken == rejected || !h.valid(*s) {
		refreshed, err := h.Refresh(ctx, *s)
		if err != nil {
			return err
		}
		s = &refreshed
	}
	req.SetHeader(httpclient.Authorization(s.AccessToken))
	return nil
}

// Refresh exchanges stale for a new session. Concurrent calls share one
// in-flight refresh and all receive its result or its error. The refresh
// runs detached from ctx: a caller that gives up gets a request error
// while the refresh completes for the others.
//
// When the store already holds a valid session with an access token other
// than stale's, that session is returned and no request is sent.
func (h *Handler) Refresh(ctx context.Context, stale Session) (Session, error) {
	var led atomic.Bool
	ch := h.group.DoChan(h.config.CredentialID, func() (interface{}, error) {
		led.Store(true)
		return h.refresh(context.WithoutCancel(ctx), stale)
	})

	select {
	case res := <-ch:
		if !led.Load() {
			h.metrics.RecordRefreshWaiter(ctx)
		}
		if res.Err != nil {
			return Session{}, res.Err
		}
		return res.Val.(Session), nil
	case <-ctx.Done():
		return Session{}, httpclient.NewRequestError(ctx.Err())
	}
}

// refresh is the shared operation behind Refresh.
func (h *Handler) refresh(ctx context.Context, stale Session) (s Session, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanRefresh,
		attribute.String(observability.AttrCredentialID, h.config.CredentialID),
	)
	start := h.now()
	defer func() {
		observability.EndSpan(span, err)
		if err != nil {
			h.metrics.RecordRefresh(ctx, observability.RefreshFailed)
			h.log.Warn("session refresh failed", logger.Fields(
				logger.FieldCredential, h.config.CredentialID,
				logger.FieldError, err.Error(),
				logger.FieldDuration, h.now().Sub(start).Milliseconds(),
			))
		}
	}()

	// Another generation may already have replaced the stale session.
	current, loadErr := h.Current(ctx)
	switch {
	case loadErr != nil:
		h.log.Warn("session read before refresh failed", logger.ErrorFields("refresh", loadErr))
	case current != nil && current.AccessToken != stale.AccessToken && h.valid(*current):
		span.SetAttributes(attribute.Bool(observability.AttrRefreshJoin, true))
		h.metrics.RecordRefresh(ctx, observability.RefreshReused)
		h.log.Debug("session already refreshed", logger.Fields(logger.FieldCredential, h.config.CredentialID))
		return *current, nil
	}

	req, err := h.builder.Build(RefreshRequest{
		RefreshToken:  stale.RefreshToken,
		ExpiresInMins: h.config.RefreshExpiresInMins,
		Endpoint:      h.config.RefreshPath,
	})
	if err != nil {
		if _, ok := httpclient.AsError(err); !ok {
			err = httpclient.NewInvalidRequest(err)
		}
		return Session{}, err
	}

	resp, err := h.transport.Send(ctx, req)
	if err != nil {
		return Session{}, err
	}

	payload, err := httpclient.Decode[Payload](h.codec, resp)
	if err != nil {
		return Session{}, err
	}
	if payload.RefreshToken == "" {
		payload.RefreshToken = stale.RefreshToken
	}
	fresh := payload.Session(h.now(), h.config.DefaultLifetime)
	if err := fresh.Validate(); err != nil {
		return Session{}, httpclient.NewDecodingFailed(err)
	}

	if err := h.Save(ctx, fresh); err != nil {
		return Session{}, err
	}

	h.metrics.RecordRefresh(ctx, observability.RefreshNetwork)
	h.log.Info("session refreshed", logger.Fields(
		logger.FieldCredential, h.config.CredentialID,
		"expires_at", fresh.ExpiresAt,
		logger.FieldDuration, h.now().Sub(start).Milliseconds(),
	))
	return fresh, nil
}

// stored loads the session for signing. A missing session or a failed read
// is unauthorized.
func (h *Handler) stored(ctx context.Context) (*Session, error) {
	s, err := h.Current(ctx)
	if err != nil {
		return nil, httpclient.NewUnauthorized(err)
	}
	if s == nil {
		return nil, httpclient.NewUnauthorized(errNoSession)
	}
	return s, nil
}

func (h *Handler) valid(s Session) bool {
	return s.Valid(h.now().Add(h.config.ExpiryLeeway))
}
