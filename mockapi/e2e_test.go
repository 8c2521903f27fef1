package mockapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kbukum/authclient/credstore"
	"github.com/kbukum/authclient/executor"
	"github.com/kbukum/authclient/httpclient"
	"github.com/kbukum/authclient/mockapi"
	"github.com/kbukum/authclient/service"
	"github.com/kbukum/authclient/session"
)

type stack struct {
	server  *mockapi.Server
	service *service.Service
	handler *session.Handler
	store   *credstore.Memory
}

func newStack(t *testing.T) *stack {
	t.Helper()
	srv, err := mockapi.New(mockapi.Config{BcryptCost: bcrypt.MinCost}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	transport, err := httpclient.New(httpclient.Config{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	builder := httpclient.NewURLBuilder(ts.URL)
	store := credstore.NewMemory()
	handler := session.NewHandler(session.Config{}, builder, transport, store)
	exec := executor.New(builder, transport, handler)

	return &stack{
		server:  srv,
		service: service.New(service.Config{}, exec, handler, nil),
		handler: handler,
		store:   store,
	}
}

func (s *stack) login(t *testing.T) service.UserAuth {
	t.Helper()
	auth, err := s.service.Login(context.Background(), "emilys", "emilyspass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return auth
}

func TestEndToEnd_LoginAndMe(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	auth := s.login(t)
	if auth.FirstName != "Emily" || auth.AccessToken == "" {
		t.Fatalf("unexpected login result: %+v", auth)
	}

	current, err := s.service.CurrentSession(ctx)
	if err != nil || current == nil {
		t.Fatalf("expected stored session, got %v, %v", current, err)
	}
	if current.AccessToken != auth.AccessToken {
		t.Error("stored access token differs from the login response")
	}
	if remaining := time.Until(current.ExpiresAt); remaining < 29*time.Minute || remaining > 31*time.Minute {
		t.Errorf("session expires in %v, want about 30m from the token exp claim", remaining)
	}

	me, err := s.service.Me(ctx)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Username != "emilys" || me.ID != 1 {
		t.Errorf("unexpected profile: %+v", me)
	}
	if stats := s.server.Stats(); stats.Refreshes != 0 || stats.Unauthorized != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestEndToEnd_RetriesAfterRevocation(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.login(t)
	before, _ := s.service.CurrentSession(ctx)

	s.server.RevokeAccessTokens()
	if _, err := s.service.Me(ctx); err != nil {
		t.Fatalf("me after revocation: %v", err)
	}

	stats := s.server.Stats()
	if stats.Unauthorized != 1 || stats.Refreshes != 1 || stats.Me != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	after, _ := s.service.CurrentSession(ctx)
	if after.AccessToken == before.AccessToken || after.RefreshToken == before.RefreshToken {
		t.Error("refreshed session was not stored")
	}
}

func TestEndToEnd_RefreshesExpiredSession(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.login(t)

	current, _ := s.service.CurrentSession(ctx)
	expired := *current
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	if err := s.service.SaveSession(ctx, expired); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := s.service.Me(ctx); err != nil {
		t.Fatalf("me: %v", err)
	}
	stats := s.server.Stats()
	if stats.Refreshes != 1 || stats.Unauthorized != 0 {
		t.Errorf("expected a proactive refresh without a 401, got %+v", stats)
	}
}

func TestEndToEnd_ConcurrentRequestsShareOneRefresh(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.login(t)
	s.server.RevokeAccessTokens()
	s.server.DelayRefreshes(20 * time.Millisecond)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.service.Me(ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("me: %v", err)
	}
	if got := s.server.Stats().Refreshes; got != 1 {
		t.Errorf("refreshes = %d, want 1", got)
	}
}

func TestEndToEnd_RefreshFailure(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.login(t)
	s.server.RevokeAccessTokens()
	s.server.FailRefreshes(http.StatusInternalServerError)

	_, err := s.service.Me(ctx)
	if !httpclient.IsServerError(err) {
		t.Fatalf("expected 500 from the refresh, got %v", err)
	}

	s.server.FailRefreshes(0)
	if _, err := s.service.Me(ctx); err != nil {
		t.Fatalf("me after the refresh endpoint recovered: %v", err)
	}
}

func TestEndToEnd_LoginAndLogoutErrors(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.service.Login(ctx, "emilys", "wrong")
	e, ok := httpclient.AsError(err)
	if !ok || e.Kind != httpclient.KindUnacceptableStatusCode || e.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad credentials, got %v", err)
	}

	if _, err := s.service.Login(ctx, "", ""); !httpclient.IsKind(err, httpclient.KindInvalidRequest) {
		t.Fatalf("expected invalid request for empty credentials, got %v", err)
	}
	if got := s.server.Stats().Logins; got != 1 {
		t.Errorf("logins = %d, want 1", got)
	}

	s.login(t)
	if err := s.service.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := s.service.Me(ctx); !httpclient.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
	if got := s.server.Stats().Me; got != 0 {
		t.Errorf("me requests = %d, want 0 without a session", got)
	}
}
