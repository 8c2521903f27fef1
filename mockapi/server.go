package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/authclient/logger"
)

type user struct {
	UserConfig
	hash []byte
}

// Stats counts the requests the server answered.
type Stats struct {
	Logins       int64
	Refreshes    int64
	Me           int64
	Unauthorized int64
}

// Server is a fake auth API with the dummyjson /auth endpoints. Tests use
// Handler with httptest; the mockapi command uses Start and Stop.
type Server struct {
	config     Config
	engine     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
	tokens     *tokenIssuer
	log        *logger.Logger

	users      map[string]*user
	usersByID  map[int]*user
	accessTTL  time.Duration
	logins     atomic.Int64
	refreshes  atomic.Int64
	me         atomic.Int64
	rejections atomic.Int64

	mu            sync.Mutex
	refreshStatus int
	refreshDelay  time.Duration
}

// New creates the server and hashes the configured passwords.
func New(cfg Config, log *logger.Logger) (*Server, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("mockapi config: %w", err)
	}

	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:    cfg,
		engine:    gin.New(),
		tokens:    newTokenIssuer(cfg.Secret, cfg.RefreshTTL),
		log:       logger.OrNop(log).WithComponent("mockapi"),
		users:     make(map[string]*user, len(cfg.Users)),
		usersByID: make(map[int]*user, len(cfg.Users)),
		accessTTL: cfg.AccessTTL,
	}
	for _, uc := range cfg.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(uc.Password), cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", uc.Username, err)
		}
		u := &user{UserConfig: uc, hash: hash}
		u.Password = ""
		s.users[uc.Username] = u
		s.usersByID[uc.ID] = u
	}

	s.engine.Use(recovery(s.log), requestID(), requestLogger(s.log))
	s.routes()

	h2s := &http2.Server{IdleTimeout: 120 * time.Second}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h2c.NewHandler(s.engine, h2s),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("mockapi failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("mock API listening", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mockapi shutdown: %w", err)
	}
	return nil
}

// URL returns the base URL of the started server.
func (s *Server) URL() string {
	if s.listener == nil {
		return "http://" + s.httpServer.Addr
	}
	return "http://" + s.listener.Addr().String()
}

// Stats returns the request counters.
func (s *Server) Stats() Stats {
	return Stats{
		Logins:       s.logins.Load(),
		Refreshes:    s.refreshes.Load(),
		Me:           s.me.Load(),
		Unauthorized: s.rejections.Load(),
	}
}

// RevokeAccessTokens makes every access token issued so far fail with 401
// even before it expires.
func (s *Server) RevokeAccessTokens() {
	s.tokens.revoke()
}

// FailRefreshes makes /auth/refresh answer with status. Zero restores
// normal behavior.
func (s *Server) FailRefreshes(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshStatus = status
}

// DelayRefreshes delays every /auth/refresh answer by d.
func (s *Server) DelayRefreshes(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshDelay = d
}

func (s *Server) refreshBehavior() (int, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshStatus, s.refreshDelay
}
