package service

import (
	"context"
	"time"

	"github.com/kbukum/authclient/executor"
	"github.com/kbukum/authclient/httpclient"
	"github.com/kbukum/authclient/logger"
	"github.com/kbukum/authclient/session"
	"github.com/kbukum/authclient/validation"
)

// Sessions is the part of the session handler the service uses.
type Sessions interface {
	Save(ctx context.Context, s session.Session) error
	Clear(ctx context.Context) error
	Current(ctx context.Context) (*session.Session, error)
}

// Service is the API facade: it logs in, fetches the profile and manages
// the stored session.
type Service struct {
	cfg      Config
	exec     *executor.Executor
	sessions Sessions
	lifetime time.Duration
	log      *logger.Logger
	now      func() time.Time
}

// New creates the service.
func New(cfg Config, exec *executor.Executor, sessions Sessions, log *logger.Logger) *Service {
	cfg.ApplyDefaults()
	return &Service{
		cfg:      cfg,
		exec:     exec,
		sessions: sessions,
		lifetime: session.DefaultLifetime,
		log:      logger.OrNop(log).WithComponent("service"),
		now:      time.Now,
	}
}

// Login authenticates with username and password and stores the issued
// session. Invalid input fails with KindInvalidRequest before any request
// is sent.
func (s *Service) Login(ctx context.Context, username, password string) (UserAuth, error) {
	creds := Credentials{Username: username, Password: password}
	if err := validation.Struct(creds); err != nil {
		return UserAuth{}, httpclient.NewInvalidRequest(err)
	}

	auth, err := executor.Execute[UserAuth](ctx, s.exec, LoginRequest{
		Credentials:   creds,
		ExpiresInMins: s.cfg.LoginExpiresInMins,
		Endpoint:      s.cfg.LoginPath,
	})
	if err != nil {
		s.log.Warn("login failed", logger.Fields("username", username, logger.FieldError, err.Error()))
		return UserAuth{}, err
	}

	sess := auth.Session(s.now(), s.lifetime)
	if err := sess.Validate(); err != nil {
		return UserAuth{}, httpclient.NewDecodingFailed(err)
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return UserAuth{}, err
	}
	s.log.Info("logged in", logger.Fields("username", auth.Username, "expires_at", sess.ExpiresAt))
	return auth, nil
}

// Me returns the profile of the signed-in user.
func (s *Service) Me(ctx context.Context) (User, error) {
	return executor.Execute[User](ctx, s.exec, MeRequest{Endpoint: s.cfg.MePath})
}

// Logout removes the stored session.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}
	s.log.Info("logged out")
	return nil
}

// SaveSession stores sess as the current session.
func (s *Service) SaveSession(ctx context.Context, sess session.Session) error {
	return s.sessions.Save(ctx, sess)
}

// CurrentSession returns the stored session, or nil.
func (s *Service) CurrentSession(ctx context.Context) (*session.Session, error) {
	return s.sessions.Current(ctx)
}
