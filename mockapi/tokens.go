package mockapi

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	errUnknownRefreshToken = errors.New("unknown refresh token")
	errExpiredRefreshToken = errors.New("refresh token expired")
	errRevokedAccessToken  = errors.New("access token revoked")
)

// Claims are the access token claims.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	// Generation is the revocation generation the token was issued in.
	Generation int64 `json:"gen"`
}

type refreshGrant struct {
	userID    int
	expiresAt time.Time
}

// tokenIssuer signs access tokens and tracks opaque, single-use refresh
// tokens.
type tokenIssuer struct {
	secret     []byte
	refreshTTL time.Duration
	now        func() time.Time

	mu         sync.Mutex
	generation int64
	grants     map[string]refreshGrant
}

func newTokenIssuer(secret string, refreshTTL time.Duration) *tokenIssuer {
	return &tokenIssuer{
		secret:     []byte(secret),
		refreshTTL: refreshTTL,
		now:        time.Now,
		grants:     make(map[string]refreshGrant),
	}
}

// issue creates an access token valid for ttl and a new refresh token.
func (t *tokenIssuer) issue(u *user, ttl time.Duration) (access, refresh string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.Itoa(u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:   u.Username,
		Generation: t.generation,
	}
	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}

	refresh = uuid.NewString()
	t.grants[refresh] = refreshGrant{userID: u.ID, expiresAt: now.Add(t.refreshTTL)}
	return access, refresh, nil
}

// redeem consumes a refresh token and returns the user it was issued to.
func (t *tokenIssuer) redeem(refresh string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grant, ok := t.grants[refresh]
	if !ok {
		return 0, errUnknownRefreshToken
	}
	delete(t.grants, refresh)
	if !t.now().Before(grant.expiresAt) {
		return 0, errExpiredRefreshToken
	}
	return grant.userID, nil
}

// verify checks the signature, expiry and generation of an access token.
func (t *tokenIssuer) verify(access string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(access, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if claims.Generation < t.generation {
		return nil, errRevokedAccessToken
	}
	return claims, nil
}

// revoke invalidates every access token issued so far. Refresh tokens stay
// valid.
func (t *tokenIssuer) revoke() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
}
