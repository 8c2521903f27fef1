package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/authclient/httpclient"
	"github.com/kbukum/authclient/validation"
)

// DefaultLifetime is the validity assumed for a session whose payload
// carries no expiry and whose access token is not a JWT.
const DefaultLifetime = 30 * time.Second

// Session is the bearer credential pair. It is a value type; two sessions
// are equal when all three fields are equal.
type Session struct {
	AccessToken  string    `json:"accessToken" validate:"required"`
	RefreshToken string    `json:"refreshToken" validate:"required"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Valid reports whether the session is still usable at now.
func (s Session) Valid(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// Equal reports structural equality.
func (s Session) Equal(o Session) bool {
	return s.AccessToken == o.AccessToken &&
		s.RefreshToken == o.RefreshToken &&
		s.ExpiresAt.Equal(o.ExpiresAt)
}

// Validate checks that both tokens are present.
func (s Session) Validate() error {
	return validation.Struct(s)
}

// Payload is the JSON shape of a session as the API returns it. The
// expiry is optional.
type Payload struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

// Session resolves the payload into a Session. A missing expiry is taken
// from the access token's exp claim when the token is a JWT, otherwise it
// is now plus lifetime.
func (p Payload) Session(now time.Time, lifetime time.Duration) Session {
	s := Session{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
	switch {
	case p.ExpiresAt != nil:
		s.ExpiresAt = p.ExpiresAt.UTC()
	default:
		if exp, ok := TokenExpiry(p.AccessToken); ok {
			s.ExpiresAt = exp
		} else {
			s.ExpiresAt = now.Add(lifetime).UTC()
		}
	}
	return s
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.UTC(), true
}

// Marshal encodes the session as the store record.
func Marshal(s Session) ([]byte, error) {
	return httpclient.JSON.Marshal(s)
}

// Unmarshal decodes a store record. Records written by Marshal always carry
// an expiry; older records without one get now plus lifetime.
func Unmarshal(data []byte, now time.Time, lifetime time.Duration) (Session, error) {
	var p Payload
	if err := httpclient.JSON.Unmarshal(data, &p); err != nil {
		return Session{}, err
	}
	return p.Session(now, lifetime), nil
}
