package service

import (
	"time"

	"github.com/kbukum/authclient/session"
)

// User is the authenticated user's profile.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	Image     string `json:"image"`
}

// UserAuth is the login response: the profile plus the issued tokens.
type UserAuth struct {
	User
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session resolves the issued tokens into a session.
func (u UserAuth) Session(now time.Time, lifetime time.Duration) session.Session {
	return session.Payload{AccessToken: u.AccessToken, RefreshToken: u.RefreshToken}.Session(now, lifetime)
}

// Credentials is the login input.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
