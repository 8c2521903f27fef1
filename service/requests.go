package service

import (
	"net/http"

	"github.com/kbukum/authclient/httpclient"
)

// LoginRequest exchanges credentials for a session. It is sent without
// authorization.
type LoginRequest struct {
	httpclient.Defaults

	Credentials
	ExpiresInMins int
	Endpoint      string
}

type loginBody struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ExpiresInMins int    `json:"expiresInMins,omitempty"`
}

func (LoginRequest) Method() string              { return http.MethodPost }
func (r LoginRequest) Path() string              { return r.Endpoint }
func (LoginRequest) ContentType() string         { return httpclient.MIMEApplicationJSON }
func (LoginRequest) AuthorizationRequired() bool { return false }

func (r LoginRequest) Body() []byte {
	return httpclient.JSONBody(loginBody{
		Username:      r.Username,
		Password:      r.Password,
		ExpiresInMins: r.ExpiresInMins,
	})
}

// MeRequest fetches the profile of the signed-in user.
type MeRequest struct {
	httpclient.Defaults

	Endpoint string
}

func (r MeRequest) Path() string      { return r.Endpoint }
func (MeRequest) ContentType() string { return httpclient.MIMEApplicationJSON }
