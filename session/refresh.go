package session

import (
	"net/http"

	"github.com/kbukum/authclient/httpclient"
)

// RefreshRequest exchanges a refresh token for a new session. It is sent
// without authorization.
type RefreshRequest struct {
	httpclient.Defaults

	RefreshToken  string
	ExpiresInMins int
	Endpoint      string
}

type refreshBody struct {
	RefreshToken  string `json:"refreshToken"`
	ExpiresInMins int    `json:"expiresInMins,omitempty"`
}

func (RefreshRequest) Method() string              { return http.MethodPost }
func (r RefreshRequest) Path() string              { return r.Endpoint }
func (RefreshRequest) ContentType() string         { return httpclient.MIMEApplicationJSON }
func (RefreshRequest) AuthorizationRequired() bool { return false }

func (r RefreshRequest) Body() []byte {
	return httpclient.JSONBody(refreshBody{RefreshToken: r.RefreshToken, ExpiresInMins: r.ExpiresInMins})
}
