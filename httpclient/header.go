package httpclient

import (
	"net/http"
	"strings"
)

// Header field names used by the pipeline.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderRequestID     = "X-Request-Id"

	MIMEApplicationJSON = "application/json"

	bearerPrefix = "Bearer "
)

// Header is a single header field and value.
type Header struct {
	Field string
	Value string
}

// ContentTypeJSON is the JSON content-type header.
func ContentTypeJSON() Header {
	return Header{Field: HeaderContentType, Value: MIMEApplicationJSON}
}

// Authorization returns the bearer authorization header for token.
func Authorization(token string) Header {
	return Header{Field: HeaderAuthorization, Value: bearerPrefix + token}
}

// BearerToken extracts the token from a bearer Authorization header.
// It returns "" when the header is absent or uses another scheme.
func BearerToken(h http.Header) string {
	v := h.Get(HeaderAuthorization)
	if len(v) < len(bearerPrefix) || !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
