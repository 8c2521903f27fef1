package httpclient

import (
	"net/http"
	"time"
)

// QueryItem is a single query parameter. Items keep their declared order.
type QueryItem struct {
	Name  string
	Value string
}

// Descriptor declares one API call. Implementations are immutable values;
// embed Defaults and override what differs.
type Descriptor interface {
	// Method is the HTTP method.
	Method() string
	// Path is joined onto the builder's base URL.
	Path() string
	// CompleteURL, when it is a valid absolute URL, replaces base URL,
	// path and query items.
	CompleteURL() string
	// Body is the encoded request body, nil for none.
	Body() []byte
	// ContentType is sent as the Content-Type header when non-empty.
	ContentType() string
	// QueryItems are appended to the URL in order.
	QueryItems() []QueryItem
	// ExtraHeaders are applied last and override earlier values.
	ExtraHeaders() []Header
	// AuthorizationRequired reports whether the session must sign the request.
	AuthorizationRequired() bool
	// Timeout bounds the request. Zero means the transport default.
	Timeout() time.Duration
}

// Defaults supplies the default answer for every Descriptor method:
// GET, no body, no content type, no query, no extra headers, authorization
// required, no timeout and no complete URL.
type Defaults struct{}

func (Defaults) Method() string              { return http.MethodGet }
func (Defaults) Path() string                { return "" }
func (Defaults) CompleteURL() string         { return "" }
func (Defaults) Body() []byte                { return nil }
func (Defaults) ContentType() string         { return "" }
func (Defaults) QueryItems() []QueryItem     { return nil }
func (Defaults) ExtraHeaders() []Header      { return nil }
func (Defaults) AuthorizationRequired() bool { return true }
func (Defaults) Timeout() time.Duration      { return 0 }

// JSONBody encodes v with the JSON codec. It returns nil when v cannot be
// encoded, so the request goes out without a body.
func JSONBody(v any) []byte {
	data, err := JSON.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
