package httpclient

import (
	"bytes"
	"net/http"
	"net/url"
	"time"
)

// Request is a fully built wire request. The builder produces it, the
// session adapter adds the Authorization header and the transport sends it.
type Request struct {
	// Method is the HTTP method. Empty means GET.
	Method string
	// URL is the absolute target URL.
	URL *url.URL
	// Header holds the request headers.
	Header http.Header
	// Body is the encoded request body, nil for none.
	Body []byte
	// Timeout bounds this request only. Zero uses the transport default.
	Timeout time.Duration
}

// Clone returns a deep copy that can be modified without affecting r.
func (r *Request) Clone() *Request {
	c := &Request{
		Method:  r.Method,
		Header:  r.Header.Clone(),
		Body:    bytes.Clone(r.Body),
		Timeout: r.Timeout,
	}
	if c.Header == nil {
		c.Header = http.Header{}
	}
	if r.URL != nil {
		u := *r.URL
		c.URL = &u
	}
	return c
}

// SetHeader sets a header value, replacing any existing value.
func (r *Request) SetHeader(h Header) {
	if r.Header == nil {
		r.Header = http.Header{}
	}
	r.Header.Set(h.Field, h.Value)
}

// Response is a completed HTTP exchange with a 2xx status.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
