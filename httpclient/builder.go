package httpclient

import (
	"net/http"
	"net/url"
	"strings"
)

// RequestBuilder turns a Descriptor into a wire Request.
type RequestBuilder interface {
	Build(d Descriptor) (*Request, error)
}

// URLBuilder resolves descriptors against a base URL. It holds no mutable
// state and is safe for concurrent use.
type URLBuilder struct {
	base *url.URL
}

var _ RequestBuilder = (*URLBuilder)(nil)

// NewURLBuilder creates a builder for baseURL. An empty or relative base
// URL is accepted; descriptors must then supply a complete URL.
func NewURLBuilder(baseURL string) *URLBuilder {
	b := &URLBuilder{}
	if u, ok := absoluteURL(baseURL); ok {
		b.base = u
	}
	return b
}

// BaseURL returns the resolved base URL, or "" when none is set.
func (b *URLBuilder) BaseURL() string {
	if b.base == nil {
		return ""
	}
	return b.base.String()
}

// Build resolves the URL and applies method, body, content type, extra
// headers and timeout. It returns ErrInvalidRequest when no valid URL
// results.
func (b *URLBuilder) Build(d Descriptor) (*Request, error) {
	u, err := b.resolve(d)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(d.Method())
	if method == "" {
		method = http.MethodGet
	}

	req := &Request{
		Method:  method,
		URL:     u,
		Header:  http.Header{},
		Body:    d.Body(),
		Timeout: d.Timeout(),
	}
	if ct := d.ContentType(); ct != "" {
		req.Header.Set(HeaderContentType, ct)
	}
	for _, h := range d.ExtraHeaders() {
		req.Header.Set(h.Field, h.Value)
	}
	return req, nil
}

func (b *URLBuilder) resolve(d Descriptor) (*url.URL, error) {
	if u, ok := absoluteURL(d.CompleteURL()); ok {
		return u, nil
	}
	if b.base == nil {
		return nil, ErrInvalidRequest
	}

	u := b.base.JoinPath(d.Path())
	// JoinPath leaves the path relative when the base URL has none.
	if u.Path != "" && !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
		u.RawPath = ""
	}
	u.RawQuery = encodeQuery(d.QueryItems())
	u.Fragment = ""
	return u, nil
}

func absoluteURL(raw string) (*url.URL, bool) {
	if raw == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}
	return u, true
}

// encodeQuery encodes items in declared order; url.Values would sort them.
func encodeQuery(items []QueryItem) string {
	if len(items) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(item.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(item.Value))
	}
	return sb.String()
}
