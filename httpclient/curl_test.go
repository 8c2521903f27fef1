package httpclient

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestCURL(t *testing.T) {
	u, _ := url.Parse("https://dummyjson.com/auth/refresh")
	req := &Request{
		Method: http.MethodPost,
		URL:    u,
		Header: http.Header{},
		Body:   []byte(`{"refreshToken":"it's"}`),
	}
	req.SetHeader(ContentTypeJSON())
	req.SetHeader(Authorization("secret-token"))

	got := CURL(req)
	if strings.Contains(got, "secret-token") {
		t.Fatalf("token leaked: %s", got)
	}
	for _, want := range []string{
		"curl -v -X POST",
		"-H 'Authorization: [REDACTED]'",
		"-H 'Content-Type: application/json'",
		`-d '{"refreshToken":"it'\''s"}'`,
		"'https://dummyjson.com/auth/refresh'",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %s", want, got)
		}
	}
}

func TestCURLNil(t *testing.T) {
	if CURL(nil) != "curl" {
		t.Error("nil request should render bare curl")
	}
}
