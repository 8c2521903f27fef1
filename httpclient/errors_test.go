package httpclient

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		status int
		want   *Error
	}{
		{200, nil},
		{204, nil},
		{299, nil},
		{400, NewUnacceptableStatusCode(400, nil)},
		{401, ErrUnauthorized},
		{403, NewUnacceptableStatusCode(403, nil)},
		{404, NewUnacceptableStatusCode(404, nil)},
		{500, NewUnacceptableStatusCode(500, nil)},
		{302, NewUnacceptableStatusCode(302, nil)},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			got := ClassifyStatusCode(tc.status, []byte("body"))
			if tc.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !got.Equal(tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("me: %w", NewUnacceptableStatusCode(404, nil))

	if !errors.Is(wrapped, ErrUnacceptableStatusCode) {
		t.Error("payload-less sentinel should match any status")
	}
	if !errors.Is(wrapped, &Error{Kind: KindUnacceptableStatusCode, StatusCode: 404}) {
		t.Error("matching payload should match")
	}
	if errors.Is(wrapped, &Error{Kind: KindUnacceptableStatusCode, StatusCode: 400}) {
		t.Error("different payload must not match")
	}
	if errors.Is(wrapped, ErrUnauthorized) {
		t.Error("different kind must not match")
	}
	if errors.Is(wrapped, ErrNotFound) {
		t.Error("404 is reported as unacceptable status, not not-found")
	}

	reqErr := NewRequestError(context.DeadlineExceeded)
	if !errors.Is(reqErr, ErrRequest) {
		t.Error("request error should match sentinel")
	}
	if !errors.Is(reqErr, context.DeadlineExceeded) {
		t.Error("cause should be reachable through Unwrap")
	}
}

func TestErrorEqual(t *testing.T) {
	a := &Error{Kind: KindDecodingFailed, Description: "eof", Err: errors.New("x")}
	b := &Error{Kind: KindDecodingFailed, Description: "eof", Err: errors.New("y")}
	c := &Error{Kind: KindDecodingFailed, Description: "other"}
	if !a.Equal(b) {
		t.Error("cause must not affect equality")
	}
	if a.Equal(c) {
		t.Error("different description must not be equal")
	}
	if !ErrEmptyResponse.Equal(&Error{Kind: KindEmptyResponse, Body: []byte("ignored")}) {
		t.Error("payload-less kinds compare by kind")
	}
	var nilErr *Error
	if nilErr.Equal(a) || !nilErr.Equal(nil) {
		t.Error("nil handling is wrong")
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{NewUnacceptableStatusCode(400, nil), "httpclient: unacceptable status code 400"},
		{ErrUnauthorized, "httpclient: unauthorized"},
		{NewRequestError(errors.New("dial tcp: refused")), "httpclient: request_error: dial tcp: refused"},
		{NewDecodingFailed(errors.New("bad json")), "httpclient: decoding_failed: bad json"},
		{NewUnauthorized(errors.New("store locked")), "httpclient: unauthorized: store locked"},
	}
	for _, tc := range tests {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestKindHelpers(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewUnacceptableStatusCode(503, nil))
	if KindOf(err) != KindUnacceptableStatusCode {
		t.Errorf("unexpected kind %s", KindOf(err))
	}
	if !IsServerError(err) {
		t.Error("503 should be a server error")
	}
	if IsUnauthorized(err) || IsRequestError(err) {
		t.Error("unexpected helper match")
	}
	if KindOf(errors.New("plain")) != Kind(-1) {
		t.Error("plain errors have no kind")
	}
	if Kind(-1).String() != "unknown" {
		t.Error("unknown kind name")
	}
}
