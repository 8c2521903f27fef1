package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies pipeline errors.
type Kind int

const (
	// KindRequestError is a connectivity failure, timeout or cancellation.
	// Description carries the cause text.
	KindRequestError Kind = iota
	// KindInvalidResponse means the server reply was not a usable HTTP response.
	KindInvalidResponse
	// KindInvalidRequest means no valid wire request could be built.
	KindInvalidRequest
	// KindUnacceptableStatusCode is a non-2xx status other than 401.
	// StatusCode carries the status.
	KindUnacceptableStatusCode
	// KindEmptyResponse means a body was expected and none arrived.
	KindEmptyResponse
	// KindDecodingFailed means the body did not decode into the target type.
	// Description carries the decoder message.
	KindDecodingFailed
	// KindUnauthorized is a 401 from the server or a missing session.
	KindUnauthorized
	// KindNotFound is reserved for callers that map 404 themselves; the
	// transport reports 404 as KindUnacceptableStatusCode.
	KindNotFound
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRequestError:
		return "request_error"
	case KindInvalidResponse:
		return "invalid_response"
	case KindInvalidRequest:
		return "invalid_request"
	case KindUnacceptableStatusCode:
		return "unacceptable_status_code"
	case KindEmptyResponse:
		return "empty_response"
	case KindDecodingFailed:
		return "decoding_failed"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every stage of the request pipeline.
type Error struct {
	// Kind classifies the error.
	Kind Kind
	// StatusCode is the HTTP status for KindUnacceptableStatusCode.
	StatusCode int
	// Description is the payload of KindRequestError and KindDecodingFailed.
	Description string
	// Body is the response body, when one was received.
	Body []byte
	// Err is the underlying cause. It is not part of equality.
	Err error
}

// Sentinels for errors.Is. A sentinel without payload matches every error
// of its kind.
var (
	ErrRequest                = &Error{Kind: KindRequestError}
	ErrInvalidResponse        = &Error{Kind: KindInvalidResponse}
	ErrInvalidRequest         = &Error{Kind: KindInvalidRequest}
	ErrUnacceptableStatusCode = &Error{Kind: KindUnacceptableStatusCode}
	ErrEmptyResponse          = &Error{Kind: KindEmptyResponse}
	ErrDecodingFailed         = &Error{Kind: KindDecodingFailed}
	ErrUnauthorized           = &Error{Kind: KindUnauthorized}
	ErrNotFound               = &Error{Kind: KindNotFound}
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindUnacceptableStatusCode:
		return fmt.Sprintf("httpclient: unacceptable status code %d", e.StatusCode)
	case KindRequestError, KindDecodingFailed:
		if e.Description != "" {
			return fmt.Sprintf("httpclient: %s: %s", e.Kind, e.Description)
		}
	}
	if e.Err != nil {
		return fmt.Sprintf("httpclient: %s: %v", e.Kind, e.Err)
	}
	return "httpclient: " + e.Kind.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind whose payload,
// if it has one, matches.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	switch e.Kind {
	case KindUnacceptableStatusCode:
		return t.StatusCode == 0 || t.StatusCode == e.StatusCode
	case KindRequestError, KindDecodingFailed:
		return t.Description == "" || t.Description == e.Description
	default:
		return true
	}
}

// Equal compares kind and payload. Body and cause are ignored.
func (e *Error) Equal(other *Error) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Kind != other.Kind {
		return false
	}
	switch e.Kind {
	case KindUnacceptableStatusCode:
		return e.StatusCode == other.StatusCode
	case KindRequestError, KindDecodingFailed:
		return e.Description == other.Description
	default:
		return true
	}
}

// NewRequestError wraps a connectivity failure.
func NewRequestError(err error) *Error {
	return &Error{Kind: KindRequestError, Description: err.Error(), Err: err}
}

// NewUnacceptableStatusCode creates an error for a non-2xx status.
func NewUnacceptableStatusCode(statusCode int, body []byte) *Error {
	return &Error{Kind: KindUnacceptableStatusCode, StatusCode: statusCode, Body: body}
}

// NewDecodingFailed wraps a decoder failure.
func NewDecodingFailed(err error) *Error {
	return &Error{Kind: KindDecodingFailed, Description: err.Error(), Err: err}
}

// NewUnauthorized creates an unauthorized error with an optional cause.
func NewUnauthorized(cause error) *Error {
	return &Error{Kind: KindUnauthorized, Err: cause}
}

// NewInvalidRequest creates an invalid-request error with an optional cause.
func NewInvalidRequest(cause error) *Error {
	return &Error{Kind: KindInvalidRequest, Err: cause}
}

// ClassifyStatusCode maps a status code to a pipeline error.
// It returns nil for 2xx status codes.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, StatusCode: statusCode, Body: body}
	default:
		return NewUnacceptableStatusCode(statusCode, body)
	}
}

// AsError returns err as an *Error if it is or wraps one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or -1 when err is not a pipeline error.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return -1
}

// IsKind checks if err is a pipeline error of kind k.
func IsKind(err error, k Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == k
}

// IsUnauthorized checks if err is an unauthorized error.
func IsUnauthorized(err error) bool {
	return IsKind(err, KindUnauthorized)
}

// IsRequestError checks if err is a connectivity failure.
func IsRequestError(err error) bool {
	return IsKind(err, KindRequestError)
}

// IsServerError checks if err carries a 5xx status.
func IsServerError(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindUnacceptableStatusCode && e.StatusCode >= 500
}
