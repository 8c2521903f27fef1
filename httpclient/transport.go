package httpclient

import "context"

// Transport sends a wire request and maps the outcome onto the pipeline
// error taxonomy: 2xx yields a Response, 401 yields ErrUnauthorized, any
// other status yields KindUnacceptableStatusCode and connectivity failures
// yield KindRequestError.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
