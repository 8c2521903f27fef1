// Package httpclient is the REST layer of the authenticated request
// pipeline.
//
// A Descriptor declares one API call. URLBuilder turns it into a wire
// Request, the session adapter signs it, and a Transport sends it. Adapter
// is the net/http transport. Every failure is an *Error whose Kind is one
// of the pipeline error kinds:
//
//	resp, err := adapter.Send(ctx, req)
//	switch {
//	case errors.Is(err, httpclient.ErrUnauthorized):
//	    // refresh and retry
//	case errors.Is(err, &httpclient.Error{Kind: httpclient.KindUnacceptableStatusCode, StatusCode: 404}):
//	    // not found
//	}
//
// Decode reads a typed value out of a successful response:
//
//	user, err := httpclient.Decode[User](httpclient.JSON, resp)
package httpclient
