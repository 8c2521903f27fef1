// Package executor runs API descriptors through the request pipeline:
// build the wire request, sign it with the session when the descriptor
// requires authorization, send it and decode the response.
//
// An unauthorized answer is retried once with a re-signed request. Other
// errors are returned unchanged and never retried.
//
//	me, err := executor.Execute[service.User](ctx, exec, service.MeRequest{})
package executor
