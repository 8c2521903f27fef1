// Package session keeps the bearer credential of an authenticated client.
//
// The Handler persists sessions in a CredentialStore, signs outgoing
// requests with an Authorization header and refreshes expired sessions.
// Refreshes are single-flight per credential id: concurrent callers that
// observe an expired session share one network call and one store write.
//
//	h := session.NewHandler(cfg, builder, transport, store, session.WithLogger(log))
//	if err := h.Adapt(ctx, req, d); err != nil {
//		return err
//	}
package session
