// Package mockapi is a fake authentication API with the dummyjson /auth
// endpoints: POST /auth/login, POST /auth/refresh and GET /auth/me.
//
// Access tokens are HS256 JWTs carrying an exp claim. Refresh tokens are
// opaque and single use. Tests can revoke access tokens, delay or fail
// refreshes and read request counters.
package mockapi
