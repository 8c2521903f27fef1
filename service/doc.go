// Package service is the API facade of the client: login, profile lookup
// and logout on top of the request executor and session handler.
package service
