// Package common contains shared constants and sentinel errors used across
// Inkly server components.
package common

// AuthorizationHeaderName is the HTTP header that carries the bearer token
// issued by the identity provider.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "
