// Package common contains shared constants and sentinel errors used across
// venuebook components.
package common

import "time"

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the raw token in the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName correlates client log lines with server log lines.
const RequestIDHeaderName = "X-Request-ID"

// Names of the persisted credential cookies.
const (
	TokenCookieName = "auth_token"
	UserCookieName  = "auth_user"
)

// CookiePath is the scope every credential cookie is written with.
const CookiePath = "/"

// DefaultCredentialTTL is the expiry window of the credential cookies.
const DefaultCredentialTTL = 7 * 24 * time.Hour
