// Package common contains shared constants and sentinel errors used across
// cardsync components.
package common

// AuthHeaderName is the HTTP header used to carry the bearer token on
// authenticated requests.
const AuthHeaderName = "Authorization"

// AuthSchemePrefix is the expected prefix of the Authorization header value.
const AuthSchemePrefix = "Bearer "
