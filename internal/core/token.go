package core

import "time"

// AccessClaims are the claims carried by a signed access token.
type AccessClaims struct {
	TokenID   string // row id of the access token
	Subject   string // user id, empty for client-only grants
	ClientID  string
	Scopes    []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AccessTokenSigner signs access tokens and verifies their signatures.
type AccessTokenSigner interface {
	Sign(claims AccessClaims) (string, error)
	Verify(token string) (*AccessClaims, error)
}
