package token

import "errors"

var (
	// ErrTokenGeneration indicates token generation failed
	ErrTokenGeneration = errors.New("failed to generate token")

	// ErrInvalidToken indicates the token is malformed, carries a bad
	// signature, or was issued by someone else
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("token expired")

	// ErrMissingSecret indicates the signer was built without a key
	ErrMissingSecret = errors.New("jwt secret is empty")
)
