package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is the family of lookup failures; handlers map it to 404.
var ErrNotFound = errors.New("not found")

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrClientNotFound    = fmt.Errorf("client %w", ErrNotFound)
	ErrTokenNotFound     = fmt.Errorf("token %w", ErrNotFound)
	ErrConsentNotFound   = fmt.Errorf("consent %w", ErrNotFound)
	ErrDuplicateClientID = errors.New("client_id already exists")
	ErrPublicClient      = errors.New("public clients have no client secret")
	ErrInvalidClient     = errors.New("invalid client credentials")

	// ErrInvalidScope is returned for an empty scope set or scopes outside the
	// permitted set.
	ErrInvalidScope = errors.New("invalid scope")

	// ErrInvalidToken is the only error token validation returns.
	ErrInvalidToken = errors.New("invalid token")

	ErrUnknownTokenKind = errors.New("unknown token kind")
)

// ValidationError lists every violation found in a client payload.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid client metadata: " + strings.Join(e.Errors, "; ")
}

// StorageError wraps an unexpected persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
