package client

import (
	"fmt"
	"time"

	httpclient "github.com/appleboy/go-httpclient"
	retry "github.com/appleboy/go-httpretry"
)

const (
	defaultAuthHeader    = "X-API-Secret"
	defaultRetryDelay    = 500 * time.Millisecond
	defaultMaxRetryDelay = 5 * time.Second
)

// RetryOptions configures an outbound service-to-service client.
type RetryOptions struct {
	AuthMode      string // none, simple or hmac
	AuthSecret    string
	AuthHeader    string
	Timeout       time.Duration
	MaxRetries    int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// NewRetryClient builds an HTTP client that signs requests according to
// AuthMode and retries transient failures with exponential backoff.
func NewRetryClient(opts RetryOptions) (*retry.Client, error) {
	authMode := opts.AuthMode
	if authMode == "" {
		authMode = httpclient.AuthModeNone
	}
	authHeader := opts.AuthHeader
	if authHeader == "" {
		authHeader = defaultAuthHeader
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	maxRetryDelay := opts.MaxRetryDelay
	if maxRetryDelay <= 0 {
		maxRetryDelay = defaultMaxRetryDelay
	}

	client, err := httpclient.NewAuthClient(
		authMode,
		opts.AuthSecret,
		httpclient.WithTimeout(opts.Timeout),
		httpclient.WithHeaderName(authHeader),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	retryClient, err := retry.NewRealtimeClient(
		retry.WithHTTPClient(client),
		retry.WithMaxRetries(opts.MaxRetries),
		retry.WithInitialRetryDelay(retryDelay),
		retry.WithMaxRetryDelay(maxRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retry client: %w", err)
	}
	return retryClient, nil
}
