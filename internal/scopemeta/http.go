package scopemeta

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-authgate/oauthprovider/internal/core"

	retry "github.com/appleboy/go-httpretry"
)

var (
	// ErrSourceUnavailable indicates the metadata service could not be reached
	ErrSourceUnavailable = errors.New("scope metadata service unavailable")

	// ErrSourceResponse indicates the metadata service answered with an error
	ErrSourceResponse = errors.New("scope metadata service returned an error")
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

type lookupRequest struct {
	Scopes []string `json:"scopes"`
}

// HTTPSource asks a remote metadata service. The request is
// POST {url} {"scopes": [...]} and the response a metadata document.
type HTTPSource struct {
	client *retry.Client
	url    string
}

var _ core.ScopeMetadataSource = (*HTTPSource)(nil)

// NewHTTPSource wraps client, which carries authentication and retry policy.
func NewHTTPSource(client *retry.Client, url string) *HTTPSource {
	return &HTTPSource{client: client, url: url}
}

func (s *HTTPSource) Lookup(ctx context.Context, scopes []string) (map[string]core.ScopeMetadata, error) {
	if len(scopes) == 0 {
		return map[string]core.ScopeMetadata{}, nil
	}

	payload, err := json.Marshal(lookupRequest{Scopes: scopes})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := s.client.Post(
		ctx,
		s.url,
		retry.WithBody("application/json", bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response", ErrSourceResponse)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return nil, fmt.Errorf("%w: HTTP %d - %s", ErrSourceResponse, resp.StatusCode, preview)
	}

	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	idx, err := doc.index()
	if err != nil {
		return nil, err
	}

	// Only answer for what was asked.
	out := make(map[string]core.ScopeMetadata, len(scopes))
	for _, scope := range scopes {
		if e, ok := idx[scope]; ok {
			out[scope] = e
		}
	}
	return out, nil
}

func (s *HTTPSource) Name() string {
	return "http"
}
