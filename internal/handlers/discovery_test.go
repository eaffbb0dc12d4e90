package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscovery(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodGet, "/.well-known/openid-configuration", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	meta := decode[discoveryMetadata](t, w)
	assert.Equal(t, "https://auth.example.com", meta.Issuer)
	assert.Equal(t, "https://auth.example.com/oauth/introspect", meta.IntrospectionEndpoint)
	assert.Equal(t, "https://auth.example.com/oauth/revoke", meta.RevocationEndpoint)
	assert.Equal(t, []string{"openid", "profile", "email"}, meta.ScopesSupported)
	assert.Contains(t, meta.TokenEndpointAuthMethodsSupported, "none")
	assert.NotContains(t, meta.RevocationEndpointAuthMethods, "none")
}

func TestHealthz(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok"}}`, w.Body.String())

	require.NoError(t, ts.store.Close())
	w = ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy")
}
