package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-authgate/oauthprovider/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsentPage(t *testing.T) {
	ts := setupTestServer(t)
	client := ts.registerClient(t, "Calendar")

	w := ts.do(t, http.MethodGet, "/api/consent?client_id="+client.ClientID+"&scope=openid%20email%20custom:thing&locale=de", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	page := decode[services.ConsentPage](t, w)
	assert.Equal(t, "Calendar", page.Client.ClientName)
	require.Len(t, page.Scopes, 3)

	// Curated metadata, then the German dictionary, then the raw name.
	assert.Equal(t, "Sign in", page.Scopes[0].DisplayName)
	assert.Equal(t, "email", page.Scopes[1].DisplayName)
	assert.NotEqual(t, "email", page.Scopes[1].Description)
	assert.Equal(t, "custom:thing", page.Scopes[2].Description)
}

func TestConsentPage_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	client := ts.registerClient(t, "Calendar")

	paths := []string{
		"/api/consent?scope=openid",
		"/api/consent?client_id=" + client.ClientID,
		"/api/consent?client_id=missing&scope=openid",
	}
	for _, path := range paths {
		w := ts.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestGrantAndRevokeConsent(t *testing.T) {
	ts := setupTestServer(t)
	client := ts.registerClient(t, "Calendar")

	w := ts.do(t, http.MethodPost, "/api/consent", "", gin.H{"client_id": client.ClientID, "scope": "openid"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/consent", userSession, gin.H{"client_id": client.ClientID, "scope": "openid email"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"openid", "email"}, decode[services.ConsentView](t, w).Scopes)

	w = ts.do(t, http.MethodPost, "/api/consent", userSession, gin.H{"client_id": client.ClientID, "scope": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_scope")

	w = ts.do(t, http.MethodPost, "/api/consent", userSession, gin.H{"client_id": client.ClientID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/consents", userSession, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Consents []services.ConsentView `json:"consents"`
	}](t, w)
	require.Len(t, list.Consents, 1)
	assert.Equal(t, client.ClientID, list.Consents[0].ClientID)

	w = ts.do(t, http.MethodDelete, "/api/consent?client_id="+client.ClientID, userSession, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/consent?client_id="+client.ClientID, userSession, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query, header, want string
	}{
		{"", "", "en"},
		{"fr", "de-DE", "fr"},
		{"", "de-DE,de;q=0.9,en;q=0.8", "de-DE"},
		{"", "fr;q=0.7", "fr"},
		{"", "*", "en"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/consent?locale="+tt.query, nil)
		if tt.header != "" {
			c.Request.Header.Set("Accept-Language", tt.header)
		}
		assert.Equal(t, tt.want, requestLocale(c), "query=%q header=%q", tt.query, tt.header)
	}
}
