package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-authgate/oauthprovider/internal/config"
	"github.com/go-authgate/oauthprovider/internal/core"
	"github.com/go-authgate/oauthprovider/internal/metrics"
	"github.com/go-authgate/oauthprovider/internal/middleware"
	"github.com/go-authgate/oauthprovider/internal/migration"
	"github.com/go-authgate/oauthprovider/internal/models"
	"github.com/go-authgate/oauthprovider/internal/scopemeta"
	"github.com/go-authgate/oauthprovider/internal/services"
	"github.com/go-authgate/oauthprovider/internal/store"
	"github.com/go-authgate/oauthprovider/internal/token"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminSession = "admin-session"
	userSession  = "user-session"
	testSession  = "X-Test-Session"
)

type testServer struct {
	router  *gin.Engine
	store   *store.Store
	clients *services.ClientService
	tokens  *services.TokenService
	admin   *models.User
	user    *models.User
}

type staticLookup map[string]*core.Session

func (l staticLookup) LookupSession(_ context.Context, id string) (*core.Session, error) {
	return l[id], nil
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.New(store.DriverSQLite, ":memory:", store.Options{BootstrapIdentity: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, migration.New(s.DB(), nil).Up(context.Background()))

	admin := &models.User{ID: "admin-1", Name: "Admin", Role: "admin"}
	user := &models.User{ID: "user-1", Name: "User", Role: "user"}
	require.NoError(t, s.DB().Create(admin).Error)
	require.NoError(t, s.DB().Create(user).Error)

	logger := zap.NewNop()
	recorder := metrics.NewNoopMetrics()
	audit := services.NewAuditService(s, logger, true)
	signer, err := token.NewJWTSigner("test-secret", "https://auth.example.com")
	require.NoError(t, err)

	dict, err := scopemeta.LoadBundledDictionary()
	require.NoError(t, err)
	metadata := scopemeta.NewStaticSource("static", core.ScopeMetadata{
		Name:        "openid",
		DisplayName: "Sign in",
		Description: "Confirm who you are",
	})

	clients := services.NewClientService(s, services.ClientServiceOptions{
		SupportedScopes: []string{"openid", "profile", "email", "offline_access"},
		DefaultScopes:   []string{"openid", "profile"},
	}, audit, recorder, logger)
	tokens := services.NewTokenService(s, signer, services.TokenServiceOptions{}, audit, recorder, logger)
	consents := services.NewConsentService(s, metadata, dict, audit, recorder, logger)

	cfg := &config.Config{
		BaseURL:         "https://auth.example.com",
		ScopesSupported: []string{"openid", "profile", "email"},
	}

	clientHandler := NewClientHandler(clients, logger)
	consentHandler := NewConsentHandler(consents, logger)
	oauthHandler := NewOAuthHandler(clients, tokens, logger)
	auditHandler := NewAuditHandler(audit, logger)

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader(testSession); id != "" {
			sessions.Default(c).Set(middleware.SessionKeySessionID, id)
		}
		c.Next()
	})
	r.Use(middleware.CookieSession(staticLookup{
		adminSession: {ID: adminSession, UserID: admin.ID, Role: "admin"},
		userSession:  {ID: userSession, UserID: user.ID, Role: "user"},
	}, logger))

	r.GET("/.well-known/openid-configuration", NewDiscoveryHandler(cfg).Discovery)
	r.GET("/healthz", Healthz(map[string]HealthChecker{"database": s}))

	admins := r.Group("/api/admin", middleware.RequireAdmin())
	admins.GET("/oauth-clients", clientHandler.ListClients)
	admins.POST("/oauth-clients", clientHandler.CreateClient)
	admins.GET("/oauth-clients/:client_id", clientHandler.GetClient)
	admins.PATCH("/oauth-clients/:client_id", clientHandler.UpdateClient)
	admins.DELETE("/oauth-clients/:client_id", clientHandler.DeleteClient)
	admins.POST("/oauth-clients/:client_id/secret", clientHandler.RotateSecret)
	admins.GET("/audit-logs", auditHandler.ListAuditLogs)

	r.GET("/api/oauth2/public-client", clientHandler.PublicClient)
	r.GET("/api/consent", consentHandler.ConsentPage)
	users := r.Group("/api", middleware.RequireSession())
	users.POST("/consent", consentHandler.GrantConsent)
	users.DELETE("/consent", consentHandler.RevokeConsent)
	users.GET("/consents", consentHandler.ListConsents)

	r.POST("/oauth/introspect", oauthHandler.Introspect)
	r.POST("/oauth/revoke", oauthHandler.Revoke)

	return &testServer{
		router:  r,
		store:   s,
		clients: clients,
		tokens:  tokens,
		admin:   admin,
		user:    user,
	}
}

func (ts *testServer) do(t *testing.T, method, path, session string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set(testSession, session)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) postForm(t *testing.T, path string, form url.Values, clientID, secret string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if clientID != "" {
		req.SetBasicAuth(clientID, secret)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// registerClient creates a confidential client through the service and
// returns it with its plaintext secret.
func (ts *testServer) registerClient(t *testing.T, name string) *services.ClientResponse {
	t.Helper()
	resp, err := ts.clients.Register(context.Background(), core.Allow(ts.admin.ID), services.ClientPayload{
		ClientName:   name,
		RedirectURIs: []string{"https://app.example.com/callback"},
		Scope:        "openid profile email",
	})
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
