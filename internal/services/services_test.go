package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-authgate/oauthprovider/internal/metrics"
	"github.com/go-authgate/oauthprovider/internal/migration"
	"github.com/go-authgate/oauthprovider/internal/models"
	"github.com/go-authgate/oauthprovider/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	// Use in-memory SQLite database for testing
	s, err := store.New(store.DriverSQLite, ":memory:", store.Options{BootstrapIdentity: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, migration.New(s.DB(), nil).Up(context.Background()))
	return s
}

func createTestUser(t *testing.T, s *store.Store, role string) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.NewString(), Name: "user-" + role, Role: role}
	require.NoError(t, s.DB().Create(user).Error)
	return user
}

func createTestSession(t *testing.T, s *store.Store, userID string) *models.Session {
	t.Helper()
	session := &models.Session{ID: uuid.NewString(), UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, s.DB().Create(session).Error)
	return session
}

func createTestClient(t *testing.T, s *store.Store, mutate func(c *models.OAuthClient)) *models.OAuthClient {
	t.Helper()
	client := &models.OAuthClient{
		ID:           uuid.NewString(),
		ClientID:     "client-" + uuid.NewString(),
		Name:         "Test Client",
		RedirectURIs: models.Strings{"https://app.example.com/callback"},
		Scopes:       models.Strings{"openid", "profile", "email"},
		Type:         models.ClientTypeConfidential,
	}
	if mutate != nil {
		mutate(client)
	}
	require.NoError(t, s.CreateClient(context.Background(), client))
	return client
}

func newTestClientService(s *store.Store, opts ClientServiceOptions) *ClientService {
	return NewClientService(s, opts, nil, metrics.NewNoopMetrics(), nil)
}
