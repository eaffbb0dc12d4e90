package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-authgate/oauthprovider/internal/core"
	"github.com/go-authgate/oauthprovider/internal/metrics"
	"github.com/go-authgate/oauthprovider/internal/models"
	"github.com/go-authgate/oauthprovider/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSensitiveDetails(t *testing.T) {
	masked := maskSensitiveDetails(models.AuditDetails{
		"client_secret": "ocs_abcdef",
		"access_token":  "eyJhbGciOiJIUzI1NiJ9",
		"token_id":      "0123456789abcdef",
		"refresh_id":    "short",
		"client_name":   "My App",
	})

	assert.Equal(t, "***REDACTED***", masked["client_secret"])
	assert.Equal(t, "***REDACTED***", masked["access_token"])
	assert.Equal(t, "01234567...cdef", masked["token_id"])
	assert.Equal(t, "short", masked["refresh_id"])
	assert.Equal(t, "My App", masked["client_name"])

	assert.Nil(t, maskSensitiveDetails(nil))
}

func TestAuditService_Disabled(t *testing.T) {
	s := setupTestStore(t)
	audit := NewAuditService(s, nil, false)

	audit.Log(context.Background(), AuditLogEntry{
		EventType:    models.EventClientCreated,
		ResourceType: models.ResourceClient,
		ResourceID:   "c1",
		Action:       "register client",
		Success:      true,
	})

	logs, err := s.ListAuditLogs(context.Background(), models.ResourceClient, "c1", 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAuditService_NilIsNoop(t *testing.T) {
	var audit *AuditService
	audit.Log(context.Background(), AuditLogEntry{Action: "noop"})
}

func TestAuditService_RecordsClientLifecycle(t *testing.T) {
	s := setupTestStore(t)
	admin := createTestUser(t, s, "admin")
	audit := NewAuditService(s, nil, true)
	svc := NewClientService(s, ClientServiceOptions{DefaultScopes: []string{"openid"}}, audit, metrics.NewNoopMetrics(), nil)
	ctx := util.WithClientIP(context.Background(), "198.51.100.7")

	resp, err := svc.Register(ctx, core.Allow(admin.ID), ClientPayload{
		ClientName:   "Audited",
		RedirectURIs: []string{"https://audited.example.com/cb"},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, core.Allow(admin.ID), resp.ClientID))

	logs, err := s.ListAuditLogs(context.Background(), models.ResourceClient, resp.ClientID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	events := []models.EventType{logs[0].EventType, logs[1].EventType}
	assert.ElementsMatch(t, []models.EventType{models.EventClientCreated, models.EventClientDeleted}, events)
	for _, l := range logs {
		assert.Equal(t, admin.ID, l.ActorUserID)
		assert.Equal(t, "198.51.100.7", l.ActorIP)
		assert.True(t, l.Success)
	}
}

func TestAuditService_Prune(t *testing.T) {
	s := setupTestStore(t)
	audit := NewAuditService(s, nil, true)
	ctx := context.Background()

	audit.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	audit.Log(ctx, AuditLogEntry{EventType: models.EventTokensReaped, ResourceType: models.ResourceToken, ResourceID: "old", Action: "old", Success: true})
	audit.now = time.Now
	audit.Log(ctx, AuditLogEntry{EventType: models.EventTokensReaped, ResourceType: models.ResourceToken, ResourceID: "new", Action: "new", Success: true})

	deleted, err := audit.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := s.ListAuditLogs(ctx, models.ResourceToken, "new", 10)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestAuditService_List(t *testing.T) {
	s := setupTestStore(t)
	audit := NewAuditService(s, nil, true)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "a"} {
		audit.Log(ctx, AuditLogEntry{
			EventType:    models.EventClientUpdated,
			ResourceType: models.ResourceClient,
			ResourceID:   id,
			Action:       "update",
			Success:      true,
		})
	}

	_, err := audit.List(ctx, core.Deny(), "", "", 10)
	assert.ErrorIs(t, err, ErrUnauthorized)

	all, err := audit.List(ctx, core.Allow("admin"), "", "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyA, err := audit.List(ctx, core.Allow("admin"), models.ResourceClient, "a", 10)
	require.NoError(t, err)
	assert.Len(t, onlyA, 2)
}
