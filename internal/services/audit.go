package services

import (
	"context"
	"strings"
	"time"

	"github.com/go-authgate/oauthprovider/internal/core"
	"github.com/go-authgate/oauthprovider/internal/models"
	"github.com/go-authgate/oauthprovider/internal/store"
	"github.com/go-authgate/oauthprovider/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditLogEntry represents the data needed to create an audit log entry
type AuditLogEntry struct {
	EventType    models.EventType
	Severity     models.EventSeverity
	ActorUserID  string
	ActorIP      string
	ResourceType models.ResourceType
	ResourceID   string
	Action       string
	Details      models.AuditDetails
	Success      bool
	ErrorMessage string
}

// AuditService writes audit rows synchronously. A failed write is logged and
// never fails the operation being audited.
type AuditService struct {
	store   *store.Store
	logger  *zap.Logger
	enabled bool
	now     func() time.Time
}

// NewAuditService creates a new audit service
func NewAuditService(s *store.Store, logger *zap.Logger, enabled bool) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{store: s, logger: logger, enabled: enabled, now: time.Now}
}

// Log records an audit entry. Safe to call on a nil service.
func (s *AuditService) Log(ctx context.Context, entry AuditLogEntry) {
	if s == nil || !s.enabled {
		return
	}

	// Extract IP from context if not provided
	if entry.ActorIP == "" {
		entry.ActorIP = util.GetIPFromContext(ctx)
	}
	if entry.Severity == "" {
		entry.Severity = models.SeverityInfo
		if !entry.Success {
			entry.Severity = models.SeverityWarning
		}
	}

	now := s.now()
	auditLog := &models.AuditLog{
		ID:           uuid.New().String(),
		EventType:    entry.EventType,
		EventTime:    now,
		Severity:     entry.Severity,
		ActorUserID:  entry.ActorUserID,
		ActorIP:      entry.ActorIP,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Action:       entry.Action,
		Details:      maskSensitiveDetails(entry.Details),
		Success:      entry.Success,
		ErrorMessage: entry.ErrorMessage,
		CreatedAt:    now,
	}

	if err := s.store.CreateAuditLog(ctx, auditLog); err != nil {
		s.logger.Error("failed to write audit log",
			zap.String("event_type", string(entry.EventType)),
			zap.String("resource_id", entry.ResourceID),
			zap.Error(err),
		)
	}
}

// Prune deletes audit rows older than retention and returns how many were removed.
func (s *AuditService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.DeleteAuditLogsBefore(ctx, s.now().Add(-retention))
}

// List returns the newest audit rows, optionally narrowed to one resource
// type or resource id.
func (s *AuditService) List(
	ctx context.Context,
	decision core.Decision,
	resourceType models.ResourceType,
	resourceID string,
	limit int,
) ([]models.AuditLog, error) {
	if !decision.Allowed {
		return nil, ErrUnauthorized
	}
	params := store.NewListParams("", limit, 0)
	logs, err := s.store.ListAuditLogs(ctx, resourceType, resourceID, params.Limit)
	if err != nil {
		return nil, &StorageError{Op: "list audit logs", Err: err}
	}
	return logs, nil
}

// maskSensitiveDetails masks sensitive information in audit log details
func maskSensitiveDetails(details models.AuditDetails) models.AuditDetails {
	if details == nil {
		return details
	}

	masked := make(models.AuditDetails, len(details))
	for key, value := range details {
		// Partial masking for identifiers derived from secrets
		if isPartialMaskField(key) {
			if str, ok := value.(string); ok && len(str) > 12 {
				masked[key] = str[:8] + "..." + str[len(str)-4:]
				continue
			}
		}

		// Complete masking for these fields
		if isSensitiveField(key) {
			masked[key] = "***REDACTED***"
			continue
		}

		masked[key] = value
	}

	return masked
}

// isSensitiveField checks if a field should be completely masked
func isSensitiveField(key string) bool {
	key = strings.ToLower(key)
	for _, field := range []string{"password", "secret", "token"} {
		if strings.Contains(key, field) {
			return true
		}
	}
	return false
}

// isPartialMaskField checks if a field should be partially masked
func isPartialMaskField(key string) bool {
	key = strings.ToLower(key)
	return key == "token_id" || key == "refresh_id"
}
