package store

import (
	"context"
	"time"

	"github.com/go-authgate/oauthprovider/internal/models"

	"gorm.io/gorm/clause"
)

// CreateAuditLog inserts one audit entry.
func (s *Store) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return s.conn(ctx).Create(entry).Error
}

// ListAuditLogs returns the newest entries for a resource.
func (s *Store) ListAuditLogs(
	ctx context.Context,
	resourceType models.ResourceType,
	resourceID string,
	limit int,
) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.conn(ctx).
		Where(&models.AuditLog{ResourceType: resourceType, ResourceID: resourceID}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "event_time"}, Desc: true}).
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// DeleteAuditLogsBefore removes entries older than cutoff.
func (s *Store) DeleteAuditLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.conn(ctx).Where("event_time < ?", cutoff).Delete(&models.AuditLog{})
	return res.RowsAffected, res.Error
}
