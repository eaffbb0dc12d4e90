package models

import (
	"time"

	"gorm.io/datatypes"
)

// EventType represents the type of audit event
type EventType string

const (
	EventClientCreated           EventType = "CLIENT_CREATED"
	EventClientUpdated           EventType = "CLIENT_UPDATED"
	EventClientDeleted           EventType = "CLIENT_DELETED"
	EventClientSecretRegenerated EventType = "CLIENT_SECRET_REGENERATED"

	EventTokenRevoked  EventType = "TOKEN_REVOKED"
	EventTokensReaped  EventType = "TOKENS_REAPED"
	EventConsentGiven  EventType = "CONSENT_GRANTED"
	EventConsentRevoke EventType = "CONSENT_REVOKED"

	EventSchemaMigrated EventType = "SCHEMA_MIGRATED"
)

// EventSeverity represents the severity level of an audit event
type EventSeverity string

const (
	SeverityInfo     EventSeverity = "INFO"
	SeverityWarning  EventSeverity = "WARNING"
	SeverityCritical EventSeverity = "CRITICAL"
)

// ResourceType represents the type of resource being operated on
type ResourceType string

const (
	ResourceClient  ResourceType = "CLIENT"
	ResourceToken   ResourceType = "TOKEN"
	ResourceConsent ResourceType = "CONSENT"
	ResourceSchema  ResourceType = "SCHEMA"
)

// AuditDetails holds event specific key/value pairs.
type AuditDetails = datatypes.JSONMap

// AuditLog is an immutable record of an administrative or security relevant change.
type AuditLog struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	EventType EventType     `gorm:"type:varchar(50);index;not null" json:"event_type"`
	EventTime time.Time     `gorm:"index;not null"                  json:"event_time"`
	Severity  EventSeverity `gorm:"type:varchar(20);not null"       json:"severity"`

	ActorUserID string `gorm:"type:varchar(64);index" json:"actor_user_id"`
	ActorIP     string `gorm:"type:varchar(45)"       json:"actor_ip"`

	ResourceType ResourceType `gorm:"type:varchar(50);index" json:"resource_type"`
	ResourceID   string       `gorm:"type:varchar(128);index" json:"resource_id"`

	Action       string       `gorm:"type:varchar(255);not null" json:"action"`
	Details      AuditDetails `json:"details"`
	Success      bool         `gorm:"index;not null"             json:"success"`
	ErrorMessage string       `gorm:"type:text"                  json:"error_message,omitempty"`

	CreatedAt time.Time `gorm:"index;not null" json:"created_at"`
}

// TableName specifies the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}
