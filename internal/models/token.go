package models

import (
	"time"
)

// Token kinds
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// OAuthRefreshToken is a long-lived credential bound to one client and one user.
type OAuthRefreshToken struct {
	ID          string     `gorm:"column:id;primaryKey"`
	Token       string     `gorm:"column:token;not null"` // SHA-256 hex of the secret value
	RawToken    string     `gorm:"-"`                     // In-memory only; never persisted to DB
	ClientID    string     `gorm:"column:clientId;not null"`
	SessionID   *string    `gorm:"column:sessionId"`
	UserID      string     `gorm:"column:userId;not null"`
	ReferenceID *string    `gorm:"column:referenceId"`
	ExpiresAt   time.Time  `gorm:"column:expiresAt;not null"`
	CreatedAt   time.Time  `gorm:"column:createdAt;not null"`
	Revoked     *time.Time `gorm:"column:revoked"`
	Scopes      Strings    `gorm:"column:scopes;not null"`
}

// TableName overrides the table name used by OAuthRefreshToken to `oauthRefreshToken`
func (OAuthRefreshToken) TableName() string {
	return "oauthRefreshToken"
}

// IsRevoked reports whether the token carries a revocation timestamp.
func (t *OAuthRefreshToken) IsRevoked() bool {
	return t.Revoked != nil
}

// IsExpired reports whether the token expired at or before now.
func (t *OAuthRefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// OAuthAccessToken is a short-lived credential, optionally derived from a refresh token.
type OAuthAccessToken struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Token       string    `gorm:"column:token;uniqueIndex;not null"` // SHA-256 hex of the secret value
	RawToken    string    `gorm:"-"`
	ClientID    string    `gorm:"column:clientId;not null"`
	SessionID   *string   `gorm:"column:sessionId"`
	UserID      *string   `gorm:"column:userId"`
	ReferenceID *string   `gorm:"column:referenceId"`
	RefreshID   *string   `gorm:"column:refreshId"` // nil for grants without a refresh token
	ExpiresAt   time.Time `gorm:"column:expiresAt;not null"`
	CreatedAt   time.Time `gorm:"column:createdAt"`
	Scopes      Strings   `gorm:"column:scopes;not null"`
}

// TableName overrides the table name used by OAuthAccessToken to `oauthAccessToken`
func (OAuthAccessToken) TableName() string {
	return "oauthAccessToken"
}

func (t *OAuthAccessToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
