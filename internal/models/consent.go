package models

import "time"

// OAuthConsent records that a user approved a client for a set of scopes.
// At most one record exists per (UserID, ClientID, ReferenceID).
type OAuthConsent struct {
	ID           string    `gorm:"column:id;primaryKey"`
	ClientID     string    `gorm:"column:clientId;not null"`
	UserID       string    `gorm:"column:userId;not null"`
	Scopes       Strings   `gorm:"column:scopes"`
	ReferenceID  *string   `gorm:"column:referenceId"`
	ConsentGiven bool      `gorm:"column:consentGiven"`
	CreatedAt    time.Time `gorm:"column:createdAt"`
	UpdatedAt    time.Time `gorm:"column:updatedAt"`
}

func (OAuthConsent) TableName() string {
	return "oauthConsent"
}

// Covers reports whether the consent grants every required scope.
func (c *OAuthConsent) Covers(required []string) bool {
	return c.ConsentGiven && IsSubset(required, c.Scopes)
}
