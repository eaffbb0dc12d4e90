package migration

import (
	"time"

	"gorm.io/datatypes"
)

// The structs below freeze the table shapes this migration creates and
// drops. They must not follow later changes to internal/models.

type jsonStrings = datatypes.JSONSlice[string]

type identityUser struct {
	ID string `gorm:"column:id;primaryKey"`
}

func (identityUser) TableName() string { return "user" }

type identitySession struct {
	ID string `gorm:"column:id;primaryKey"`
}

func (identitySession) TableName() string { return "session" }

// legacyApplication is the client table of the legacy shape. It predates this
// migration and is only referenced, never created or dropped.
type legacyApplication struct {
	ID       string `gorm:"column:id;primaryKey"`
	ClientID string `gorm:"column:clientId;uniqueIndex"`

	AccessTokens []legacyAccessToken `gorm:"foreignKey:ClientID;references:ClientID;constraint:OnDelete:CASCADE"`
}

func (legacyApplication) TableName() string { return "oauthApplication" }

type splitClient struct {
	ID                      string            `gorm:"column:id;primaryKey"`
	ClientID                string            `gorm:"column:clientId;not null;uniqueIndex"`
	ClientSecret            *string           `gorm:"column:clientSecret"`
	Disabled                *bool             `gorm:"column:disabled"`
	SkipConsent             *bool             `gorm:"column:skipConsent"`
	EnableEndSession        *bool             `gorm:"column:enableEndSession"`
	Scopes                  jsonStrings       `gorm:"column:scopes"`
	UserID                  *string           `gorm:"column:userId"`
	CreatedAt               *time.Time        `gorm:"column:createdAt"`
	UpdatedAt               *time.Time        `gorm:"column:updatedAt"`
	Name                    *string           `gorm:"column:name"`
	URI                     *string           `gorm:"column:uri"`
	Icon                    *string           `gorm:"column:icon"`
	Contacts                jsonStrings       `gorm:"column:contacts"`
	TOS                     *string           `gorm:"column:tos"`
	Policy                  *string           `gorm:"column:policy"`
	SoftwareID              *string           `gorm:"column:softwareId"`
	SoftwareVersion         *string           `gorm:"column:softwareVersion"`
	SoftwareStatement       *string           `gorm:"column:softwareStatement"`
	RedirectURIs            jsonStrings       `gorm:"column:redirectUris;not null"`
	PostLogoutRedirectURIs  jsonStrings       `gorm:"column:postLogoutRedirectUris"`
	TokenEndpointAuthMethod *string           `gorm:"column:tokenEndpointAuthMethod"`
	GrantTypes              jsonStrings       `gorm:"column:grantTypes"`
	ResponseTypes           jsonStrings       `gorm:"column:responseTypes"`
	Public                  *bool             `gorm:"column:public"`
	Type                    *string           `gorm:"column:type"`
	ReferenceID             *string           `gorm:"column:referenceId"`
	Metadata                datatypes.JSONMap `gorm:"column:metadata"`

	Owner *identityUser `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL"`

	// Declared on the parent so the foreign key lands on the child table.
	// A belongs-to on the child is ambiguous here: both sides have ClientID.
	RefreshTokens []splitRefreshToken `gorm:"foreignKey:ClientID;references:ClientID;constraint:OnDelete:CASCADE"`
	AccessTokens  []splitAccessToken  `gorm:"foreignKey:ClientID;references:ClientID;constraint:OnDelete:CASCADE"`
	Consents      []consent           `gorm:"foreignKey:ClientID;references:ClientID;constraint:OnDelete:CASCADE"`
}

func (splitClient) TableName() string { return "oauthClient" }

type splitRefreshToken struct {
	ID          string      `gorm:"column:id;primaryKey"`
	Token       string      `gorm:"column:token;not null"`
	ClientID    string      `gorm:"column:clientId;not null"`
	SessionID   *string     `gorm:"column:sessionId"`
	UserID      string      `gorm:"column:userId;not null"`
	ReferenceID *string     `gorm:"column:referenceId"`
	ExpiresAt   time.Time   `gorm:"column:expiresAt;not null"`
	CreatedAt   time.Time   `gorm:"column:createdAt;not null"`
	Revoked     *time.Time  `gorm:"column:revoked"`
	Scopes      jsonStrings `gorm:"column:scopes;not null"`

	Session *identitySession `gorm:"foreignKey:SessionID;references:ID;constraint:OnDelete:SET NULL"`
	User    *identityUser    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (splitRefreshToken) TableName() string { return "oauthRefreshToken" }

type splitAccessToken struct {
	ID          string      `gorm:"column:id;primaryKey"`
	Token       string      `gorm:"column:token;not null;uniqueIndex"`
	ClientID    string      `gorm:"column:clientId;not null"`
	SessionID   *string     `gorm:"column:sessionId"`
	UserID      *string     `gorm:"column:userId"`
	ReferenceID *string     `gorm:"column:referenceId"`
	RefreshID   *string     `gorm:"column:refreshId"`
	ExpiresAt   time.Time   `gorm:"column:expiresAt;not null"`
	CreatedAt   time.Time   `gorm:"column:createdAt;default:CURRENT_TIMESTAMP"`
	Scopes      jsonStrings `gorm:"column:scopes;not null"`

	Session *identitySession   `gorm:"foreignKey:SessionID;references:ID;constraint:OnDelete:SET NULL"`
	User    *identityUser      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL"`
	Refresh *splitRefreshToken `gorm:"foreignKey:RefreshID;references:ID;constraint:OnDelete:CASCADE"`
}

func (splitAccessToken) TableName() string { return "oauthAccessToken" }

// legacyAccessToken is the combined access/refresh table of the legacy shape.
type legacyAccessToken struct {
	ID                    string    `gorm:"column:id;primaryKey"`
	AccessToken           string    `gorm:"column:accessToken;not null;uniqueIndex"`
	RefreshToken          string    `gorm:"column:refreshToken;not null;uniqueIndex"`
	AccessTokenExpiresAt  time.Time `gorm:"column:accessTokenExpiresAt;not null"`
	RefreshTokenExpiresAt time.Time `gorm:"column:refreshTokenExpiresAt;not null"`
	ClientID              string    `gorm:"column:clientId;not null"`
	UserID                *string   `gorm:"column:userId"`
	Scopes                string    `gorm:"column:scopes;not null"`
	CreatedAt             time.Time `gorm:"column:createdAt;not null"`
	UpdatedAt             time.Time `gorm:"column:updatedAt;not null"`

	User *identityUser `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (legacyAccessToken) TableName() string { return "oauthAccessToken" }

// consent is the oauthConsent table with the referenceId column this
// migration adds.
type consent struct {
	ID           string      `gorm:"column:id;primaryKey"`
	ClientID     string      `gorm:"column:clientId;not null"`
	UserID       string      `gorm:"column:userId;not null"`
	Scopes       jsonStrings `gorm:"column:scopes"`
	ReferenceID  *string     `gorm:"column:referenceId"`
	ConsentGiven *bool       `gorm:"column:consentGiven"`
	CreatedAt    *time.Time  `gorm:"column:createdAt"`
	UpdatedAt    *time.Time  `gorm:"column:updatedAt"`

	User *identityUser `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (consent) TableName() string { return "oauthConsent" }
