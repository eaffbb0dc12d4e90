package models

import (
	"context"
	"encoding/base32"
	"slices"
	"time"

	"github.com/go-authgate/oauthprovider/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// Client types
const (
	ClientTypePublic       = "public"
	ClientTypeConfidential = "confidential"
)

// Token endpoint authentication methods
const (
	AuthMethodNone              = "none"
	AuthMethodClientSecretBasic = "client_secret_basic"
	AuthMethodClientSecretPost  = "client_secret_post"
)

// Base32 characters, but lowercased.
const lowerBase32Chars = "abcdefghijklmnopqrstuvwxyz234567"

// base32 encoder that uses lowered characters without padding.
var base32Lower = base32.NewEncoding(lowerBase32Chars).WithPadding(base32.NoPadding)

// Strings is a JSON array column of strings.
type Strings = datatypes.JSONSlice[string]

// OAuthClient is a registered OAuth application.
type OAuthClient struct {
	ID               string    `gorm:"column:id;primaryKey"`
	ClientID         string    `gorm:"column:clientId;uniqueIndex;not null"`
	ClientSecret     *string   `gorm:"column:clientSecret"` // bcrypt hash, nil for public clients
	Disabled         bool      `gorm:"column:disabled"`
	SkipConsent      bool      `gorm:"column:skipConsent"`
	EnableEndSession bool      `gorm:"column:enableEndSession"`
	Scopes           Strings   `gorm:"column:scopes"`
	UserID           *string   `gorm:"column:userId"` // owner; nulled when the user is deleted
	CreatedAt        time.Time `gorm:"column:createdAt"`
	UpdatedAt        time.Time `gorm:"column:updatedAt"`

	Name              string  `gorm:"column:name"`
	URI               string  `gorm:"column:uri"`
	Icon              string  `gorm:"column:icon"`
	Contacts          Strings `gorm:"column:contacts"`
	TOS               string  `gorm:"column:tos"`
	Policy            string  `gorm:"column:policy"`
	SoftwareID        string  `gorm:"column:softwareId"`
	SoftwareVersion   string  `gorm:"column:softwareVersion"`
	SoftwareStatement string  `gorm:"column:softwareStatement"`

	RedirectURIs            Strings           `gorm:"column:redirectUris;not null"`
	PostLogoutRedirectURIs  Strings           `gorm:"column:postLogoutRedirectUris"`
	TokenEndpointAuthMethod string            `gorm:"column:tokenEndpointAuthMethod"`
	GrantTypes              Strings           `gorm:"column:grantTypes"`
	ResponseTypes           Strings           `gorm:"column:responseTypes"`
	Public                  bool              `gorm:"column:public"`
	Type                    string            `gorm:"column:type"`
	ReferenceID             *string           `gorm:"column:referenceId"`
	Metadata                datatypes.JSONMap `gorm:"column:metadata"`
}

// TableName overrides the table name used by OAuthClient to `oauthClient`
func (OAuthClient) TableName() string {
	return "oauthClient"
}

// IsPublic reports whether the client authenticates without a secret.
func (c *OAuthClient) IsPublic() bool {
	return c.Public || c.Type == ClientTypePublic
}

// AllowsScopes reports whether every requested scope is in the client's permitted set.
func (c *OAuthClient) AllowsScopes(requested []string) bool {
	return IsSubset(requested, c.Scopes)
}

// GenerateClientSecret generates a new secret, stores its hash on the client
// and returns the plaintext.
func (c *OAuthClient) GenerateClientSecret(ctx context.Context) (string, error) {
	rBytes, err := util.CryptoRandomBytes(32)
	if err != nil {
		return "", err
	}
	// Prefixed so secret scanners can recognise leaked values.
	clientSecret := "ocs_" + base32Lower.EncodeToString(rBytes)

	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	hash := string(hashedSecret)
	c.ClientSecret = &hash
	return clientSecret, nil
}

// ValidateClientSecret validates the given secret against the stored hash.
func (c *OAuthClient) ValidateClientSecret(secret []byte) bool {
	if c.ClientSecret == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*c.ClientSecret), secret) == nil
}

// IsSubset reports whether every element of sub is present in set.
// An empty sub is a subset of anything.
func IsSubset(sub, set []string) bool {
	for _, s := range sub {
		if !slices.Contains(set, s) {
			return false
		}
	}
	return true
}

// MergeScopes returns base followed by the entries of extra not already in base.
func MergeScopes(base, extra []string) []string {
	out := slices.Clone(base)
	for _, s := range extra {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
