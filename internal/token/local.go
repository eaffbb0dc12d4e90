package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-authgate/oauthprovider/internal/core"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeBearer is the token_type reported for access tokens.
const TokenTypeBearer = "Bearer"

// accessClaims is the JWT body of an access token.
type accessClaims struct {
	ClientID string `json:"client_id"`
	Scope    string `json:"scope"`
	jwt.RegisteredClaims
}

// JWTSigner signs access tokens with HS256 using a shared secret.
type JWTSigner struct {
	secret []byte
	issuer string
	now    func() time.Time
}

var _ core.AccessTokenSigner = (*JWTSigner)(nil)

// NewJWTSigner creates a signer. issuer is written to and required in "iss".
func NewJWTSigner(secret, issuer string) (*JWTSigner, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &JWTSigner{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Sign returns the compact JWT for claims.
func (s *JWTSigner) Sign(claims core.AccessClaims) (string, error) {
	issuedAt := claims.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = s.now()
	}

	body := accessClaims{
		ClientID: claims.ClientID,
		Scope:    strings.Join(claims.Scopes, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   claims.Subject,
			ID:        claims.TokenID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, body).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm, issuer and expiry of tokenString.
func (s *JWTSigner) Verify(tokenString string) (*core.AccessClaims, error) {
	var body accessClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &body, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || body.ID == "" {
		return nil, ErrInvalidToken
	}

	claims := &core.AccessClaims{
		TokenID:   body.ID,
		Subject:   body.Subject,
		ClientID:  body.ClientID,
		Scopes:    strings.Fields(body.Scope),
		ExpiresAt: body.ExpiresAt.Time,
	}
	if body.IssuedAt != nil {
		claims.IssuedAt = body.IssuedAt.Time
	}
	return claims, nil
}
