package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-authgate/oauthprovider/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateRefreshToken inserts a refresh token row.
func (s *Store) CreateRefreshToken(ctx context.Context, token *models.OAuthRefreshToken) error {
	return translate(s.conn(ctx).Create(token).Error)
}

// CreateAccessToken inserts an access token row.
func (s *Store) CreateAccessToken(ctx context.Context, token *models.OAuthAccessToken) error {
	return translate(s.conn(ctx).Create(token).Error)
}

// GetRefreshTokenByID loads a refresh token by row id.
func (s *Store) GetRefreshTokenByID(ctx context.Context, id string) (*models.OAuthRefreshToken, error) {
	var token models.OAuthRefreshToken
	if err := s.conn(ctx).Where(eq(colID, id)).First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

// GetRefreshTokenByHash loads a refresh token by the hash of its value.
func (s *Store) GetRefreshTokenByHash(ctx context.Context, hash string) (*models.OAuthRefreshToken, error) {
	var token models.OAuthRefreshToken
	err := s.conn(ctx).Where(eq(clause.Column{Name: "token"}, hash)).First(&token).Error
	if err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

// GetAccessTokenByID loads an access token by row id.
func (s *Store) GetAccessTokenByID(ctx context.Context, id string) (*models.OAuthAccessToken, error) {
	var token models.OAuthAccessToken
	if err := s.conn(ctx).Where(eq(colID, id)).First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

// GetAccessTokenByHash loads an access token by the hash of its value.
func (s *Store) GetAccessTokenByHash(ctx context.Context, hash string) (*models.OAuthAccessToken, error) {
	var token models.OAuthAccessToken
	err := s.conn(ctx).Where(eq(clause.Column{Name: "token"}, hash)).First(&token).Error
	if err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

// RevokeRefreshToken stamps the revocation time on a refresh token. An already
// revoked token keeps its original timestamp.
func (s *Store) RevokeRefreshToken(ctx context.Context, id string, at time.Time) error {
	res := s.conn(ctx).
		Model(&models.OAuthRefreshToken{}).
		Where(eq(colID, id)).
		Where(clause.Eq{Column: colRevoked, Value: nil}).
		Update("revoked", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := s.GetRefreshTokenByID(ctx, id); err != nil {
		return err
	}
	return nil
}

// DeleteAccessToken removes an access token row.
func (s *Store) DeleteAccessToken(ctx context.Context, id string) error {
	res := s.conn(ctx).Where(eq(colID, id)).Delete(&models.OAuthAccessToken{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ListRefreshTokensByUser returns a user's refresh tokens, newest first.
func (s *Store) ListRefreshTokensByUser(ctx context.Context, userID string) ([]models.OAuthRefreshToken, error) {
	var tokens []models.OAuthRefreshToken
	err := s.conn(ctx).
		Where(eq(colUserID, userID)).
		Order(clause.OrderByColumn{Column: colCreatedAt, Desc: true}).
		Find(&tokens).Error
	return tokens, err
}

// DeleteExpiredTokens removes access tokens that expired before now, refresh
// tokens that expired before now, and access tokens derived from those
// refresh tokens. Returns the number of access and refresh rows removed.
func (s *Store) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, int64, error) {
	var accessDeleted, refreshDeleted int64
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		expiredRefresh := tx.Model(&models.OAuthRefreshToken{}).
			Select("id").
			Where(clause.Lt{Column: colExpiresAt, Value: now})

		res := tx.
			Where(clause.Lt{Column: colExpiresAt, Value: now}).
			Or(gorm.Expr("? IN (?)", colRefreshID, expiredRefresh)).
			Delete(&models.OAuthAccessToken{})
		if res.Error != nil {
			return res.Error
		}
		accessDeleted = res.RowsAffected

		res = tx.Where(clause.Lt{Column: colExpiresAt, Value: now}).Delete(&models.OAuthRefreshToken{})
		if res.Error != nil {
			return res.Error
		}
		refreshDeleted = res.RowsAffected
		return nil
	})
	return accessDeleted, refreshDeleted, err
}

// CountActiveTokens counts unexpired tokens of kind; refresh tokens must also
// be unrevoked.
func (s *Store) CountActiveTokens(ctx context.Context, kind string, now time.Time) (int64, error) {
	var count int64
	var q *gorm.DB
	switch kind {
	case models.TokenKindAccess:
		q = s.conn(ctx).Model(&models.OAuthAccessToken{})
	case models.TokenKindRefresh:
		q = s.conn(ctx).Model(&models.OAuthRefreshToken{}).
			Where(clause.Eq{Column: colRevoked, Value: nil})
	default:
		return 0, fmt.Errorf("unknown token kind %q", kind)
	}
	err := q.Where(clause.Gt{Column: colExpiresAt, Value: now}).Count(&count).Error
	return count, err
}
