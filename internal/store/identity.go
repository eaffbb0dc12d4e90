package store

import (
	"context"

	"github.com/go-authgate/oauthprovider/internal/models"

	"gorm.io/gorm"
)

// GetUserByID loads a user from the identity system's table.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where(eq(colID, id)).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetSessionByID loads a login session.
func (s *Store) GetSessionByID(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := s.conn(ctx).Where(eq(colID, id)).First(&session).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

// DeleteUser removes a user and applies the OAuth side of the cascade:
// refresh tokens and consents are deleted (with access tokens derived from
// those refresh tokens), remaining access tokens and owned clients keep their
// rows with the user reference cleared.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		byUser := eq(colUserID, id)
		userRefresh := tx.Model(&models.OAuthRefreshToken{}).Select("id").Where(byUser)

		if err := tx.Where(gorm.Expr("? IN (?)", colRefreshID, userRefresh)).
			Delete(&models.OAuthAccessToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where(byUser).Delete(&models.OAuthRefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where(byUser).Delete(&models.OAuthConsent{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.OAuthAccessToken{}).Where(byUser).
			Update("userId", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.OAuthClient{}).Where(byUser).
			Update("userId", nil).Error; err != nil {
			return err
		}
		res := tx.Where(eq(colID, id)).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}

// DeleteSession removes a login session. Tokens issued under it survive with
// their session reference cleared.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		bySession := eq(colSessionID, id)
		if err := tx.Model(&models.OAuthRefreshToken{}).Where(bySession).
			Update("sessionId", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.OAuthAccessToken{}).Where(bySession).
			Update("sessionId", nil).Error; err != nil {
			return err
		}
		res := tx.Where(eq(colID, id)).Delete(&models.Session{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}
