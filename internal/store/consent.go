package store

import (
	"context"

	"github.com/go-authgate/oauthprovider/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func consentKey(db *gorm.DB, userID, clientID string, referenceID *string) *gorm.DB {
	return db.
		Where(eq(colUserID, userID)).
		Where(eq(colClientID, clientID)).
		Where(clause.Eq{Column: colRefID, Value: referenceID})
}

// FindConsentForUpdate loads the consent row for (user, client, reference),
// locking it when the engine supports row locks. A missing row takes no lock,
// so concurrent first inserts are stopped by the unique consent key instead
// and the loser's SaveConsent returns ErrDuplicateKey.
func (s *Store) FindConsentForUpdate(
	ctx context.Context,
	userID, clientID string,
	referenceID *string,
) (*models.OAuthConsent, error) {
	var consent models.OAuthConsent
	err := consentKey(s.conn(ctx), userID, clientID, referenceID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&consent).Error
	if err != nil {
		return nil, translate(err)
	}
	return &consent, nil
}

// FindConsent loads the consent row for (user, client, reference).
func (s *Store) FindConsent(
	ctx context.Context,
	userID, clientID string,
	referenceID *string,
) (*models.OAuthConsent, error) {
	var consent models.OAuthConsent
	if err := consentKey(s.conn(ctx), userID, clientID, referenceID).First(&consent).Error; err != nil {
		return nil, translate(err)
	}
	return &consent, nil
}

// SaveConsent inserts or updates a consent row.
func (s *Store) SaveConsent(ctx context.Context, consent *models.OAuthConsent) error {
	return translate(s.conn(ctx).Save(consent).Error)
}

// DeleteConsent removes the consent row for (user, client, reference).
func (s *Store) DeleteConsent(
	ctx context.Context,
	userID, clientID string,
	referenceID *string,
) error {
	res := consentKey(s.conn(ctx), userID, clientID, referenceID).Delete(&models.OAuthConsent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ListConsentsByUser returns a user's consent rows, most recently updated first.
func (s *Store) ListConsentsByUser(ctx context.Context, userID string) ([]models.OAuthConsent, error) {
	var consents []models.OAuthConsent
	err := s.conn(ctx).
		Where(eq(colUserID, userID)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "updatedAt"}, Desc: true}).
		Find(&consents).Error
	return consents, err
}
