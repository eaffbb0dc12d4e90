package store

import (
	"context"

	"github.com/go-authgate/oauthprovider/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	colID        = clause.Column{Name: "id"}
	colClientID  = clause.Column{Name: "clientId"}
	colUserID    = clause.Column{Name: "userId"}
	colSessionID = clause.Column{Name: "sessionId"}
	colRefreshID = clause.Column{Name: "refreshId"}
	colRefID     = clause.Column{Name: "referenceId"}
	colExpiresAt = clause.Column{Name: "expiresAt"}
	colCreatedAt = clause.Column{Name: "createdAt"}
	colRevoked   = clause.Column{Name: "revoked"}
	colName      = clause.Column{Name: "name"}
)

func eq(col clause.Column, value any) clause.Eq {
	return clause.Eq{Column: col, Value: value}
}

// CreateClient inserts a client. A clientId collision yields ErrDuplicateKey.
func (s *Store) CreateClient(ctx context.Context, client *models.OAuthClient) error {
	return translate(s.conn(ctx).Create(client).Error)
}

// GetClientByClientID loads a client by its public identifier.
func (s *Store) GetClientByClientID(ctx context.Context, clientID string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	err := s.conn(ctx).Where(eq(colClientID, clientID)).First(&client).Error
	if err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

// ListClients returns one page of clients matching params.Search on name or
// clientId, newest first, with the total match count. The count is a separate
// statement and may drift from the page under concurrent writes.
func (s *Store) ListClients(
	ctx context.Context,
	params ListParams,
) ([]models.OAuthClient, int64, error) {
	filtered := func() *gorm.DB {
		q := s.conn(ctx).Model(&models.OAuthClient{})
		if params.Search != "" {
			pattern := likePattern(params.Search)
			q = q.Where(
				gorm.Expr("LOWER(?) LIKE ? ESCAPE '\\'", colName, pattern),
			).Or(
				gorm.Expr("LOWER(?) LIKE ? ESCAPE '\\'", colClientID, pattern),
			)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clients []models.OAuthClient
	err := filtered().
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: colCreatedAt, Desc: true},
			{Column: colID, Desc: true},
		}}).
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&clients).Error
	if err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

// UpdateClient persists every column of client.
func (s *Store) UpdateClient(ctx context.Context, client *models.OAuthClient) error {
	return translate(s.conn(ctx).Save(client).Error)
}

// DeleteClient removes a client together with its access tokens, refresh
// tokens and consents in one transaction. SQLite connections opened without
// foreign_keys=ON would otherwise leave orphans behind.
func (s *Store) DeleteClient(ctx context.Context, clientID string) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		byClient := eq(colClientID, clientID)
		if err := tx.Where(byClient).Delete(&models.OAuthAccessToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where(byClient).Delete(&models.OAuthRefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where(byClient).Delete(&models.OAuthConsent{}).Error; err != nil {
			return err
		}
		res := tx.Where(byClient).Delete(&models.OAuthClient{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}
