package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-authgate/oauthprovider/internal/core"
	"github.com/go-authgate/oauthprovider/internal/models"
	"github.com/go-authgate/oauthprovider/internal/scopemeta"
	"github.com/go-authgate/oauthprovider/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultClientDisplayName is shown on the consent page for unnamed clients.
const DefaultClientDisplayName = "The Application"

// Scope resolution tiers reported to metrics.
const (
	tierMetadata   = "metadata"
	tierDictionary = "dictionary"
	tierRaw        = "raw"
)

// ScopeDescription is what the consent page shows for one scope.
type ScopeDescription struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// ConsentClient is the client summary shown on the consent page.
type ConsentClient struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	ClientURI  string `json:"client_uri,omitempty"`
	LogoURI    string `json:"logo_uri,omitempty"`
	TOSURI     string `json:"tos_uri,omitempty"`
	PolicyURI  string `json:"policy_uri,omitempty"`
}

// ConsentPage is the data behind the consent screen.
type ConsentPage struct {
	Client ConsentClient      `json:"client"`
	Scopes []ScopeDescription `json:"scopes"`
}

// ConsentParams describes a grant to record.
type ConsentParams struct {
	UserID      string
	ClientID    string
	Scopes      []string
	ReferenceID *string
}

// ConsentView is a user's grant as returned by ListConsents.
type ConsentView struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id"`
	Scopes       []string  `json:"scopes"`
	ReferenceID  *string   `json:"reference_id,omitempty"`
	ConsentGiven bool      `json:"consent_given"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ConsentService is the consent ledger.
type ConsentService struct {
	store    *store.Store
	metadata core.ScopeMetadataSource
	dict     core.Dictionary
	audit    *AuditService
	metrics  core.Recorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewConsentService creates the ledger. metadata and dict may be nil, in
// which case resolution falls through to the next tier.
func NewConsentService(
	s *store.Store,
	metadata core.ScopeMetadataSource,
	dict core.Dictionary,
	audit *AuditService,
	m core.Recorder,
	logger *zap.Logger,
) *ConsentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsentService{
		store:    s,
		metadata: metadata,
		dict:     dict,
		audit:    audit,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// ResolveScopeDescriptions returns one description per distinct scope, in
// input order: curated metadata first, then the localized dictionary, then
// the raw scope name. It never fails.
func (s *ConsentService) ResolveScopeDescriptions(
	ctx context.Context,
	scopes []string,
	locale string,
) []ScopeDescription {
	distinct := uniqueScopes(scopes)

	var curated map[string]core.ScopeMetadata
	if s.metadata != nil && len(distinct) > 0 {
		found, err := s.metadata.Lookup(ctx, distinct)
		if err != nil {
			s.metrics.RecordScopeSourceError(s.metadata.Name())
			s.logger.Warn("scope metadata lookup failed",
				zap.String("source", s.metadata.Name()),
				zap.Error(err),
			)
		}
		curated = found
	}

	out := make([]ScopeDescription, 0, len(distinct))
	for _, scope := range distinct {
		if meta, ok := curated[scope]; ok {
			s.metrics.RecordScopeResolution(tierMetadata)
			out = append(out, ScopeDescription{
				Name:        scope,
				DisplayName: orDefault(meta.DisplayName, scope),
				Description: orDefault(meta.Description, scope),
			})
			continue
		}

		if s.dict != nil {
			if text, ok := s.dict.Lookup(locale, scopemeta.ScopeKey(scope)); ok {
				s.metrics.RecordScopeResolution(tierDictionary)
				out = append(out, ScopeDescription{Name: scope, DisplayName: scope, Description: text})
				continue
			}
		}

		s.metrics.RecordScopeResolution(tierRaw)
		out = append(out, ScopeDescription{Name: scope, DisplayName: scope, Description: scope})
	}
	return out
}

// ConsentPage loads the consent screen data for a client and a space
// separated scope string. Unknown or disabled clients yield ErrClientNotFound.
func (s *ConsentService) ConsentPage(
	ctx context.Context,
	clientID, scope, locale string,
) (*ConsentPage, error) {
	client, err := s.activeClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	return &ConsentPage{
		Client: ConsentClient{
			ClientID:   client.ClientID,
			ClientName: orDefault(client.Name, DefaultClientDisplayName),
			ClientURI:  client.URI,
			LogoURI:    client.Icon,
			TOSURI:     client.TOS,
			PolicyURI:  client.Policy,
		},
		Scopes: s.ResolveScopeDescriptions(ctx, ParseScope(scope), locale),
	}, nil
}

// RecordConsent upserts the grant for (user, client, reference). Scopes are
// merged into an existing grant and never removed.
func (s *ConsentService) RecordConsent(ctx context.Context, p ConsentParams) (*models.OAuthConsent, error) {
	client, err := s.activeClient(ctx, p.ClientID)
	if err != nil {
		return nil, err
	}
	scopes, err := checkScopes(p.Scopes, client.Scopes)
	if err != nil {
		return nil, err
	}

	// Two first-time grants can both miss the row lock and race to insert;
	// the unique consent key rejects the loser, which retries as a merge.
	var consent *models.OAuthConsent
	for attempt := 0; attempt < 2; attempt++ {
		consent, err = s.upsertConsent(ctx, p, scopes)
		if !errors.Is(err, store.ErrDuplicateKey) {
			break
		}
	}
	if err != nil {
		s.metrics.RecordDatabaseQueryError("save_consent")
		return nil, &StorageError{Op: "record consent", Err: err}
	}

	s.metrics.RecordConsent("granted")
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventConsentGiven,
		ActorUserID:  p.UserID,
		ResourceType: models.ResourceConsent,
		ResourceID:   consent.ID,
		Action:       "grant consent",
		Details:      models.AuditDetails{"client_id": p.ClientID, "scopes": scopeString(consent.Scopes)},
		Success:      true,
	})
	return consent, nil
}

func (s *ConsentService) upsertConsent(
	ctx context.Context,
	p ConsentParams,
	scopes []string,
) (*models.OAuthConsent, error) {
	var consent *models.OAuthConsent
	err := s.store.RunInTransaction(ctx, func(tx *store.Store) error {
		now := s.now()
		existing, err := tx.FindConsentForUpdate(ctx, p.UserID, p.ClientID, p.ReferenceID)
		switch {
		case errors.Is(err, store.ErrRecordNotFound):
			consent = &models.OAuthConsent{
				ID:           uuid.New().String(),
				ClientID:     p.ClientID,
				UserID:       p.UserID,
				Scopes:       scopes,
				ReferenceID:  p.ReferenceID,
				ConsentGiven: true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
		case err != nil:
			return err
		default:
			existing.Scopes = models.MergeScopes(existing.Scopes, scopes)
			existing.ConsentGiven = true
			existing.UpdatedAt = now
			consent = existing
		}
		return tx.SaveConsent(ctx, consent)
	})
	return consent, err
}

// HasConsent reports whether the user already granted every required scope,
// or the client skips consent altogether.
func (s *ConsentService) HasConsent(
	ctx context.Context,
	userID, clientID string,
	required []string,
	referenceID *string,
) (bool, error) {
	client, err := s.activeClient(ctx, clientID)
	if err != nil {
		return false, err
	}
	if client.SkipConsent {
		return true, nil
	}

	consent, err := s.store.FindConsent(ctx, userID, clientID, referenceID)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return false, nil
	case err != nil:
		s.metrics.RecordDatabaseQueryError("find_consent")
		return false, &StorageError{Op: "find consent", Err: err}
	}
	return consent.Covers(uniqueScopes(required)), nil
}

// RevokeConsent deletes the grant for (user, client, reference).
func (s *ConsentService) RevokeConsent(ctx context.Context, userID, clientID string, referenceID *string) error {
	err := s.store.DeleteConsent(ctx, userID, clientID, referenceID)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return ErrConsentNotFound
	case err != nil:
		s.metrics.RecordDatabaseQueryError("delete_consent")
		return &StorageError{Op: "revoke consent", Err: err}
	}

	s.metrics.RecordConsent("revoked")
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventConsentRevoke,
		ActorUserID:  userID,
		ResourceType: models.ResourceConsent,
		ResourceID:   clientID,
		Action:       "revoke consent",
		Details:      models.AuditDetails{"client_id": clientID},
		Success:      true,
	})
	return nil
}

// ListConsents returns a user's grants, most recently updated first.
func (s *ConsentService) ListConsents(ctx context.Context, userID string) ([]ConsentView, error) {
	consents, err := s.store.ListConsentsByUser(ctx, userID)
	if err != nil {
		s.metrics.RecordDatabaseQueryError("list_consents")
		return nil, &StorageError{Op: "list consents", Err: err}
	}
	views := make([]ConsentView, 0, len(consents))
	for _, c := range consents {
		views = append(views, ConsentView{
			ID:           c.ID,
			ClientID:     c.ClientID,
			Scopes:       c.Scopes,
			ReferenceID:  c.ReferenceID,
			ConsentGiven: c.ConsentGiven,
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		})
	}
	return views, nil
}

func (s *ConsentService) activeClient(ctx context.Context, clientID string) (*models.OAuthClient, error) {
	client, err := s.store.GetClientByClientID(ctx, clientID)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return nil, ErrClientNotFound
	case err != nil:
		s.metrics.RecordDatabaseQueryError("get_client")
		return nil, &StorageError{Op: "get client", Err: err}
	case client.Disabled:
		return nil, ErrClientNotFound
	}
	return client, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
