package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-authgate/oauthprovider/internal/core"
	"github.com/go-authgate/oauthprovider/internal/models"
	"github.com/go-authgate/oauthprovider/internal/store"
	"github.com/go-authgate/oauthprovider/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Refresh token values are rt_ followed by 32 random bytes.
const (
	refreshTokenPrefix = "rt_"
	refreshTokenBytes  = 32
)

// Token type hints accepted by RevokeByValue (RFC 7009).
const (
	HintAccessToken  = "access_token"
	HintRefreshToken = "refresh_token"
)

// Revocation reasons reported to metrics.
const (
	RevokeReasonAdmin    = "admin"
	RevokeReasonEndpoint = "revocation_endpoint"
)

// Default lifetimes used when neither the params nor the options set one.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// RefreshParams describes a refresh token to issue.
type RefreshParams struct {
	ClientID    string
	UserID      string
	SessionID   *string
	ReferenceID *string
	Scopes      []string
	TTL         time.Duration
}

// AccessParams describes an access token to issue. With RefreshID set the
// token is derived from that refresh token and inherits its user and session
// when they are not given.
type AccessParams struct {
	ClientID    string
	RefreshID   *string
	UserID      *string
	SessionID   *string
	ReferenceID *string
	Scopes      []string
	TTL         time.Duration
}

// PairParams describes a refresh token and an access token derived from it.
type PairParams struct {
	ClientID    string
	UserID      string
	SessionID   *string
	ReferenceID *string
	Scopes      []string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
}

// TokenPair is the result of IssuePair. Raw values are set on both rows.
type TokenPair struct {
	Access  *models.OAuthAccessToken
	Refresh *models.OAuthRefreshToken
}

// TokenClaims describes a token that passed validation.
type TokenClaims struct {
	TokenID     string
	Kind        string
	ClientID    string
	UserID      string
	SessionID   *string
	ReferenceID *string
	RefreshID   *string
	Scopes      []string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// ReapResult counts the rows removed by ReapExpired.
type ReapResult struct {
	Access  int64 `json:"access"`
	Refresh int64 `json:"refresh"`
}

// TokenServiceOptions holds the default token lifetimes.
type TokenServiceOptions struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService owns refresh and access tokens.
type TokenService struct {
	store      *store.Store
	signer     core.AccessTokenSigner
	audit      *AuditService
	metrics    core.Recorder
	logger     *zap.Logger
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(
	s *store.Store,
	signer core.AccessTokenSigner,
	opts TokenServiceOptions,
	audit *AuditService,
	m core.Recorder,
	logger *zap.Logger,
) *TokenService {
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = DefaultAccessTokenTTL
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = DefaultRefreshTokenTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenService{
		store:      s,
		signer:     signer,
		audit:      audit,
		metrics:    m,
		logger:     logger,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		now:        time.Now,
	}
}

// IssueRefreshToken creates a refresh token for a user of an enabled client.
func (s *TokenService) IssueRefreshToken(ctx context.Context, p RefreshParams) (*models.OAuthRefreshToken, error) {
	return s.issueRefresh(ctx, s.store, p)
}

// IssueAccessToken creates an access token, optionally derived from a refresh token.
func (s *TokenService) IssueAccessToken(ctx context.Context, p AccessParams) (*models.OAuthAccessToken, error) {
	return s.issueAccess(ctx, s.store, p)
}

// IssuePair creates a refresh token and a derived access token in one
// transaction. Either both rows exist afterwards or neither does.
func (s *TokenService) IssuePair(ctx context.Context, p PairParams) (*TokenPair, error) {
	var pair TokenPair
	err := s.store.RunInTransaction(ctx, func(tx *store.Store) error {
		refresh, err := s.issueRefresh(ctx, tx, RefreshParams{
			ClientID:    p.ClientID,
			UserID:      p.UserID,
			SessionID:   p.SessionID,
			ReferenceID: p.ReferenceID,
			Scopes:      p.Scopes,
			TTL:         p.RefreshTTL,
		})
		if err != nil {
			return err
		}
		access, err := s.issueAccess(ctx, tx, AccessParams{
			ClientID:    p.ClientID,
			RefreshID:   &refresh.ID,
			ReferenceID: p.ReferenceID,
			Scopes:      refresh.Scopes,
			TTL:         p.AccessTTL,
		})
		if err != nil {
			return err
		}
		pair = TokenPair{Access: access, Refresh: refresh}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

func (s *TokenService) activeClient(ctx context.Context, st *store.Store, clientID string) (*models.OAuthClient, error) {
	client, err := st.GetClientByClientID(ctx, clientID)
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

func (s *TokenService) issueRefresh(
	ctx context.Context,
	st *store.Store,
	p RefreshParams,
) (*models.OAuthRefreshToken, error) {
	start := s.now()

	client, err := s.activeClient(ctx, st, p.ClientID)
	if err != nil {
		return nil, err
	}
	scopes, err := checkScopes(p.Scopes, client.Scopes)
	if err != nil {
		return nil, err
	}

	raw, err := util.OpaqueToken(refreshTokenPrefix, refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	ttl := p.TTL
	if ttl <= 0 {
		ttl = s.refreshTTL
	}

	token := &models.OAuthRefreshToken{
		ID:          uuid.New().String(),
		Token:       util.SHA256Hex(raw),
		RawToken:    raw,
		ClientID:    client.ClientID,
		SessionID:   p.SessionID,
		UserID:      p.UserID,
		ReferenceID: p.ReferenceID,
		ExpiresAt:   start.Add(ttl),
		CreatedAt:   start,
		Scopes:      scopes,
	}
	if err := st.CreateRefreshToken(ctx, token); err != nil {
		s.metrics.RecordDatabaseQueryError("create_refresh_token")
		return nil, &StorageError{Op: "create refresh token", Err: err}
	}

	s.metrics.RecordTokenIssued(models.TokenKindRefresh, s.now().Sub(start))
	return token, nil
}

func (s *TokenService) issueAccess(
	ctx context.Context,
	st *store.Store,
	p AccessParams,
) (*models.OAuthAccessToken, error) {
	start := s.now()

	client, err := s.activeClient(ctx, st, p.ClientID)
	if err != nil {
		return nil, err
	}
	scopes, err := checkScopes(p.Scopes, client.Scopes)
	if err != nil {
		return nil, err
	}

	userID, sessionID := p.UserID, p.SessionID
	if p.RefreshID != nil {
		parent, err := st.GetRefreshTokenByID(ctx, *p.RefreshID)
		switch {
		case errors.Is(err, store.ErrRecordNotFound):
			return nil, ErrInvalidToken
		case err != nil:
			return nil, &StorageError{Op: "get refresh token", Err: err}
		case parent.ClientID != client.ClientID, parent.IsRevoked(), parent.IsExpired(start):
			return nil, ErrInvalidToken
		}
		if !models.IsSubset(scopes, parent.Scopes) {
			return nil, fmt.Errorf("%w: exceeds the refresh token grant", ErrInvalidScope)
		}
		if userID == nil {
			userID = &parent.UserID
		}
		if sessionID == nil {
			sessionID = parent.SessionID
		}
	}

	ttl := p.TTL
	if ttl <= 0 {
		ttl = s.accessTTL
	}
	id := uuid.New().String()
	subject := client.ClientID
	if userID != nil {
		subject = *userID
	}

	signed, err := s.signer.Sign(core.AccessClaims{
		TokenID:   id,
		Subject:   subject,
		ClientID:  client.ClientID,
		Scopes:    scopes,
		IssuedAt:  start,
		ExpiresAt: start.Add(ttl),
	})
	if err != nil {
		return nil, err
	}

	token := &models.OAuthAccessToken{
		ID:          id,
		Token:       util.SHA256Hex(signed),
		RawToken:    signed,
		ClientID:    client.ClientID,
		SessionID:   sessionID,
		UserID:      userID,
		ReferenceID: p.ReferenceID,
		RefreshID:   p.RefreshID,
		ExpiresAt:   start.Add(ttl),
		CreatedAt:   start,
		Scopes:      scopes,
	}
	if err := st.CreateAccessToken(ctx, token); err != nil {
		s.metrics.RecordDatabaseQueryError("create_access_token")
		return nil, &StorageError{Op: "create access token", Err: err}
	}

	s.metrics.RecordTokenIssued(models.TokenKindAccess, s.now().Sub(start))
	return token, nil
}

// Revoke revokes a token by row id. Refresh tokens keep their row with the
// first revocation time; access tokens are deleted.
func (s *TokenService) Revoke(ctx context.Context, tokenID, kind string) error {
	var err error
	switch kind {
	case models.TokenKindRefresh:
		err = s.store.RevokeRefreshToken(ctx, tokenID, s.now())
	case models.TokenKindAccess:
		err = s.store.DeleteAccessToken(ctx, tokenID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTokenKind, kind)
	}
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return ErrTokenNotFound
	case err != nil:
		s.metrics.RecordDatabaseQueryError("revoke_token")
		return &StorageError{Op: "revoke token", Err: err}
	}

	s.metrics.RecordTokenRevoked(kind, RevokeReasonAdmin)
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventTokenRevoked,
		ResourceType: models.ResourceToken,
		ResourceID:   tokenID,
		Action:       "revoke " + kind + " token",
		Details:      models.AuditDetails{"kind": kind},
		Success:      true,
	})
	return nil
}

// RevokeByValue revokes the token whose value is given, looking it up in the
// order suggested by hint. When clientID is set, tokens of other clients are
// left alone. Unknown tokens are not an error.
func (s *TokenService) RevokeByValue(ctx context.Context, clientID, value, hint string) error {
	hash := util.SHA256Hex(value)

	lookups := []func() (bool, error){
		func() (bool, error) { return s.revokeAccessByHash(ctx, clientID, hash) },
		func() (bool, error) { return s.revokeRefreshByHash(ctx, clientID, hash) },
	}
	if hint == HintRefreshToken {
		lookups[0], lookups[1] = lookups[1], lookups[0]
	}
	for _, lookup := range lookups {
		found, err := lookup()
		if err != nil {
			return err
		}
		if found {
			return nil
		}
	}
	return nil
}

func (s *TokenService) revokeAccessByHash(ctx context.Context, clientID, hash string) (bool, error) {
	token, err := s.store.GetAccessTokenByHash(ctx, hash)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return false, nil
	case err != nil:
		return false, &StorageError{Op: "get access token", Err: err}
	case clientID != "" && token.ClientID != clientID:
		return true, nil
	}
	if err := s.store.DeleteAccessToken(ctx, token.ID); err != nil &&
		!errors.Is(err, store.ErrRecordNotFound) {
		return false, &StorageError{Op: "delete access token", Err: err}
	}
	s.recordEndpointRevocation(ctx, models.TokenKindAccess, token.ID)
	return true, nil
}

func (s *TokenService) revokeRefreshByHash(ctx context.Context, clientID, hash string) (bool, error) {
	token, err := s.store.GetRefreshTokenByHash(ctx, hash)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return false, nil
	case err != nil:
		return false, &StorageError{Op: "get refresh token", Err: err}
	case clientID != "" && token.ClientID != clientID:
		return true, nil
	}
	if err := s.store.RevokeRefreshToken(ctx, token.ID, s.now()); err != nil {
		return false, &StorageError{Op: "revoke refresh token", Err: err}
	}
	s.recordEndpointRevocation(ctx, models.TokenKindRefresh, token.ID)
	return true, nil
}

func (s *TokenService) recordEndpointRevocation(ctx context.Context, kind, tokenID string) {
	s.metrics.RecordTokenRevoked(kind, RevokeReasonEndpoint)
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventTokenRevoked,
		ResourceType: models.ResourceToken,
		ResourceID:   tokenID,
		Action:       "revoke " + kind + " token by value",
		Details:      models.AuditDetails{"kind": kind},
		Success:      true,
	})
}

// Validate checks a token value of the given kind. Every failure, including
// storage failures, is reported as ErrInvalidToken.
func (s *TokenService) Validate(ctx context.Context, value, kind string) (*TokenClaims, error) {
	start := s.now()

	var (
		claims *TokenClaims
		err    error
	)
	switch kind {
	case models.TokenKindAccess:
		claims, err = s.validateAccess(ctx, value, start)
	case models.TokenKindRefresh:
		claims, err = s.validateRefresh(ctx, value, start)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownTokenKind, kind)
	}

	result := "valid"
	if err != nil {
		result = "invalid"
		s.logger.Debug("token validation failed", zap.String("kind", kind), zap.Error(err))
	}
	s.metrics.RecordTokenValidation(kind, result, s.now().Sub(start))
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) validateAccess(ctx context.Context, value string, now time.Time) (*TokenClaims, error) {
	jwtClaims, err := s.signer.Verify(value)
	if err != nil {
		return nil, err
	}

	token, err := s.store.GetAccessTokenByHash(ctx, util.SHA256Hex(value))
	if err != nil {
		return nil, err
	}
	if token.ID != jwtClaims.TokenID {
		return nil, errors.New("token id mismatch")
	}
	if token.IsExpired(now) {
		return nil, errors.New("token expired")
	}
	if token.RefreshID != nil {
		parent, err := s.store.GetRefreshTokenByID(ctx, *token.RefreshID)
		if err != nil {
			return nil, err
		}
		if parent.IsRevoked() {
			return nil, errors.New("parent refresh token revoked")
		}
	}
	if err := s.checkClientEnabled(ctx, token.ClientID); err != nil {
		return nil, err
	}

	claims := &TokenClaims{
		TokenID:     token.ID,
		Kind:        models.TokenKindAccess,
		ClientID:    token.ClientID,
		SessionID:   token.SessionID,
		ReferenceID: token.ReferenceID,
		RefreshID:   token.RefreshID,
		Scopes:      token.Scopes,
		IssuedAt:    token.CreatedAt,
		ExpiresAt:   token.ExpiresAt,
	}
	if token.UserID != nil {
		claims.UserID = *token.UserID
	}
	return claims, nil
}

func (s *TokenService) validateRefresh(ctx context.Context, value string, now time.Time) (*TokenClaims, error) {
	token, err := s.store.GetRefreshTokenByHash(ctx, util.SHA256Hex(value))
	if err != nil {
		return nil, err
	}
	if token.IsRevoked() {
		return nil, errors.New("token revoked")
	}
	if token.IsExpired(now) {
		return nil, errors.New("token expired")
	}
	if err := s.checkClientEnabled(ctx, token.ClientID); err != nil {
		return nil, err
	}

	return &TokenClaims{
		TokenID:     token.ID,
		Kind:        models.TokenKindRefresh,
		ClientID:    token.ClientID,
		UserID:      token.UserID,
		SessionID:   token.SessionID,
		ReferenceID: token.ReferenceID,
		Scopes:      token.Scopes,
		IssuedAt:    token.CreatedAt,
		ExpiresAt:   token.ExpiresAt,
	}, nil
}

func (s *TokenService) checkClientEnabled(ctx context.Context, clientID string) error {
	client, err := s.store.GetClientByClientID(ctx, clientID)
	if err != nil {
		return err
	}
	if client.Disabled {
		return errors.New("client disabled")
	}
	return nil
}

// Introspect validates value as an access token or a refresh token, trying
// the hinted kind first.
func (s *TokenService) Introspect(ctx context.Context, value, hint string) (*TokenClaims, error) {
	kinds := []string{models.TokenKindAccess, models.TokenKindRefresh}
	if hint == HintRefreshToken {
		kinds[0], kinds[1] = kinds[1], kinds[0]
	}
	for _, kind := range kinds {
		if claims, err := s.Validate(ctx, value, kind); err == nil {
			return claims, nil
		}
	}
	return nil, ErrInvalidToken
}

// ReapExpired deletes expired access and refresh tokens, and access tokens
// derived from expired refresh tokens.
func (s *TokenService) ReapExpired(ctx context.Context, now time.Time) (ReapResult, error) {
	access, refresh, err := s.store.DeleteExpiredTokens(ctx, now)
	if err != nil {
		s.metrics.RecordDatabaseQueryError("reap_tokens")
		return ReapResult{}, &StorageError{Op: "reap expired tokens", Err: err}
	}

	s.metrics.RecordTokensReaped(access, refresh)
	s.logger.Info("expired tokens reaped",
		zap.Int64("access", access),
		zap.Int64("refresh", refresh),
	)
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventTokensReaped,
		ResourceType: models.ResourceToken,
		Action:       "reap expired tokens",
		Details:      models.AuditDetails{"access": access, "refresh": refresh},
		Success:      true,
	})
	return ReapResult{Access: access, Refresh: refresh}, nil
}
