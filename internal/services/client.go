package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-authgate/oauthprovider/internal/core"
	"github.com/go-authgate/oauthprovider/internal/models"
	"github.com/go-authgate/oauthprovider/internal/redirecturi"
	"github.com/go-authgate/oauthprovider/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Grant and response types accepted at registration.
const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeRefreshToken      = "refresh_token"
	GrantTypeClientCredentials = "client_credentials"

	ResponseTypeCode = "code"
)

// maxClientIDAttempts bounds regeneration of colliding generated client ids.
const maxClientIDAttempts = 3

var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)

// ClientPayload is a registration request in RFC 7591 field naming.
type ClientPayload struct {
	ClientID                string           `json:"client_id,omitempty"                  validate:"omitempty,min=3,max=128,client_id"`
	ClientName              string           `json:"client_name"                          validate:"required,max=255"`
	RedirectURIs            redirecturi.List `json:"redirect_uris"`
	PostLogoutRedirectURIs  redirecturi.List `json:"post_logout_redirect_uris,omitempty"`
	Scope                   string           `json:"scope,omitempty"`
	GrantTypes              []string         `json:"grant_types,omitempty"                validate:"omitempty,dive,oneof=authorization_code refresh_token client_credentials"`
	ResponseTypes           []string         `json:"response_types,omitempty"             validate:"omitempty,dive,oneof=code"`
	TokenEndpointAuthMethod string           `json:"token_endpoint_auth_method,omitempty" validate:"omitempty,oneof=none client_secret_basic client_secret_post"`
	Type                    string           `json:"type,omitempty"                       validate:"omitempty,oneof=public confidential"`
	ClientURI               string           `json:"client_uri,omitempty"                 validate:"omitempty,url,max=2048"`
	LogoURI                 string           `json:"logo_uri,omitempty"                   validate:"omitempty,url,max=2048"`
	Contacts                []string         `json:"contacts,omitempty"                   validate:"omitempty,dive,email"`
	TOSURI                  string           `json:"tos_uri,omitempty"                    validate:"omitempty,url,max=2048"`
	PolicyURI               string           `json:"policy_uri,omitempty"                 validate:"omitempty,url,max=2048"`
	SoftwareID              string           `json:"software_id,omitempty"                validate:"max=255"`
	SoftwareVersion         string           `json:"software_version,omitempty"           validate:"max=255"`
	SoftwareStatement       string           `json:"software_statement,omitempty"`
	SkipConsent             bool             `json:"skip_consent,omitempty"`
	EnableEndSession        bool             `json:"enable_end_session,omitempty"`
	Metadata                map[string]any   `json:"metadata,omitempty"`
	ReferenceID             *string          `json:"reference_id,omitempty"               validate:"omitempty,max=255"`
}

// ClientPatch is a partial update. Nil fields are left unchanged.
type ClientPatch struct {
	ClientID               *string          `json:"client_id,omitempty"`
	ClientName             *string          `json:"client_name,omitempty"                validate:"omitempty,min=1,max=255"`
	RedirectURIs           redirecturi.List `json:"redirect_uris,omitempty"`
	PostLogoutRedirectURIs redirecturi.List `json:"post_logout_redirect_uris,omitempty"`
	Scope                  *string          `json:"scope,omitempty"`
	GrantTypes             []string         `json:"grant_types,omitempty"                validate:"omitempty,dive,oneof=authorization_code refresh_token client_credentials"`
	ClientURI              *string          `json:"client_uri,omitempty"                 validate:"omitempty,url,max=2048"`
	LogoURI                *string          `json:"logo_uri,omitempty"                   validate:"omitempty,url,max=2048"`
	Contacts               []string         `json:"contacts,omitempty"                   validate:"omitempty,dive,email"`
	TOSURI                 *string          `json:"tos_uri,omitempty"                    validate:"omitempty,url,max=2048"`
	PolicyURI              *string          `json:"policy_uri,omitempty"                 validate:"omitempty,url,max=2048"`
	Disabled               *bool            `json:"disabled,omitempty"`
	SkipConsent            *bool            `json:"skip_consent,omitempty"`
	EnableEndSession       *bool            `json:"enable_end_session,omitempty"`
	Metadata               map[string]any   `json:"metadata,omitempty"`
}

// ClientView is the admin representation of a client. It never carries the secret hash.
type ClientView struct {
	ID                      string         `json:"id"`
	ClientID                string         `json:"client_id"`
	ClientName              string         `json:"client_name"`
	RedirectURIs            []string       `json:"redirect_uris"`
	PostLogoutRedirectURIs  []string       `json:"post_logout_redirect_uris,omitempty"`
	Scope                   string         `json:"scope"`
	GrantTypes              []string       `json:"grant_types"`
	ResponseTypes           []string       `json:"response_types"`
	TokenEndpointAuthMethod string         `json:"token_endpoint_auth_method"`
	Type                    string         `json:"type"`
	Public                  bool           `json:"public"`
	Disabled                bool           `json:"disabled"`
	SkipConsent             bool           `json:"skip_consent"`
	EnableEndSession        bool           `json:"enable_end_session"`
	ClientURI               string         `json:"client_uri,omitempty"`
	LogoURI                 string         `json:"logo_uri,omitempty"`
	Contacts                []string       `json:"contacts,omitempty"`
	TOSURI                  string         `json:"tos_uri,omitempty"`
	PolicyURI               string         `json:"policy_uri,omitempty"`
	SoftwareID              string         `json:"software_id,omitempty"`
	SoftwareVersion         string         `json:"software_version,omitempty"`
	SoftwareStatement       string         `json:"software_statement,omitempty"`
	Metadata                map[string]any `json:"metadata,omitempty"`
	ReferenceID             *string        `json:"reference_id,omitempty"`
	UserID                  *string        `json:"user_id,omitempty"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
}

// ClientResponse is returned by operations that mint a secret. ClientSecret is
// populated only in that response.
type ClientResponse struct {
	ClientView
	ClientSecret string `json:"client_secret,omitempty"`
}

// PublicClientView is safe to show to anonymous users.
type PublicClientView struct {
	ClientID   string   `json:"client_id"`
	ClientName string   `json:"client_name"`
	ClientURI  string   `json:"client_uri,omitempty"`
	LogoURI    string   `json:"logo_uri,omitempty"`
	TOSURI     string   `json:"tos_uri,omitempty"`
	PolicyURI  string   `json:"policy_uri,omitempty"`
	Contacts   []string `json:"contacts,omitempty"`
}

// ListFilter selects a page of clients.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}

// ClientPage is one page of the admin client listing.
type ClientPage struct {
	Clients []ClientView `json:"clients"`
	Total   int64        `json:"total"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
}

// ClientServiceOptions configures scope policy for new clients.
type ClientServiceOptions struct {
	// SupportedScopes limits the scopes a client may request. Empty allows any.
	SupportedScopes []string
	// DefaultScopes are granted when a registration omits scope.
	DefaultScopes []string
}

// ClientService is the client registry.
type ClientService struct {
	store       *store.Store
	opts        ClientServiceOptions
	validate    *validator.Validate
	audit       *AuditService
	metrics     core.Recorder
	logger      *zap.Logger
	newClientID func() string
	now         func() time.Time
}

func NewClientService(
	s *store.Store,
	opts ClientServiceOptions,
	audit *AuditService,
	m core.Recorder,
	logger *zap.Logger,
) *ClientService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientService{
		store:       s,
		opts:        opts,
		validate:    newValidator(),
		audit:       audit,
		metrics:     m,
		logger:      logger,
		newClientID: uuid.NewString,
		now:         time.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("client_id", func(fl validator.FieldLevel) bool {
		return clientIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// structErrors runs the struct validator and renders every field error.
func (s *ClientService) structErrors(payload any) []string {
	err := s.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldErrorMessage(fe))
	}
	return msgs
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case "email":
		return field + " must be a valid email address"
	case "client_id":
		return field + " may only contain letters, digits and . _ ~ -"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func (s *ClientService) checkRedirects(field string, raw []string, required bool) ([]string, []string) {
	uris := redirecturi.Normalize(raw)
	if len(uris) == 0 && !required {
		return uris, nil
	}
	res := redirecturi.Validate(uris)
	if res.Valid {
		return uris, nil
	}
	errs := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		errs = append(errs, field+": "+e)
	}
	return uris, errs
}

func (s *ClientService) checkClientScopes(scope string) ([]string, []string) {
	scopes := ParseScope(scope)
	if len(scopes) == 0 {
		scopes = slices.Clone(s.opts.DefaultScopes)
	}
	if len(scopes) == 0 {
		return nil, []string{"scope is required"}
	}
	if len(s.opts.SupportedScopes) == 0 {
		return scopes, nil
	}
	var errs []string
	for _, sc := range scopes {
		if !slices.Contains(s.opts.SupportedScopes, sc) {
			errs = append(errs, fmt.Sprintf("scope: %q is not supported", sc))
		}
	}
	return scopes, errs
}

// resolveClientType reconciles type and token_endpoint_auth_method.
func resolveClientType(clientType, authMethod string) (string, string, []string) {
	if clientType == "" {
		clientType = models.ClientTypeConfidential
		if authMethod == models.AuthMethodNone {
			clientType = models.ClientTypePublic
		}
	}
	if authMethod == "" {
		authMethod = models.AuthMethodClientSecretBasic
		if clientType == models.ClientTypePublic {
			authMethod = models.AuthMethodNone
		}
	}

	switch {
	case clientType == models.ClientTypePublic && authMethod != models.AuthMethodNone:
		return "", "", []string{"token_endpoint_auth_method must be none for public clients"}
	case clientType == models.ClientTypeConfidential && authMethod == models.AuthMethodNone:
		return "", "", []string{"token_endpoint_auth_method none requires a public client"}
	}
	return clientType, authMethod, nil
}

func (s *ClientService) buildClient(payload ClientPayload) (*models.OAuthClient, []string) {
	errs := s.structErrors(payload)

	redirects, redirectErrs := s.checkRedirects("redirect_uris", payload.RedirectURIs, true)
	errs = append(errs, redirectErrs...)
	postLogout, postLogoutErrs := s.checkRedirects(
		"post_logout_redirect_uris", payload.PostLogoutRedirectURIs, false,
	)
	errs = append(errs, postLogoutErrs...)

	scopes, scopeErrs := s.checkClientScopes(payload.Scope)
	errs = append(errs, scopeErrs...)

	clientType, authMethod, typeErrs := resolveClientType(payload.Type, payload.TokenEndpointAuthMethod)
	errs = append(errs, typeErrs...)

	grantTypes := uniqueScopes(payload.GrantTypes)
	if len(grantTypes) == 0 {
		grantTypes = []string{GrantTypeAuthorizationCode}
	}
	if clientType == models.ClientTypePublic && slices.Contains(grantTypes, GrantTypeClientCredentials) {
		errs = append(errs, "grant_types: client_credentials requires a confidential client")
	}
	responseTypes := uniqueScopes(payload.ResponseTypes)
	if len(responseTypes) == 0 {
		responseTypes = []string{ResponseTypeCode}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &models.OAuthClient{
		ClientID:                payload.ClientID,
		Name:                    strings.TrimSpace(payload.ClientName),
		RedirectURIs:            redirects,
		PostLogoutRedirectURIs:  postLogout,
		Scopes:                  scopes,
		GrantTypes:              grantTypes,
		ResponseTypes:           responseTypes,
		TokenEndpointAuthMethod: authMethod,
		Type:                    clientType,
		Public:                  clientType == models.ClientTypePublic,
		SkipConsent:             payload.SkipConsent,
		EnableEndSession:        payload.EnableEndSession,
		URI:                     payload.ClientURI,
		Icon:                    payload.LogoURI,
		Contacts:                payload.Contacts,
		TOS:                     payload.TOSURI,
		Policy:                  payload.PolicyURI,
		SoftwareID:              payload.SoftwareID,
		SoftwareVersion:         payload.SoftwareVersion,
		SoftwareStatement:       payload.SoftwareStatement,
		Metadata:                payload.Metadata,
		ReferenceID:             payload.ReferenceID,
	}, nil
}

// Register validates and persists a new client. The plaintext secret of a
// confidential client is returned in the response and nowhere else.
func (s *ClientService) Register(
	ctx context.Context,
	decision core.Decision,
	payload ClientPayload,
) (*ClientResponse, error) {
	if !decision.Allowed {
		return nil, ErrUnauthorized
	}

	client, errs := s.buildClient(payload)
	if len(errs) > 0 {
		s.metrics.RecordClientRegistered(false)
		return nil, &ValidationError{Errors: errs}
	}
	if decision.UserID != "" {
		owner := decision.UserID
		client.UserID = &owner
	}

	var secret string
	if !client.IsPublic() {
		var err error
		if secret, err = client.GenerateClientSecret(ctx); err != nil {
			s.metrics.RecordClientRegistered(false)
			return nil, fmt.Errorf("generate client secret: %w", err)
		}
	}

	generated := payload.ClientID == ""
	now := s.now()
	for attempt := 1; ; attempt++ {
		client.ID = uuid.New().String()
		if generated {
			client.ClientID = s.newClientID()
		}
		client.CreatedAt = now
		client.UpdatedAt = now

		err := s.store.CreateClient(ctx, client)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrDuplicateKey) {
			if generated && attempt < maxClientIDAttempts {
				s.logger.Warn("generated client_id collided, retrying", zap.Int("attempt", attempt))
				continue
			}
			s.metrics.RecordClientRegistered(false)
			return nil, ErrDuplicateClientID
		}
		s.metrics.RecordClientRegistered(false)
		s.metrics.RecordDatabaseQueryError("create_client")
		s.logger.Error("failed to create client", zap.Error(err))
		return nil, &StorageError{Op: "create client", Err: err}
	}

	s.metrics.RecordClientRegistered(true)
	s.logger.Info("client registered",
		zap.String("client_id", client.ClientID),
		zap.String("type", client.Type),
		zap.Strings("redirect_uris", sanitizeURIs(client.RedirectURIs)),
	)
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventClientCreated,
		ActorUserID:  decision.UserID,
		ResourceType: models.ResourceClient,
		ResourceID:   client.ClientID,
		Action:       "register client",
		Details: models.AuditDetails{
			"client_name": client.Name,
			"type":        client.Type,
			"scopes":      scopeString(client.Scopes),
		},
		Success: true,
	})

	return &ClientResponse{ClientView: NewClientView(client), ClientSecret: secret}, nil
}

// GetPublic returns the anonymous view of an enabled client.
func (s *ClientService) GetPublic(ctx context.Context, clientID string) (*PublicClientView, error) {
	client, err := s.loadClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.Disabled {
		return nil, ErrClientNotFound
	}
	view := NewPublicClientView(client)
	return &view, nil
}

// List returns a page of clients for the admin listing.
func (s *ClientService) List(ctx context.Context, decision core.Decision, filter ListFilter) (*ClientPage, error) {
	if !decision.Allowed {
		return nil, ErrUnauthorized
	}

	params := store.NewListParams(strings.TrimSpace(filter.Search), filter.Limit, filter.Offset)
	clients, total, err := s.store.ListClients(ctx, params)
	if err != nil {
		s.metrics.RecordDatabaseQueryError("list_clients")
		return nil, &StorageError{Op: "list clients", Err: err}
	}

	views := make([]ClientView, 0, len(clients))
	for i := range clients {
		views = append(views, NewClientView(&clients[i]))
	}
	return &ClientPage{Clients: views, Total: total, Limit: params.Limit, Offset: params.Offset}, nil
}

// Get returns the admin view of a client.
func (s *ClientService) Get(ctx context.Context, decision core.Decision, clientID string) (*ClientView, error) {
	if !decision.Allowed {
		return nil, ErrUnauthorized
	}
	client, err := s.loadClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	view := NewClientView(client)
	return &view, nil
}

// Update applies patch to a client. client_id can never change.
func (s *ClientService) Update(
	ctx context.Context,
	decision core.Decision,
	clientID string,
	patch ClientPatch,
) (*ClientView, error) {
	if !decision.Allowed {
		return nil, ErrUnauthorized
	}

	client, err := s.loadClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	errs := s.structErrors(patch)
	if patch.ClientID != nil && *patch.ClientID != client.ClientID {
		errs = append(errs, "client_id cannot be changed")
	}
	if patch.RedirectURIs != nil {
		uris, redirectErrs := s.checkRedirects("redirect_uris", patch.RedirectURIs, true)
		errs = append(errs, redirectErrs...)
		client.RedirectURIs = uris
	}
	if patch.PostLogoutRedirectURIs != nil {
		uris, redirectErrs := s.checkRedirects(
			"post_logout_redirect_uris", patch.PostLogoutRedirectURIs, false,
		)
		errs = append(errs, redirectErrs...)
		client.PostLogoutRedirectURIs = uris
	}
	if patch.Scope != nil {
		scopes, scopeErrs := s.checkClientScopes(*patch.Scope)
		errs = append(errs, scopeErrs...)
		client.Scopes = scopes
	}
	if patch.GrantTypes != nil {
		grantTypes := uniqueScopes(patch.GrantTypes)
		if client.IsPublic() && slices.Contains(grantTypes, GrantTypeClientCredentials) {
			errs = append(errs, "grant_types: client_credentials requires a confidential client")
		}
		client.GrantTypes = grantTypes
	}
	if len(errs) > 0 {
		s.metrics.RecordClientOperation("update", false)
		return nil, &ValidationError{Errors: errs}
	}

	if patch.ClientName != nil {
		client.Name = strings.TrimSpace(*patch.ClientName)
	}
	if patch.ClientURI != nil {
		client.URI = *patch.ClientURI
	}
	if patch.LogoURI != nil {
		client.Icon = *patch.LogoURI
	}
	if patch.TOSURI != nil {
		client.TOS = *patch.TOSURI
	}
	if patch.PolicyURI != nil {
		client.Policy = *patch.PolicyURI
	}
	if patch.Contacts != nil {
		client.Contacts = patch.Contacts
	}
	if patch.Disabled != nil {
		client.Disabled = *patch.Disabled
	}
	if patch.SkipConsent != nil {
		client.SkipConsent = *patch.SkipConsent
	}
	if patch.EnableEndSession != nil {
		client.EnableEndSession = *patch.EnableEndSession
	}
	if patch.Metadata != nil {
		client.Metadata = patch.Metadata
	}
	client.UpdatedAt = s.now()

	if err := s.store.UpdateClient(ctx, client); err != nil {
		s.metrics.RecordClientOperation("update", false)
		s.metrics.RecordDatabaseQueryError("update_client")
		return nil, &StorageError{Op: "update client", Err: err}
	}

	s.metrics.RecordClientOperation("update", true)
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventClientUpdated,
		ActorUserID:  decision.UserID,
		ResourceType: models.ResourceClient,
		ResourceID:   client.ClientID,
		Action:       "update client",
		Details:      models.AuditDetails{"disabled": client.Disabled, "skip_consent": client.SkipConsent},
		Success:      true,
	})

	view := NewClientView(client)
	return &view, nil
}

// RotateSecret replaces the secret of a confidential client and returns the
// new plaintext once.
func (s *ClientService) RotateSecret(
	ctx context.Context,
	decision core.Decision,
	clientID string,
) (*ClientResponse, error) {
	if !decision.Allowed {
		return nil, ErrUnauthorized
	}

	client, err := s.loadClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.IsPublic() {
		return nil, ErrPublicClient
	}

	secret, err := client.GenerateClientSecret(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate client secret: %w", err)
	}
	client.UpdatedAt = s.now()
	if err := s.store.UpdateClient(ctx, client); err != nil {
		s.metrics.RecordClientOperation("rotate_secret", false)
		s.metrics.RecordDatabaseQueryError("update_client")
		return nil, &StorageError{Op: "rotate client secret", Err: err}
	}

	s.metrics.RecordClientOperation("rotate_secret", true)
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventClientSecretRegenerated,
		Severity:     models.SeverityWarning,
		ActorUserID:  decision.UserID,
		ResourceType: models.ResourceClient,
		ResourceID:   client.ClientID,
		Action:       "rotate client secret",
		Success:      true,
	})

	return &ClientResponse{ClientView: NewClientView(client), ClientSecret: secret}, nil
}

// Delete removes a client with its tokens and consents.
func (s *ClientService) Delete(ctx context.Context, decision core.Decision, clientID string) error {
	if !decision.Allowed {
		return ErrUnauthorized
	}

	err := s.store.DeleteClient(ctx, clientID)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		s.metrics.RecordClientOperation("delete", false)
		return ErrClientNotFound
	case err != nil:
		s.metrics.RecordClientOperation("delete", false)
		s.metrics.RecordDatabaseQueryError("delete_client")
		return &StorageError{Op: "delete client", Err: err}
	}

	s.metrics.RecordClientOperation("delete", true)
	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventClientDeleted,
		Severity:     models.SeverityWarning,
		ActorUserID:  decision.UserID,
		ResourceType: models.ResourceClient,
		ResourceID:   clientID,
		Action:       "delete client",
		Success:      true,
	})
	return nil
}

// Authenticate checks client credentials for the token endpoints. Public
// clients authenticate with their id alone.
func (s *ClientService) Authenticate(ctx context.Context, clientID, secret string) (*models.OAuthClient, error) {
	client, err := s.store.GetClientByClientID(ctx, clientID)
	if err != nil || client.Disabled {
		return nil, ErrInvalidClient
	}
	if client.IsPublic() {
		return client, nil
	}
	if !client.ValidateClientSecret([]byte(secret)) {
		return nil, ErrInvalidClient
	}
	return client, nil
}

func (s *ClientService) loadClient(ctx context.Context, clientID string) (*models.OAuthClient, error) {
	client, err := s.store.GetClientByClientID(ctx, clientID)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return nil, ErrClientNotFound
	case err != nil:
		s.metrics.RecordDatabaseQueryError("get_client")
		return nil, &StorageError{Op: "get client", Err: err}
	}
	return client, nil
}

// NewClientView converts a stored client to its admin representation.
func NewClientView(c *models.OAuthClient) ClientView {
	return ClientView{
		ID:                      c.ID,
		ClientID:                c.ClientID,
		ClientName:              c.Name,
		RedirectURIs:            c.RedirectURIs,
		PostLogoutRedirectURIs:  c.PostLogoutRedirectURIs,
		Scope:                   scopeString(c.Scopes),
		GrantTypes:              c.GrantTypes,
		ResponseTypes:           c.ResponseTypes,
		TokenEndpointAuthMethod: c.TokenEndpointAuthMethod,
		Type:                    c.Type,
		Public:                  c.IsPublic(),
		Disabled:                c.Disabled,
		SkipConsent:             c.SkipConsent,
		EnableEndSession:        c.EnableEndSession,
		ClientURI:               c.URI,
		LogoURI:                 c.Icon,
		Contacts:                c.Contacts,
		TOSURI:                  c.TOS,
		PolicyURI:               c.Policy,
		SoftwareID:              c.SoftwareID,
		SoftwareVersion:         c.SoftwareVersion,
		SoftwareStatement:       c.SoftwareStatement,
		Metadata:                c.Metadata,
		ReferenceID:             c.ReferenceID,
		UserID:                  c.UserID,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}

// NewPublicClientView converts a stored client to its anonymous representation.
func NewPublicClientView(c *models.OAuthClient) PublicClientView {
	return PublicClientView{
		ClientID:   c.ClientID,
		ClientName: c.Name,
		ClientURI:  c.URI,
		LogoURI:    c.Icon,
		TOSURI:     c.TOS,
		PolicyURI:  c.Policy,
		Contacts:   c.Contacts,
	}
}

func sanitizeURIs(uris []string) []string {
	out := make([]string, len(uris))
	for i, u := range uris {
		out[i] = redirecturi.SanitizeForLog(u)
	}
	return out
}
