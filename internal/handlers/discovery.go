package handlers

import (
	"net/http"

	"github.com/go-authgate/oauthprovider/internal/config"
	"github.com/go-authgate/oauthprovider/internal/models"
	"github.com/go-authgate/oauthprovider/internal/services"

	"github.com/gin-gonic/gin"
)

// discoveryMetadata is the subset of RFC 8414 provider metadata this server
// can vouch for.
type discoveryMetadata struct {
	Issuer                            string   `json:"issuer"`
	IntrospectionEndpoint             string   `json:"introspection_endpoint"`
	RevocationEndpoint                string   `json:"revocation_endpoint"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	GrantTypesSupported               []string `json:"grant_types_supported"`
	ScopesSupported                   []string `json:"scopes_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	IntrospectionEndpointAuthMethods  []string `json:"introspection_endpoint_auth_methods_supported"`
	RevocationEndpointAuthMethods     []string `json:"revocation_endpoint_auth_methods_supported"`
	SubjectTypesSupported             []string `json:"subject_types_supported"`
	AccessTokenSigningAlgValues       []string `json:"access_token_signing_alg_values_supported"`
}

// DiscoveryHandler serves /.well-known/openid-configuration from config.
type DiscoveryHandler struct {
	meta discoveryMetadata
}

// NewDiscoveryHandler builds the document once; it never changes at runtime.
func NewDiscoveryHandler(cfg *config.Config) *DiscoveryHandler {
	base := cfg.Issuer()
	clientAuth := []string{
		models.AuthMethodClientSecretBasic,
		models.AuthMethodClientSecretPost,
	}
	return &DiscoveryHandler{meta: discoveryMetadata{
		Issuer:                 base,
		IntrospectionEndpoint:  base + "/oauth/introspect",
		RevocationEndpoint:     base + "/oauth/revoke",
		ResponseTypesSupported: []string{services.ResponseTypeCode},
		GrantTypesSupported: []string{
			services.GrantTypeAuthorizationCode,
			services.GrantTypeRefreshToken,
			services.GrantTypeClientCredentials,
		},
		ScopesSupported: cfg.ScopesSupported,
		TokenEndpointAuthMethodsSupported: append(
			append([]string{}, clientAuth...),
			models.AuthMethodNone,
		),
		IntrospectionEndpointAuthMethods: clientAuth,
		RevocationEndpointAuthMethods:    clientAuth,
		SubjectTypesSupported:            []string{"public"},
		AccessTokenSigningAlgValues:      []string{"HS256"},
	}}
}

// Discovery godoc
//
//	@Summary	Provider metadata
//	@Tags		OAuth
//	@Produce	json
//	@Success	200	{object}	discoveryMetadata
//	@Router		/.well-known/openid-configuration [get]
func (h *DiscoveryHandler) Discovery(c *gin.Context) {
	c.JSON(http.StatusOK, h.meta)
}
