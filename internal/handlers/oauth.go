package handlers

import (
	"net/http"
	"strings"

	"github.com/go-authgate/oauthprovider/internal/models"
	"github.com/go-authgate/oauthprovider/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OAuthHandler implements token introspection (RFC 7662) and revocation
// (RFC 7009) for authenticated clients.
type OAuthHandler struct {
	clientService *services.ClientService
	tokenService  *services.TokenService
	logger        *zap.Logger
}

func NewOAuthHandler(
	cs *services.ClientService,
	ts *services.TokenService,
	logger *zap.Logger,
) *OAuthHandler {
	return &OAuthHandler{clientService: cs, tokenService: ts, logger: logger}
}

type introspectionResponse struct {
	Active    bool   `json:"active"`
	Scope     string `json:"scope,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Subject   string `json:"sub,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	Exp       int64  `json:"exp,omitempty"`
	Iat       int64  `json:"iat,omitempty"`
	JTI       string `json:"jti,omitempty"`
}

// authenticateClient accepts HTTP Basic credentials first and falls back to
// client_id / client_secret form fields.
func (h *OAuthHandler) authenticateClient(c *gin.Context) (*models.OAuthClient, bool) {
	clientID, secret, ok := c.Request.BasicAuth()
	if !ok {
		clientID = c.PostForm("client_id")
		secret = c.PostForm("client_secret")
	}
	if clientID == "" {
		h.rejectClient(c)
		return nil, false
	}

	client, err := h.clientService.Authenticate(c.Request.Context(), clientID, secret)
	if err != nil {
		h.rejectClient(c)
		return nil, false
	}
	return client, true
}

func (h *OAuthHandler) rejectClient(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="oauth"`)
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":             errInvalidClient,
		"error_description": "client authentication failed",
	})
}

// Introspect godoc
//
//	@Summary		Token introspection
//	@Description	Reports whether a token is active. Every invalid token yields {"active": false}.
//	@Tags			OAuth
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			token			formData	string	true	"Token to inspect"
//	@Param			token_type_hint	formData	string	false	"access_token or refresh_token"
//	@Success		200				{object}	introspectionResponse
//	@Failure		401				{object}	object{error=string,error_description=string}
//	@Router			/oauth/introspect [post]
func (h *OAuthHandler) Introspect(c *gin.Context) {
	if _, ok := h.authenticateClient(c); !ok {
		return
	}

	token := c.PostForm("token")
	if token == "" {
		badRequest(c, "token parameter is required")
		return
	}

	claims, err := h.tokenService.Introspect(c.Request.Context(), token, c.PostForm("token_type_hint"))
	if err != nil {
		c.JSON(http.StatusOK, introspectionResponse{Active: false})
		return
	}

	c.JSON(http.StatusOK, introspectionResponse{
		Active:    true,
		Scope:     strings.Join(claims.Scopes, " "),
		ClientID:  claims.ClientID,
		Subject:   claims.UserID,
		TokenType: tokenTypeFor(claims.Kind),
		Exp:       claims.ExpiresAt.Unix(),
		Iat:       claims.IssuedAt.Unix(),
		JTI:       claims.TokenID,
	})
}

// Revoke godoc
//
//	@Summary		Token revocation
//	@Description	Revokes a token of the calling client. Unknown tokens still return 200.
//	@Tags			OAuth
//	@Accept			x-www-form-urlencoded
//	@Param			token			formData	string	true	"Token to revoke"
//	@Param			token_type_hint	formData	string	false	"access_token or refresh_token"
//	@Success		200
//	@Failure		400	{object}	object{error=string,error_description=string}
//	@Failure		401	{object}	object{error=string,error_description=string}
//	@Router			/oauth/revoke [post]
func (h *OAuthHandler) Revoke(c *gin.Context) {
	client, ok := h.authenticateClient(c)
	if !ok {
		return
	}

	token := c.PostForm("token")
	if token == "" {
		badRequest(c, "token parameter is required")
		return
	}

	err := h.tokenService.RevokeByValue(c.Request.Context(), client.ClientID, token, c.PostForm("token_type_hint"))
	if err != nil {
		h.logger.Error("token revocation failed", zap.String("client_id", client.ClientID), zap.Error(err))
	}
	c.Status(http.StatusOK)
}

func tokenTypeFor(kind string) string {
	if kind == models.TokenKindRefresh {
		return services.HintRefreshToken
	}
	return services.HintAccessToken
}
