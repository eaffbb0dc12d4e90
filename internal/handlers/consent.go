package handlers

import (
	"net/http"
	"strings"

	"github.com/go-authgate/oauthprovider/internal/middleware"
	"github.com/go-authgate/oauthprovider/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultLocale = "en"

// ConsentHandler serves the consent screen data and the user's grants.
type ConsentHandler struct {
	consentService *services.ConsentService
	logger         *zap.Logger
}

func NewConsentHandler(cs *services.ConsentService, logger *zap.Logger) *ConsentHandler {
	return &ConsentHandler{consentService: cs, logger: logger}
}

// ConsentPage godoc
//
//	@Summary		Consent screen data
//	@Description	Client summary plus a description for each requested scope.
//	@Tags			Consent
//	@Produce		json
//	@Param			client_id	query		string	true	"Client identifier"
//	@Param			scope		query		string	true	"Space separated scopes"
//	@Param			locale		query		string	false	"Preferred locale, defaults to Accept-Language"
//	@Success		200			{object}	services.ConsentPage
//	@Failure		404			{object}	object{error=string,error_description=string}
//	@Router			/api/consent [get]
func (h *ConsentHandler) ConsentPage(c *gin.Context) {
	clientID := c.Query("client_id")
	scope := c.Query("scope")
	if clientID == "" || scope == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             errNotFound,
			"error_description": "client_id and scope are required",
		})
		return
	}

	page, err := h.consentService.ConsentPage(c.Request.Context(), clientID, scope, requestLocale(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type consentRequest struct {
	ClientID    string  `json:"client_id"              binding:"required"`
	Scope       string  `json:"scope"                  binding:"required"`
	ReferenceID *string `json:"reference_id,omitempty"`
}

// GrantConsent records the logged-in user's consent for a client.
func (h *ConsentHandler) GrantConsent(c *gin.Context) {
	var req consentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "client_id and scope are required")
		return
	}

	session := middleware.GetSession(c)
	consent, err := h.consentService.RecordConsent(c.Request.Context(), services.ConsentParams{
		UserID:      session.UserID,
		ClientID:    req.ClientID,
		Scopes:      services.ParseScope(req.Scope),
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, services.ConsentView{
		ID:           consent.ID,
		ClientID:     consent.ClientID,
		Scopes:       consent.Scopes,
		ReferenceID:  consent.ReferenceID,
		ConsentGiven: consent.ConsentGiven,
		CreatedAt:    consent.CreatedAt,
		UpdatedAt:    consent.UpdatedAt,
	})
}

// RevokeConsent deletes the logged-in user's grant for a client.
func (h *ConsentHandler) RevokeConsent(c *gin.Context) {
	clientID := c.Query("client_id")
	if clientID == "" {
		badRequest(c, "client_id is required")
		return
	}
	var referenceID *string
	if ref, ok := c.GetQuery("reference_id"); ok {
		referenceID = &ref
	}

	session := middleware.GetSession(c)
	if err := h.consentService.RevokeConsent(c.Request.Context(), session.UserID, clientID, referenceID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListConsents returns every grant of the logged-in user.
func (h *ConsentHandler) ListConsents(c *gin.Context) {
	session := middleware.GetSession(c)
	consents, err := h.consentService.ListConsents(c.Request.Context(), session.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consents": consents})
}

// requestLocale prefers the locale query parameter, then the first
// Accept-Language tag.
func requestLocale(c *gin.Context) string {
	if locale := strings.TrimSpace(c.Query("locale")); locale != "" {
		return locale
	}
	header := c.GetHeader("Accept-Language")
	if header == "" {
		return defaultLocale
	}
	first, _, _ := strings.Cut(header, ",")
	tag, _, _ := strings.Cut(first, ";")
	if tag = strings.TrimSpace(tag); tag == "" || tag == "*" {
		return defaultLocale
	}
	return tag
}
