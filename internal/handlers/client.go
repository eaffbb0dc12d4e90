package handlers

import (
	"net/http"

	"github.com/go-authgate/oauthprovider/internal/middleware"
	"github.com/go-authgate/oauthprovider/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClientHandler exposes the client registry: the admin API and the public
// client lookup used by login pages.
type ClientHandler struct {
	clientService *services.ClientService
	logger        *zap.Logger
}

func NewClientHandler(cs *services.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{clientService: cs, logger: logger}
}

type listClientsQuery struct {
	Search string `form:"search"`
	Limit  int    `form:"limit"  binding:"omitempty,min=0"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// ListClients godoc
//
//	@Summary	List OAuth clients
//	@Tags		Admin
//	@Produce	json
//	@Param		search	query		string	false	"Substring of name or client_id"
//	@Param		limit	query		int		false	"Page size (default 100, max 500)"
//	@Param		offset	query		int		false	"Rows to skip"
//	@Success	200		{object}	services.ClientPage
//	@Failure	401		{object}	object{error=string}
//	@Router		/api/admin/oauth-clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	var q listClientsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "limit and offset must be non-negative integers")
		return
	}

	page, err := h.clientService.List(c.Request.Context(), middleware.AdminDecision(c), services.ListFilter{
		Search: q.Search,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreateClient godoc
//
//	@Summary	Register an OAuth client
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Param		client	body		services.ClientPayload	true	"RFC 7591 client metadata"
//	@Success	200		{object}	services.ClientResponse	"Client with its one-time secret"
//	@Failure	400		{object}	object{error=string,errors=[]string}
//	@Failure	401		{object}	object{error=string}
//	@Failure	409		{object}	object{error=string,error_description=string}
//	@Router		/api/admin/oauth-clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var payload services.ClientPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "request body must be a JSON client metadata document")
		return
	}

	resp, err := h.clientService.Register(c.Request.Context(), middleware.AdminDecision(c), payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetClient returns one client without its secret.
func (h *ClientHandler) GetClient(c *gin.Context) {
	view, err := h.clientService.Get(c.Request.Context(), middleware.AdminDecision(c), c.Param("client_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateClient applies a partial update.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var patch services.ClientPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "request body must be a JSON object")
		return
	}

	view, err := h.clientService.Update(
		c.Request.Context(),
		middleware.AdminDecision(c),
		c.Param("client_id"),
		patch,
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteClient removes a client together with its tokens and consents.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	err := h.clientService.Delete(c.Request.Context(), middleware.AdminDecision(c), c.Param("client_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RotateSecret issues a new secret for a confidential client.
func (h *ClientHandler) RotateSecret(c *gin.Context) {
	resp, err := h.clientService.RotateSecret(
		c.Request.Context(),
		middleware.AdminDecision(c),
		c.Param("client_id"),
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PublicClient godoc
//
//	@Summary	Public client details
//	@Tags		OAuth
//	@Produce	json
//	@Param		client_id	query		string	true	"Client identifier"
//	@Success	200			{object}	services.PublicClientView
//	@Failure	404			{object}	object{error=string,error_description=string}
//	@Router		/api/oauth2/public-client [get]
func (h *ClientHandler) PublicClient(c *gin.Context) {
	clientID := c.Query("client_id")
	if clientID == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             errNotFound,
			"error_description": services.ErrClientNotFound.Error(),
		})
		return
	}

	view, err := h.clientService.GetPublic(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
