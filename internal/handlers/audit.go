package handlers

import (
	"net/http"

	"github.com/go-authgate/oauthprovider/internal/middleware"
	"github.com/go-authgate/oauthprovider/internal/models"
	"github.com/go-authgate/oauthprovider/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuditHandler exposes the audit trail to admins.
type AuditHandler struct {
	auditService *services.AuditService
	logger       *zap.Logger
}

func NewAuditHandler(as *services.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{auditService: as, logger: logger}
}

type auditQuery struct {
	ResourceType string `form:"resource_type" binding:"omitempty,oneof=CLIENT TOKEN CONSENT SCHEMA"`
	ResourceID   string `form:"resource_id"`
	Limit        int    `form:"limit"         binding:"omitempty,min=0"`
}

// ListAuditLogs returns the newest audit rows, optionally for one resource.
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	var q auditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid audit log filter")
		return
	}

	logs, err := h.auditService.List(
		c.Request.Context(),
		middleware.AdminDecision(c),
		models.ResourceType(q.ResourceType),
		q.ResourceID,
		q.Limit,
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}
