package handlers

import (
	"errors"
	"net/http"

	"github.com/go-authgate/oauthprovider/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OAuth error codes used in {error, error_description} bodies.
const (
	errInvalidRequest        = "invalid_request"
	errInvalidClient         = "invalid_client"
	errInvalidClientMetadata = "invalid_client_metadata"
	errInvalidScope          = "invalid_scope"
	errUnauthorized          = "unauthorized"
	errNotFound              = "not_found"
	errConflict              = "conflict"
	errServerError           = "server_error"
)

func badRequest(c *gin.Context, description string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":             errInvalidRequest,
		"error_description": description,
	})
}

// respondError maps service errors onto HTTP statuses. Anything unrecognised
// is logged and reported as a 500 without details.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  errInvalidClientMetadata,
			"errors": validationErr.Errors,
		})
	case errors.Is(err, services.ErrInvalidScope):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             errInvalidScope,
			"error_description": err.Error(),
		})
	case errors.Is(err, services.ErrPublicClient):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             errInvalidRequest,
			"error_description": err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":             errNotFound,
			"error_description": err.Error(),
		})
	case errors.Is(err, services.ErrDuplicateClientID):
		c.JSON(http.StatusConflict, gin.H{
			"error":             errConflict,
			"error_description": err.Error(),
		})
	default:
		logger.Error("request failed",
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errServerError})
	}
}
