package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"civicsync-triage/models"
	"civicsync-triage/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto status codes. Anything unrecognised
// is logged and reported as a 500 carrying fallback.
func respondError(c *gin.Context, err error, fallback string) {
	var invalidStatus *models.InvalidStatusError
	switch {
	case errors.As(err, &invalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidStatus.Error()})
	case errors.Is(err, services.ErrEmptyComment):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
	case errors.Is(err, services.ErrMissingIdentity):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, services.ErrIssueNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		slog.ErrorContext(c.Request.Context(), fallback, "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
