package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"slice-url/internal/apperr"
	"slice-url/internal/middleware"
	"slice-url/internal/models"
)

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, models.Success(status, message, data))
}

// respondError writes err as an error envelope. Unclassified errors are logged and
// reported with a generic message.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := apperr.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}
	c.JSON(status, models.Failure(status, apperr.Message(err)))
}

func respondBadBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.Failure(http.StatusBadRequest, "Invalid request body"))
	_ = c.Error(err)
}

// callerID returns the user id placed in the context by the auth middleware
func callerID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, logger, apperr.NewUnauthorized("Authorization token is required"))
		return "", false
	}
	return userID, true
}

// serverAddress returns the configured public base URL, or the address the request was
// served on when none is configured.
func serverAddress(c *gin.Context, configured string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
