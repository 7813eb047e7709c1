package api

import (
	"finance_tracker/internal/domain"     // Typed errors
	"finance_tracker/internal/middleware" // Authenticated user lookup
	"net/http"                            // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// statusFor maps an error kind to its HTTP status
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindBadInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": {"code", "message"}}. Internal
// failures are logged and answered with a generic message.
func respondError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		fields := logrus.Fields{
			"method": c.Request.Method, // HTTP method
			"path":   c.FullPath(),     // Route pattern
			"error":  err.Error(),      // Full detail stays server-side
		}
		if userID, ok := middleware.UserID(c); ok {
			fields["user_id"] = userID
		}
		logrus.WithFields(fields).Error("Unexpected failure")
	}
	c.AbortWithStatusJSON(statusFor(kind), gin.H{"error": gin.H{
		"code":    kind,                      // Stable machine-readable code
		"message": domain.PublicMessage(err), // Human-readable message
	}})
}

// currentUser returns the authenticated user id or answers 401
func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c) // Get userID from context
	if !ok {
		respondError(c, domain.Unauthenticated("Not authenticated"))
	}
	return userID, ok
}
