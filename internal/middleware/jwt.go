package middleware

import (
	"finance_tracker/internal/domain" // Typed errors
	"net/http"                        // HTTP status codes
	"strings"                         // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// userIDKey is where the authenticated user id lives in the gin context
const userIDKey = "userID"

const bearerPrefix = "bearer "

// TokenVerifier turns a token into the user id it was issued for
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// ResolveUserID extracts and verifies the token in a raw Authorization value.
// The "Bearer " prefix is optional; every failure is Unauthenticated.
func ResolveUserID(rawHeader string, tokens TokenVerifier) (string, error) {
	tokenStr := strings.TrimSpace(rawHeader) // Tolerate surrounding whitespace
	if len(tokenStr) >= len(bearerPrefix) && strings.EqualFold(tokenStr[:len(bearerPrefix)], bearerPrefix) {
		tokenStr = strings.TrimSpace(tokenStr[len(bearerPrefix):]) // Strip the scheme, any case
	}
	if tokenStr == "" {
		return "", domain.Unauthenticated("Not authenticated")
	}
	userID, err := tokens.Verify(tokenStr) // Check signature and expiry
	if err != nil {
		return "", domain.Unauthenticated("Invalid or expired token")
	}
	return userID, nil
}

// JWTAuthMiddleware validates the Authorization header and stores the user id
func JWTAuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := ResolveUserID(c.GetHeader("Authorization"), tokens)
		if err != nil {
			// If resolution fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"code":    domain.KindUnauthenticated,
				"message": domain.PublicMessage(err),
			}})
			return
		}
		c.Set(userIDKey, userID) // Store userID in context
		c.Next()                 // Proceed to the next handler
	}
}

// UserID returns the id stored by JWTAuthMiddleware
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}
