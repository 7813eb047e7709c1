package api

import (
	"finance_tracker/internal/domain" // Typed errors
	"finance_tracker/internal/utils"  // Password length limit
	"net/http"                        // HTTP status codes
	"strings"                         // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`        // Display name
	Email    string `json:"email" binding:"required,email,max=255"` // Unique email
	Password string `json:"password" binding:"required,min=6"`      // Byte length checked against bcrypt's limit
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// UpdateMeRequest is the body of PATCH /me
type UpdateMeRequest struct {
	Name string `json:"name" binding:"required,max=100"` // New display name
}

// RegisterHandler creates a user and returns a token for it
func RegisterHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, domain.BadInput("Invalid registration data"))
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			respondError(c, domain.BadInput("Name must not be blank"))
			return
		}
		if len(req.Password) > utils.MaxPasswordBytes {
			respondError(c, domain.BadInput("Password must be at most 72 bytes"))
			return
		}
		ctx := c.Request.Context()
		// Email uniqueness is global, checked before spending time on the hash
		taken, err := env.Store.EmailExists(ctx, req.Email)
		if err != nil {
			respondError(c, err)
			return
		}
		if taken {
			respondError(c, domain.Conflict("Email already in use"))
			return
		}
		hash, err := env.Passwords.Hash(req.Password) // Hash the password
		if err != nil {
			respondError(c, domain.Internal(err))
			return
		}
		user, err := env.Store.CreateUser(ctx, req.Name, req.Email, hash) // Unique index backstops races
		if err != nil {
			respondError(c, err)
			return
		}
		token, err := env.Tokens.Issue(user.ID) // Generate JWT token
		if err != nil {
			respondError(c, domain.Internal(err))
			return
		}
		logrus.WithField("user_id", user.ID).Info("User registered")
		c.JSON(http.StatusCreated, AuthResponse{Token: token, User: newUserResponse(user)})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, domain.BadInput("Invalid credentials"))
			return
		}
		user, err := env.Store.GetUserByEmail(c.Request.Context(), req.Email) // Fetch user from database
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				err = domain.BadInput("Invalid credentials") // Unknown email looks like a bad password
			}
			respondError(c, err)
			return
		}
		// Compare provided password with stored hash
		if !env.Passwords.Verify(req.Password, user.PasswordHash) {
			respondError(c, domain.BadInput("Invalid credentials"))
			return
		}
		token, err := env.Tokens.Issue(user.ID) // Generate JWT token
		if err != nil {
			respondError(c, domain.Internal(err))
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: newUserResponse(user)})
	}
}

// MeHandler returns the authenticated user
func MeHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		user, err := env.Store.GetUserByID(c.Request.Context(), userID) // Token may outlive the user
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
	}
}

// UpdateMeHandler changes the authenticated user's display name
func UpdateMeHandler(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req UpdateMeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			respondError(c, domain.BadInput("Name must not be blank"))
			return
		}
		user, err := env.Store.UpdateUserName(c.Request.Context(), userID, req.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
	}
}
