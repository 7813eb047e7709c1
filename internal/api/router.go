package api

import (
	"finance_tracker/internal/domain"     // Typed errors
	"finance_tracker/internal/middleware" // Auth and logging middleware
	"finance_tracker/internal/repository" // Ownership-scoped persistence
	"finance_tracker/internal/utils"      // Password, token and cache helpers
	"net/http"                            // HTTP status codes
	"time"                                // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Env carries the dependencies every handler needs
type Env struct {
	Store     *repository.Store    // Ownership-scoped persistence
	Passwords *utils.PasswordCodec // Credential codec
	Tokens    *utils.TokenService  // Identity tokens
	Cache     *redis.Client        // Summary cache, nil disables caching
	CacheTTL  time.Duration        // Summary cache lifetime
}

// NewRouter wires every route onto a fresh gin engine
func NewRouter(env *Env, trustedProxies []string) (*gin.Engine, error) {
	r := gin.New() // Gin router instance
	r.Use(middleware.RequestLogger(), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.WithField("panic", recovered).Error("Handler panicked") // Never leak panic details
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": gin.H{
			"code":    domain.KindInternal,
			"message": domain.InternalMessage,
		}})
	}))
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, err
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }) // Liveness probe

	// Auth routes establish identity, so they sit outside the JWT group
	r.POST("/auth/register", RegisterHandler(env)) // Registration endpoint
	r.POST("/auth/login", LoginHandler(env))       // Login endpoint

	// Everything else is protected by JWT
	authed := r.Group("/", middleware.JWTAuthMiddleware(env.Tokens))
	authed.GET("/me", MeHandler(env))           // Current user
	authed.PATCH("/me", UpdateMeHandler(env))   // Profile update
	authed.GET("/summary", SummaryHandler(env)) // Dashboard aggregates

	categories := authed.Group("/categories")
	categories.GET("", ListCategoriesHandler(env))        // List categories
	categories.POST("", CreateCategoryHandler(env))       // Create category
	categories.GET("/:id", GetCategoryHandler(env))       // Get category
	categories.PATCH("/:id", UpdateCategoryHandler(env))  // Update category
	categories.DELETE("/:id", DeleteCategoryHandler(env)) // Delete category (cascades to transactions)

	transactions := authed.Group("/transactions")
	transactions.GET("", ListTransactionsHandler(env))         // List transactions
	transactions.POST("", CreateTransactionHandler(env))       // Create transaction
	transactions.GET("/:id", GetTransactionHandler(env))       // Get transaction
	transactions.PATCH("/:id", UpdateTransactionHandler(env))  // Update transaction
	transactions.DELETE("/:id", DeleteTransactionHandler(env)) // Delete transaction

	return r, nil
}
