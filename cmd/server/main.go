package main

import (
	"context"                             // context package is needed for Redis operations
	"finance_tracker/internal/api"        // Custom package for API handlers
	"finance_tracker/internal/config"     // Custom package for configuration
	"finance_tracker/internal/db"         // Database connection
	"finance_tracker/internal/logging"    // Logger setup
	"finance_tracker/internal/repository" // Ownership-scoped persistence
	"finance_tracker/internal/utils"      // Password and token services
	"time"                                // Redis ping timeout

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	logging.Setup(cfg)         // Setup logger

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	if !cfg.JWTSecretSet {
		logrus.Warn("JWT_SECRET is not set; using an insecure development secret")
	}

	// Connect to the database
	database, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if cfg.DBDriver == "sqlite" {
		// SQLite deployments are single-binary, so the schema is kept current at boot
		if err := db.Migrate(database); err != nil {
			logrus.Fatalf("failed to migrate DB: %v", err)
		}
	}

	// Setup Redis client when configured
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// Test Redis connection
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		cancel()
	} else {
		logrus.Info("REDIS_ADDR is not set; summary caching disabled")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	env := &api.Env{
		Store:     repository.New(database),                         // Scoped persistence
		Passwords: utils.NewPasswordCodec(cfg.BcryptCost),           // Credential codec
		Tokens:    utils.NewTokenService(cfg.JWTSecret, cfg.JWTTTL), // Token service
		Cache:     redisClient,                                      // Optional cache
		CacheTTL:  cfg.CacheTTL,                                     // Cache lifetime
	}
	r, err := api.NewRouter(env, cfg.TrustedProxies)
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	logrus.Info("Server running on " + cfg.AppPort)  // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil { // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}
