package config

import (
	"errors"  // For validation errors
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// DevJWTSecret is used when JWT_SECRET is unset outside production. Never use it in production.
const DevJWTSecret = "insecure-dev-secret-change-me"

// Config holds the application configuration
type Config struct {
	AppPort        string        // Application port
	DBDriver       string        // Database driver: mysql or sqlite
	DBUser         string        // Database user
	DBPassword     string        // Database password
	DBHost         string        // Database host
	DBPort         string        // Database port
	DBName         string        // Database name
	SQLitePath     string        // SQLite file path (sqlite driver only)
	JWTSecret      string        // JWT secret key
	JWTSecretSet   bool          // Whether JWT_SECRET was provided
	JWTTTL         time.Duration // Token lifetime
	BcryptCost     int           // bcrypt work factor
	RedisAddr      string        // Redis server address, empty disables caching
	RedisPass      string        // Redis password
	RedisDB        int           // Redis database number
	CacheTTL       time.Duration // Summary cache lifetime
	IsProd         bool          // Is production environment
	LogLevel       string        // logrus level name
	TrustedProxies []string      // Proxies gin trusts for client IP
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	secret := os.Getenv("JWT_SECRET")
	cfg := &Config{
		AppPort:        getEnv("APP_PORT", "8080"),                        // Application port
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "mysql")),     // Database driver
		DBUser:         os.Getenv("DB_USER"),                              // Database user
		DBPassword:     os.Getenv("DB_PASSWORD"),                          // Database password
		DBHost:         getEnv("DB_HOST", "127.0.0.1"),                    // Database host
		DBPort:         getEnv("DB_PORT", "3306"),                         // Database port
		DBName:         os.Getenv("DB_NAME"),                              // Database name
		SQLitePath:     getEnv("SQLITE_PATH", "finance.db"),               // SQLite file path
		JWTSecret:      secret,                                            // JWT secret key
		JWTSecretSet:   secret != "",                                      // Whether the secret was provided
		JWTTTL:         getEnvDuration("JWT_TTL", 7*24*time.Hour),         // Token lifetime
		BcryptCost:     getEnvInt("BCRYPT_COST", 10),                      // bcrypt work factor
		RedisAddr:      os.Getenv("REDIS_ADDR"),                           // Redis server address
		RedisPass:      os.Getenv("REDIS_PASS"),                           // Redis password
		RedisDB:        getEnvInt("REDIS_DB", 0),                          // Redis database number
		CacheTTL:       getEnvDuration("CACHE_TTL", 60*time.Second),       // Summary cache lifetime
		IsProd:         os.Getenv("IS_PROD") == "true",                    // Is production environment
		LogLevel:       getEnv("LOG_LEVEL", "info"),                       // Log level
		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "127.0.0.1")), // Trusted proxies
	}
	if !cfg.JWTSecretSet {
		cfg.JWTSecret = DevJWTSecret // Fallback, flagged by Validate and logged at startup
	}
	return cfg
}

// Validate reports configuration that must not reach a running server
func (c *Config) Validate() error {
	var errs []error
	if port, err := strconv.Atoi(c.AppPort); err != nil || port < 1 || port > 65535 {
		errs = append(errs, errors.New("APP_PORT must be a number between 1 and 65535"))
	}
	switch c.DBDriver {
	case "mysql":
		if c.DBName == "" {
			errs = append(errs, errors.New("DB_NAME is required for the mysql driver"))
		}
	case "sqlite":
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	default:
		errs = append(errs, errors.New("DB_DRIVER must be mysql or sqlite"))
	}
	if c.IsProd && !c.JWTSecretSet {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// getEnv returns the variable or a fallback when unset
func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// getEnvInt parses an integer variable, falling back on absence or parse errors
func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

// getEnvDuration parses a Go duration variable, falling back on absence or parse errors
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
