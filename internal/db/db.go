package db

import (
	"finance_tracker/internal/config" // Application configuration
	"finance_tracker/internal/domain" // Importing domain models
	"fmt"                             // Error wrapping
	"time"                            // Slow query threshold

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/driver/sqlite"      // SQLite driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger levels
)

// Open connects to the database selected by cfg.DBDriver
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "mysql":
		// Data Source Name (DSN) for MySQL connection
		dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true&charset=utf8mb4"
		return open(mysql.Open(dsn), logger.Warn)
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

// OpenSQLite opens a SQLite database with foreign keys enforced. ":memory:" is supported.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := open(sqlite.Open("file:"+path+"?_foreign_keys=on"), logger.Silent)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1) // SQLite serializes writers; one connection also keeps :memory: alive
	return db, nil
}

func open(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,                                         // Unique violations surface as gorm.ErrDuplicatedKey
		NowFunc:        func() time.Time { return time.Now().UTC() }, // Store timestamps in UTC
		Logger: logger.New(logrus.StandardLogger(), logger.Config{
			SlowThreshold:             200 * time.Millisecond, // Slow query warning threshold
			LogLevel:                  level,                  // Query log level
			IgnoreRecordNotFoundError: true,                   // Not-found is a normal outcome here
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(&domain.User{}, &domain.Category{}, &domain.Transaction{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Debug("Migration completed.") // Log successful migration
	return nil
}
