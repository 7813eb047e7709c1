package main

import (
	"finance_tracker/internal/config"  // Custom import path (Config)
	"finance_tracker/internal/db"      // Custom import path (Database)
	"finance_tracker/internal/logging" // Logger setup

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logging.Setup(cfg)         // Setup logger

	database, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := db.Migrate(database); err != nil {
		logrus.Fatalf("%v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}
