package main

import (
	"context"                          // Seed runs under a background context
	"finance_tracker/internal/config"  // Custom import path (Config)
	"finance_tracker/internal/db"      // Custom import path (Database)
	"finance_tracker/internal/logging" // Logger setup
	"finance_tracker/internal/seed"    // Demo data
	"finance_tracker/internal/utils"   // Password hashing
	"time"                             // Seed reference time

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for seeding the demo account
func main() {
	cfg := config.LoadConfig() // Load configuration
	logging.Setup(cfg)         // Setup logger

	database, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		logrus.Fatalf("%v", err)
	}
	res, err := seed.Run(context.Background(), database, utils.NewPasswordCodec(cfg.BcryptCost), time.Now().UTC())
	if err != nil {
		logrus.Fatalf("seed failed: %v", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":      res.UserID,       // Demo user
		"email":        seed.DemoEmail,   // Demo login
		"categories":   res.Categories,   // Categories upserted
		"transactions": res.Transactions, // Transactions inserted
	}).Info("Seed completed")
}
