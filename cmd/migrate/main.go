package main

import (
	"context"                         // Context for connection retries
	"storefront_auth/internal/config" // Custom import path (Config)
	"storefront_auth/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	conn, err := db.Open(context.Background(), cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatal(err) // Log fatal error if migration fails
	}
}
