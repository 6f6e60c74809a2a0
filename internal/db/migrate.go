package db

import (
	"context"                         // Context for connection retries
	"fmt"                             // Error wrapping
	"storefront_auth/internal/domain" // Importing domain models
	"time"                            // Backoff interval

	"github.com/sethvargo/go-retry" // Connection retry policy
	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Connection retry policy for the initial connect
const (
	ConnectAttempts = 5
	ConnectBackoff  = 5 * time.Second
)

// Open connects to MySQL, retrying the initial connect with a constant backoff
func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	return OpenDialector(ctx, mysql.Open(dsn), retry.NewConstant(ConnectBackoff))
}

// OpenDialector opens a gorm connection for any dialector and pings it until the
// database answers or the attempts run out
func OpenDialector(ctx context.Context, dialector gorm.Dialector, backoff retry.Backoff) (*gorm.DB, error) {
	var db *gorm.DB
	attempt := 0
	err := retry.Do(ctx, retry.WithMaxRetries(ConnectAttempts-1, backoff), func(ctx context.Context) error {
		attempt++
		conn, err := gorm.Open(dialector, &gorm.Config{TranslateError: true}) // Open a connection to the database
		if err == nil {
			err = ping(ctx, conn)
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"attempt": attempt,
				"error":   err,
			}).Warn("database not ready")
			return retry.RetryableError(err) // Try again after the backoff
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect database after %d attempts: %w", attempt, err)
	}
	return db, nil
}

func ping(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(&domain.User{}, &domain.CoinTransaction{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
