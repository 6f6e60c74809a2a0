// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront_auth/internal/db"
)

// NewDB returns a migrated, private in-memory SQLite database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_busy_timeout=5000"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // Single connection for the in-memory database
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(conn))
	return conn
}
