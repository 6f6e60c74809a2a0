package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storefront_auth/internal/domain"
)

func TestOpenDialector_SQLite(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := OpenDialector(context.Background(), sqlite.Open(dsn), retry.NewConstant(time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, Migrate(conn))
	assert.True(t, conn.Migrator().HasTable(&domain.User{}))
	assert.True(t, conn.Migrator().HasTable(&domain.CoinTransaction{}))
	assert.True(t, conn.Migrator().HasColumn(&domain.User{}, "streak_last_login_date"))
	assert.True(t, conn.Migrator().HasColumn(&domain.User{}, "streak_version"))
}

func TestMigrate_Idempotent(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(conn))
	require.NoError(t, Migrate(conn))
}

func TestOpenDialector_GivesUpAfterAttempts(t *testing.T) {
	// A path inside a missing directory can never be opened.
	dsn := "file:/nonexistent-dir/storefront.db?mode=ro"
	conn, err := OpenDialector(context.Background(), sqlite.Open(dsn), retry.NewConstant(time.Millisecond))
	require.Error(t, err)
	assert.Nil(t, conn)
	assert.Contains(t, err.Error(), fmt.Sprintf("after %d attempts", ConnectAttempts))
}
