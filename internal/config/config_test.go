package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"JWT_SECRET":     "secret",
		"ADMIN_EMAIL":    "admin@example.com",
		"ADMIN_PASSWORD": "admin-pass",
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, DefaultAppPort, cfg.AppPort)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, "UTC", cfg.StreakLocation.String())
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.IsProd)
}

func TestFromEnv_AllValues(t *testing.T) {
	env := baseEnv()
	env["APP_PORT"] = "9090"
	env["DB_USER"] = "root"
	env["DB_PASSWORD"] = "pw"
	env["DB_HOST"] = "localhost"
	env["DB_PORT"] = "3306"
	env["DB_NAME"] = "storefront"
	env["REDIS_ADDR"] = "localhost:6379"
	env["REDIS_DB"] = "2"
	env["IS_PROD"] = "true"
	env["REQUEST_TIMEOUT"] = "2s"
	env["STREAK_TIMEZONE"] = "Asia/Tokyo"

	cfg, err := FromEnv(envOf(env))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.IsProd)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "Asia/Tokyo", cfg.StreakLocation.String())
	assert.Equal(t, "root:pw@tcp(localhost:3306)/storefront?parseTime=true", cfg.DSN())
}

func TestFromEnv_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantMsg string
	}{
		{name: "jwt secret", unset: "JWT_SECRET", wantMsg: "JWT_SECRET is required"},
		{name: "admin email", unset: "ADMIN_EMAIL", wantMsg: "ADMIN_EMAIL is required"},
		{name: "admin password", unset: "ADMIN_PASSWORD", wantMsg: "ADMIN_PASSWORD is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			delete(env, tt.unset)

			cfg, err := FromEnv(envOf(env))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFromEnv_ReportsAllMissing(t *testing.T) {
	_, err := FromEnv(envOf(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "ADMIN_EMAIL")
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
}

func TestFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "REDIS_DB", value: "two"},
		{key: "REQUEST_TIMEOUT", value: "soon"},
		{key: "REQUEST_TIMEOUT", value: "-1s"},
		{key: "STREAK_TIMEZONE", value: "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			env := baseEnv()
			env[tt.key] = tt.value

			_, err := FromEnv(envOf(env))
			assert.ErrorContains(t, err, tt.key)
		})
	}
}
