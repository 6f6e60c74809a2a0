package config

import (
	"errors"  // For joining validation errors
	"fmt"     // For error formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For trimming values
	"time"    // For durations and locations

	"github.com/joho/godotenv" // For loading .env files
)

// Defaults applied when optional variables are unset
const (
	DefaultAppPort        = "8080"
	DefaultRequestTimeout = 5 * time.Second
	DefaultStreakTimezone = "UTC"
)

// Config holds the application configuration
type Config struct {
	AppPort        string         // Application port
	DBUser         string         // Database user
	DBPassword     string         // Database password
	DBHost         string         // Database host
	DBPort         string         // Database port
	DBName         string         // Database name
	JWTSecret      string         // JWT secret key
	AdminEmail     string         // Privileged identity email
	AdminPassword  string         // Privileged identity password
	RedisAddr      string         // Redis server address, empty disables cache and distributed lock
	RedisPass      string         // Redis password
	RedisDB        int            // Redis database number
	IsProd         bool           // Is production environment
	RequestTimeout time.Duration  // Per-request deadline
	StreakLocation *time.Location // Location whose calendar days count for streaks
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function and validates it
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	redisDB := 0
	if v := get("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("REDIS_DB: %w", err)
		}
		redisDB = n
	}

	timeout := DefaultRequestTimeout
	if v := get("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		timeout = d
	}

	tz := get("STREAK_TIMEZONE")
	if tz == "" {
		tz = DefaultStreakTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("STREAK_TIMEZONE: %w", err)
	}

	port := get("APP_PORT")
	if port == "" {
		port = DefaultAppPort
	}

	cfg := &Config{
		AppPort:        port,                     // Application port
		DBUser:         get("DB_USER"),           // Database user
		DBPassword:     getenv("DB_PASSWORD"),    // Database password, kept verbatim
		DBHost:         get("DB_HOST"),           // Database host
		DBPort:         get("DB_PORT"),           // Database port
		DBName:         get("DB_NAME"),           // Database name
		JWTSecret:      getenv("JWT_SECRET"),     // JWT secret key, kept verbatim
		AdminEmail:     get("ADMIN_EMAIL"),       // Privileged identity email
		AdminPassword:  getenv("ADMIN_PASSWORD"), // Privileged identity password, kept verbatim
		RedisAddr:      get("REDIS_ADDR"),        // Redis server address
		RedisPass:      getenv("REDIS_PASS"),     // Redis password
		RedisDB:        redisDB,                  // Redis database number
		IsProd:         get("IS_PROD") == "true", // Is production environment
		RequestTimeout: timeout,                  // Per-request deadline
		StreakLocation: loc,                      // Streak calendar location
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or invalid required setting
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.AdminEmail == "" {
		errs = append(errs, errors.New("ADMIN_EMAIL is required"))
	}
	if c.AdminPassword == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// DSN returns the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}
