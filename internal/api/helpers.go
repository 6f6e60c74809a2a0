package api

import (
	"context"                        // Context for Redis operations
	"net/http"                       // HTTP status codes
	"storefront_auth/internal/auth"  // Public messages
	"storefront_auth/internal/store" // Paging
	"storefront_auth/internal/utils" // Utility functions
	"strconv"                        // String conversion
	"time"                           // Date parsing

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// Cache key prefixes
const (
	coinsKeyPrefix       = "coins:user:"
	coinHistoryKeyPrefix = "coinhistory:user:"
	adminKeyPrefix       = "admin:"
)

// parsePage reads page and page_size query parameters
func parsePage(c *gin.Context) store.Page {
	page := store.Page{Page: 1, PageSize: store.DefaultPageSize} // Defaults
	// If page exists in query
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page.Page = v // Set page if valid
		}
	}
	// If page_size exists in query
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= store.MaxPageSize {
			page.PageSize = v // Set page size if valid
		}
	}
	return page
}

// parseDate accepts RFC3339 timestamps or plain dates. A plain date is UTC midnight,
// or the last millisecond of that day when endOfDay is set.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Millisecond) // Ledger timestamps are milliseconds
	}
	return &t, nil
}

// InvalidateUserCache drops every cached view that shows the user's coins
func InvalidateUserCache(ctx context.Context, rdb *redis.Client, userID string) {
	if rdb == nil {
		return // Caching disabled
	}
	errs := []error{
		utils.DeleteCache(ctx, rdb, coinsKeyPrefix+userID),                 // Balance
		utils.DeleteCachePrefix(ctx, rdb, coinHistoryKeyPrefix+userID+":"), // Every history page
		utils.DeleteCachePrefix(ctx, rdb, adminKeyPrefix),                  // Admin listings
	}
	for _, err := range errs {
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"error":   err.Error(), // Error message
			}).Warn("Failed to invalidate cache") // Entries expire after the TTL
		}
	}
}

// respondStoreError logs a failed read and answers 503
func respondStoreError(c *gin.Context, op string, err error) {
	logrus.WithFields(logrus.Fields{
		"operation": op,          // Failed operation
		"error":     err.Error(), // Error message
	}).Error("Persistence failure")
	c.JSON(http.StatusServiceUnavailable, gin.H{"message": auth.MsgUnavailable})
}

// respondError answers with the status and public message of a service error
func respondError(c *gin.Context, err error) {
	c.JSON(auth.HTTPStatus(err), gin.H{"message": auth.PublicMessage(err)})
}
