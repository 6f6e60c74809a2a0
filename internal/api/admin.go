package api

import (
	"net/http"                        // HTTP status codes
	"storefront_auth/internal/domain" // Importing domain models
	"storefront_auth/internal/store"  // Listings
	"storefront_auth/internal/utils"  // Utility functions
	"strconv"                         // String conversion
	"strings"                         // String manipulation
	"time"                            // Date filters

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// UserPage is one page of public user profiles
type UserPage struct {
	Users      []domain.Profile `json:"users"`       // List of users
	Page       int              `json:"page"`        // Current page
	PageSize   int              `json:"page_size"`   // Page size
	Total      int64            `json:"total"`       // Total number of users
	TotalPages int              `json:"total_pages"` // Total pages
	Cached     bool             `json:"cached"`      // Served from cache
}

// ListUsersHandler returns all users with their coin balance and streak
func ListUsersHandler(users CoinStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page := parsePage(c) // Pagination parameters
		// Create a cache key based on pagination parameters
		cacheKey := adminKeyPrefix + "users:page=" + strconv.Itoa(page.Page) + ":size=" + strconv.Itoa(page.PageSize)
		var resp UserPage
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &resp)
		if err == nil && found {
			resp.Cached = true
			c.JSON(http.StatusOK, resp)
			return
		}
		list, total, err := users.ListUsers(ctx, page)
		if err != nil {
			respondStoreError(c, "list users", err)
			return
		}
		profiles := make([]domain.Profile, len(list)) // Public views only
		for i := range list {
			profiles[i] = list[i].Profile()
		}
		resp = UserPage{
			Users:      profiles,               // List of users
			Page:       page.Page,              // Current page
			PageSize:   page.PageSize,          // Page size
			Total:      total,                  // Total number of users
			TotalPages: page.TotalPages(total), // Total pages
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.CacheTTL) // Cache the response
		c.JSON(http.StatusOK, resp)                                  // Return the response
	}
}

// ListCoinTransactionsHandler returns all ledger rows, with optional filtering by user, type, or date
func ListCoinTransactionsHandler(users CoinStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page := parsePage(c) // Pagination parameters
		filter := store.CoinTransactionFilter{
			UserID: c.Query("user_id"), // Filter by user ID
			Type:   c.Query("type"),    // Filter by transaction type
			Page:   page,
		}
		// Filter by date range
		dates := []struct {
			param    string
			dest     **time.Time
			endOfDay bool
		}{{"from", &filter.From, false}, {"to", &filter.To, true}}
		for _, d := range dates {
			v := c.Query(d.param)
			if v == "" {
				continue
			}
			t, err := parseDate(v, d.endOfDay)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": d.param + " must be a date (YYYY-MM-DD) or RFC3339 timestamp"})
				return
			}
			*d.dest = t
		}
		// Build cache key from all query params
		var keyParts []string
		for _, k := range []string{"user_id", "type", "from", "to"} {
			keyParts = append(keyParts, k+"="+c.Query(k)) // Append key-value pair
		}
		keyParts = append(keyParts, "page="+strconv.Itoa(page.Page), "size="+strconv.Itoa(page.PageSize))
		cacheKey := adminKeyPrefix + "cointxs:" + strings.Join(keyParts, ":")
		var resp CoinTransactionPage
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &resp)
		if err == nil && found {
			resp.Cached = true
			c.JSON(http.StatusOK, resp)
			return
		}
		txs, total, err := users.ListCoinTransactions(ctx, filter)
		if err != nil {
			respondStoreError(c, "list coin transactions", err)
			return
		}
		resp = CoinTransactionPage{
			Transactions: nonNil(txs),            // List of transactions
			Page:         page.Page,              // Current page
			PageSize:     page.PageSize,          // Page size
			Total:        total,                  // Total number of transactions
			TotalPages:   page.TotalPages(total), // Total pages
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.CacheTTL) // Cache the response
		c.JSON(http.StatusOK, resp)                                  // Return the response
	}
}
