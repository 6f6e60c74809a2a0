package api

import (
	"context"                             // Context for store calls
	"errors"                              // Error matching
	"net/http"                            // HTTP status codes
	"storefront_auth/internal/auth"       // Error mapping
	"storefront_auth/internal/domain"     // Importing domain models
	"storefront_auth/internal/middleware" // Identity from context
	"storefront_auth/internal/store"      // Listings
	"storefront_auth/internal/utils"      // Utility functions
	"strconv"                             // String conversion

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// CoinStore is the read side used by the coin and admin views
type CoinStore interface {
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context, page store.Page) ([]domain.User, int64, error)
	ListCoinTransactions(ctx context.Context, f store.CoinTransactionFilter) ([]domain.CoinTransaction, int64, error)
}

// CoinBalance is the caller's reward balance
type CoinBalance struct {
	Coins       int64              `json:"coins"`       // Current balance
	LoginStreak domain.LoginStreak `json:"loginStreak"` // Streak state
	Cached      bool               `json:"cached"`      // Served from cache
}

// CoinTransactionPage is one page of ledger rows
type CoinTransactionPage struct {
	Transactions []domain.CoinTransaction `json:"transactions"` // List of transactions
	Page         int                      `json:"page"`         // Current page
	PageSize     int                      `json:"page_size"`    // Page size
	Total        int64                    `json:"total"`        // Total transactions
	TotalPages   int                      `json:"total_pages"`  // Total pages
	Cached       bool                     `json:"cached"`       // Served from cache
}

// callerUser resolves the stored user behind the request, writing the error response if there is none
func callerUser(c *gin.Context) (*domain.User, bool) {
	identity, ok := middleware.IdentityFrom(c) // Get identity from context
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": auth.MsgUnauthenticated})
		return nil, false
	}
	user, err := auth.StoredUser(identity)
	if err != nil {
		respondError(c, err) // Privileged identity has no balance
		return nil, false
	}
	return user, true
}

// GetCoinsHandler returns the caller's coin balance and streak
func GetCoinsHandler(users CoinStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerUser(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()                                 // Context for Redis operations
		cacheKey := coinsKeyPrefix + caller.ID                     // Cache key for balance
		var balance CoinBalance                                    // Balance to return
		found, err := utils.GetCache(ctx, rdb, cacheKey, &balance) // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			balance.Cached = true
			c.JSON(http.StatusOK, balance)
			return
		}
		// If not in cache, fetch from DB
		user, err := users.FindUserByID(ctx, caller.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": auth.MsgInvalidToken})
				return
			}
			respondStoreError(c, "find user by id", err)
			return
		}
		balance = CoinBalance{Coins: user.Coins, LoginStreak: user.LoginStreak}
		_ = utils.SetCache(ctx, rdb, cacheKey, balance, utils.CacheTTL) // Cache the balance
		c.JSON(http.StatusOK, balance)                                  // Return balance
	}
}

// GetCoinHistoryHandler returns the caller's ledger, newest first
func GetCoinHistoryHandler(users CoinStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerUser(c)
		if !ok {
			return
		}
		page := parsePage(c) // Pagination parameters
		ctx := c.Request.Context()
		// Redis cache key
		cacheKey := coinHistoryKeyPrefix + caller.ID + ":page:" + strconv.Itoa(page.Page) + ":size:" + strconv.Itoa(page.PageSize)
		var resp CoinTransactionPage
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &resp)
		if err == nil && found {
			resp.Cached = true
			c.JSON(http.StatusOK, resp)
			return
		}
		txs, total, err := users.ListCoinTransactions(ctx, store.CoinTransactionFilter{UserID: caller.ID, Page: page})
		if err != nil {
			respondStoreError(c, "list coin transactions", err)
			return
		}
		resp = CoinTransactionPage{
			Transactions: nonNil(txs),            // List of transactions
			Page:         page.Page,              // Current page
			PageSize:     page.PageSize,          // Page size
			Total:        total,                  // Total transactions
			TotalPages:   page.TotalPages(total), // Total pages
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.CacheTTL) // Cache the page
		c.JSON(http.StatusOK, resp)                                  // Return transaction history
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
