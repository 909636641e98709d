package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"time"     // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client

	"invoiceflow/internal/store" // Document store
	"invoiceflow/internal/utils" // Utility functions
)

// AdminUserSummary represents the per-user slice of the admin overview
type AdminUserSummary struct {
	ID    string `json:"id"`    // User ID
	Email string `json:"email"` // Email address
	Tier  string `json:"tier"`  // Subscription tier
}

// AdminOverview is the admin overview response body
type AdminOverview struct {
	Users         []AdminUserSummary `json:"users"`          // Every registered user
	TotalInvoices int64              `json:"total_invoices"` // Invoice count across all users
}

// AdminOverviewHandler returns every user plus the global invoice count.
// The identity header is read by the route's middleware but the admin
// role is not verified.
func AdminOverviewHandler(st store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		var cached AdminOverview    // Cached overview, if any
		// Try to get cached response
		found, err := utils.GetCache(ctx, rdb, utils.AdminOverviewKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, cached) // Return the cached overview
			return
		}
		// Fetch every user document
		users, err := st.ListUsers(c.Request.Context())
		if err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		// Count invoices across all users
		total, err := st.CountInvoices(c.Request.Context())
		if err != nil {
			// If counting fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count invoices"})
			return
		}
		// Project users to the overview shape
		overview := AdminOverview{
			Users:         make([]AdminUserSummary, len(users)),
			TotalInvoices: total,
		}
		for i, u := range users {
			overview.Users[i] = AdminUserSummary{
				ID:    u.ID.Hex(),         // User ID
				Email: u.Email,            // Email address
				Tier:  u.SubscriptionTier, // Subscription tier
			}
		}
		// Cache the overview for future requests
		_ = utils.SetCache(ctx, rdb, utils.AdminOverviewKey, overview, 60*time.Second)
		c.JSON(http.StatusOK, overview) // Return the overview
	}
}
