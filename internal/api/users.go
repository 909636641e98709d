package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"time"     // Creation timestamps

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library

	"invoiceflow/internal/domain" // Importing domain models
	"invoiceflow/internal/store"  // Document store
	"invoiceflow/internal/utils"  // Utility functions
)

// CreateUserRequest represents a user registration request
type CreateUserRequest struct {
	Name             string `json:"name" binding:"required"`  // Full name must be provided
	Email            string `json:"email" binding:"required"` // Email must be provided (no syntax or uniqueness check)
	SubscriptionTier string `json:"subscription_tier"`        // Optional, defaults to Free
	Role             string `json:"role"`                     // Optional, defaults to customer
}

// CreateUserHandler registers a new user and returns its assigned id
func CreateUserHandler(st store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Apply defaults for the optional fields
		if req.SubscriptionTier == "" {
			req.SubscriptionTier = domain.TierFree // Default tier
		}
		if req.Role == "" {
			req.Role = domain.RoleCustomer // Default role
		}
		// Build the user document with tier-derived credits
		user := domain.User{
			Name:             req.Name,
			Email:            req.Email,
			SubscriptionTier: req.SubscriptionTier,
			CreditsRemaining: domain.CreditsForTier(req.SubscriptionTier), // 50 for Free, 1000 otherwise
			Role:             req.Role,
			CreatedAt:        time.Now(),
		}
		// Insert the user document
		id, err := st.CreateUser(c.Request.Context(), &user)
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"email": req.Email,   // Email of the attempted registration
				"error": err.Error(), // Error message
			}).Error("Failed to create user") // Log registration failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		// Invalidate the admin overview cache since the user list changed
		_ = utils.DeleteCache(context.Background(), rdb, utils.AdminOverviewKey)
		// Return the newly assigned identifier
		c.JSON(http.StatusOK, gin.H{"id": id})
	}
}
