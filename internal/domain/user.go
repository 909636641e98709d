package domain

import (
	"time" // Creation timestamps

	"go.mongodb.org/mongo-driver/bson/primitive" // MongoDB ObjectID type
)

// Subscription tiers
const (
	TierFree = "Free" // Free tier: 50 extraction credits
	TierPro  = "Pro"  // Pro tier: 1000 extraction credits
)

// User roles
const (
	RoleAdmin    = "admin"    // Admin role
	RoleCustomer = "customer" // Default role
)

// User model, stored in the "user" collection
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`                // Assigned by the store on insert
	Name             string             `bson:"name" json:"name"`                                 // Full name
	Email            string             `bson:"email" json:"email"`                               // Email address (no uniqueness check)
	SubscriptionTier string             `bson:"subscription_tier" json:"subscription_tier"`       // "Free" or "Pro"
	CreditsRemaining int                `bson:"credits_remaining" json:"credits_remaining"`       // Remaining extraction credits
	Role             string             `bson:"role" json:"role"`                                 // "admin" or "customer"
	CreatedAt        time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"` // Creation timestamp
}

// CreditsForTier returns the starting credit balance for a subscription tier
func CreditsForTier(tier string) int {
	if tier == TierFree {
		return 50 // Free tier allowance
	}
	return 1000 // Every other accepted tier
}
