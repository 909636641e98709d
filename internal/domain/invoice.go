package domain

import (
	"time" // Creation timestamps

	"go.mongodb.org/mongo-driver/bson/primitive" // MongoDB ObjectID type
)

// Invoice review statuses
const (
	StatusProcessing  = "Processing"   // Just uploaded, extraction pending
	StatusNeedsReview = "Needs Review" // Extraction finished, awaiting human review
	StatusApproved    = "Approved"     // Reviewed and accepted
)

// ValidStatus reports whether s is one of the three review statuses
func ValidStatus(s string) bool {
	return s == StatusProcessing || s == StatusNeedsReview || s == StatusApproved
}

// Invoice model, stored in the "invoice" collection. The derived fields
// (invoice number, vendor, date, amount) are filled by the extraction step.
type Invoice struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`                        // Assigned by the store on insert
	UserID        string             `bson:"user_id" json:"user_id"`                                   // Owning user's id (not referentially enforced)
	FilePath      string             `bson:"file_path,omitempty" json:"file_path,omitempty"`           // Server-local path of the stored file
	FileName      string             `bson:"file_name,omitempty" json:"file_name,omitempty"`           // Original client-supplied name
	InvoiceNumber string             `bson:"invoice_number,omitempty" json:"invoice_number,omitempty"` // Derived
	VendorName    string             `bson:"vendor_name,omitempty" json:"vendor_name,omitempty"`       // Derived
	Date          string             `bson:"date,omitempty" json:"date,omitempty"`                     // Derived, ISO calendar date string
	TotalAmount   *float64           `bson:"total_amount,omitempty" json:"total_amount,omitempty"`     // Derived, >= 0 when present
	Status        string             `bson:"status,omitempty" json:"status,omitempty"`                 // One of the three review statuses
	CreatedAt     time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`         // Creation timestamp
}

// InvoicePatch carries a partial invoice update. A nil field means
// "do not change"; there is no way to clear a field back to empty.
type InvoicePatch struct {
	InvoiceNumber *string  `bson:"invoice_number,omitempty"` // New invoice number
	VendorName    *string  `bson:"vendor_name,omitempty"`    // New vendor name
	Date          *string  `bson:"date,omitempty"`           // New date string
	TotalAmount   *float64 `bson:"total_amount,omitempty"`   // New total amount
	Status        *string  `bson:"status,omitempty"`         // New review status
}

// IsEmpty reports whether the patch changes nothing
func (p InvoicePatch) IsEmpty() bool {
	return p.InvoiceNumber == nil && p.VendorName == nil && p.Date == nil &&
		p.TotalAmount == nil && p.Status == nil
}
