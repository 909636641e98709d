package api

import (
	"bytes"        // CSV buffer
	"context"      // Context for Redis operations
	"encoding/csv" // CSV export encoding
	"errors"       // Sentinel error checks
	"net/http"     // HTTP status codes
	"strconv"      // Number formatting
	"time"         // Time durations and timestamps

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library

	"invoiceflow/internal/domain"     // Importing domain models
	"invoiceflow/internal/extract"    // Filename extraction heuristic
	"invoiceflow/internal/middleware" // Identity context key
	"invoiceflow/internal/storage"    // Local file store
	"invoiceflow/internal/store"      // Document store
	"invoiceflow/internal/utils"      // Utility functions
)

// InvoiceSummary is the per-invoice projection returned by the list endpoint
type InvoiceSummary struct {
	ID            string   `json:"id"`             // Invoice ID
	FileName      string   `json:"file_name"`      // Original client-supplied name
	InvoiceNumber string   `json:"invoice_number"` // Derived invoice number
	VendorName    string   `json:"vendor_name"`    // Derived vendor name
	Date          *string  `json:"date"`           // ISO calendar date string, null when unset
	TotalAmount   *float64 `json:"total_amount"`   // Total amount, null when unset
	Status        string   `json:"status"`         // Review status, defaulted to Processing
}

// summarize projects an invoice document to its list representation
func summarize(inv domain.Invoice) InvoiceSummary {
	s := InvoiceSummary{
		ID:            inv.ID.Hex(),      // Invoice ID
		FileName:      inv.FileName,      // Original file name
		InvoiceNumber: inv.InvoiceNumber, // Derived invoice number
		VendorName:    inv.VendorName,    // Derived vendor name
		TotalAmount:   inv.TotalAmount,   // Null when extraction never ran
		Status:        inv.Status,        // Review status
	}
	if inv.Date != "" {
		date := inv.Date
		s.Date = &date // Expose the date string, null otherwise
	}
	if s.Status == "" {
		s.Status = domain.StatusProcessing // Default status if unset
	}
	return s
}

// UploadInvoiceHandler accepts a multipart invoice file, stores it on disk,
// records the invoice, runs the extraction heuristic, and returns the
// merged result. Everything happens synchronously within this handler.
func UploadInvoiceHandler(st store.Store, files *storage.FileStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(middleware.IdentityKey) // Set by the identity middleware
		// Read the multipart file field
		fileHeader, err := c.FormFile("file")
		if err != nil {
			// If the file part is missing, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		src, err := fileHeader.Open() // Open the uploaded part for reading
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
			return
		}
		defer src.Close()
		// Persist the raw bytes under a collision-resistant name
		path, err := files.SaveUpload(fileHeader.Filename, src)
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":   userID,              // Owner user ID
				"file_name": fileHeader.Filename, // Original file name
				"error":     err.Error(),         // Error message
			}).Error("Failed to store upload") // Log storage failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
			return
		}
		now := time.Now() // Single timestamp for the record and the heuristic defaults
		// Insert the placeholder invoice document
		inv := domain.Invoice{
			UserID:    userID,                  // Owner user ID (existence not checked)
			FilePath:  path,                    // Server-local storage path
			FileName:  fileHeader.Filename,     // Original file name
			Status:    domain.StatusProcessing, // Derived fields still empty
			CreatedAt: now,                     // Creation timestamp
		}
		id, err := st.CreateInvoice(c.Request.Context(), &inv)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
			return
		}
		// Run the extraction heuristic over the original file name
		res := extract.FromFileName(fileHeader.Filename, now)
		status := domain.StatusNeedsReview // Extraction finished, ready for review
		patch := domain.InvoicePatch{
			InvoiceNumber: &res.InvoiceNumber, // Derived invoice number
			VendorName:    &res.VendorName,    // Derived vendor name
			Date:          &res.Date,          // Derived date string
			TotalAmount:   &res.TotalAmount,   // Derived amount
			Status:        &status,            // Persist the reported status
		}
		// Patch the invoice with the derived fields. A failure here is
		// logged but not surfaced; the caller still gets the merged view.
		if _, err := st.PatchInvoice(c.Request.Context(), id, patch); err != nil {
			logrus.WithFields(logrus.Fields{
				"invoice_id": id,          // Invoice that kept its placeholder fields
				"user_id":    userID,      // Owner user ID
				"error":      err.Error(), // Error message
			}).Error("Failed to apply extracted fields") // Log patch failure
		}
		// Log successful upload
		logrus.WithFields(logrus.Fields{
			"invoice_id": id,                  // New invoice ID
			"user_id":    userID,              // Owner user ID
			"file_name":  fileHeader.Filename, // Original file name
			"vendor":     res.VendorName,      // Derived vendor
			"amount":     res.TotalAmount,     // Derived amount
		}).Info("Invoice uploaded") // Log upload success
		// Invalidate caches that depend on this user's invoices
		ctx := context.Background()                                   // Context for Redis operations
		_ = utils.DeleteCache(ctx, rdb, utils.InvoiceListKey(userID)) // Invalidate the owner's list cache
		_ = utils.DeleteCache(ctx, rdb, utils.AdminOverviewKey)       // Invalidate the global invoice count
		// Return the merged record view
		c.JSON(http.StatusOK, gin.H{
			"id":             id,                       // New invoice ID
			"vendor_name":    res.VendorName,           // Derived vendor name
			"invoice_number": res.InvoiceNumber,        // Derived invoice number
			"total_amount":   res.TotalAmount,          // Derived amount
			"date":           res.Date,                 // Derived date string
			"status":         domain.StatusNeedsReview, // Reported review status
		})
	}
}

// ListInvoicesHandler returns the caller's invoices as summaries
func ListInvoicesHandler(st store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(middleware.IdentityKey) // Set by the identity middleware
		ctx := context.Background()                   // Context for Redis operations
		cacheKey := utils.InvoiceListKey(userID)      // Cache key for this user's list
		var cached []InvoiceSummary                   // Cached summaries, if any
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, cached) // Return cached summaries
			return
		}
		// Fetch the caller's invoice documents
		invoices, err := st.ListInvoices(c.Request.Context(), userID)
		if err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
			return
		}
		// Project each document to its summary
		summaries := make([]InvoiceSummary, len(invoices))
		for i, inv := range invoices {
			summaries[i] = summarize(inv)
		}
		// Cache the result for 60 seconds
		_ = utils.SetCache(ctx, rdb, cacheKey, summaries, 60*time.Second)
		c.JSON(http.StatusOK, summaries) // Return the summaries
	}
}

// UpdateInvoiceRequest represents a partial invoice update. Nil or empty
// fields are left unchanged; there is no way to clear a field.
type UpdateInvoiceRequest struct {
	InvoiceID     string   `json:"invoice_id" binding:"required"` // Target invoice must be named
	InvoiceNumber *string  `json:"invoice_number"`                // New invoice number
	VendorName    *string  `json:"vendor_name"`                   // New vendor name
	Date          *string  `json:"date"`                          // New date string
	TotalAmount   *float64 `json:"total_amount"`                  // New total amount
	Status        *string  `json:"status"`                        // New review status
}

// patch converts the request into a store patch, dropping empty strings
func (r UpdateInvoiceRequest) patch() domain.InvoicePatch {
	p := domain.InvoicePatch{
		InvoiceNumber: nonEmpty(r.InvoiceNumber), // Skip empty values
		VendorName:    nonEmpty(r.VendorName),    // Skip empty values
		Date:          nonEmpty(r.Date),          // Skip empty values
		TotalAmount:   r.TotalAmount,             // Nil means unchanged
		Status:        nonEmpty(r.Status),        // Skip empty values
	}
	return p
}

// nonEmpty treats a pointer to the empty string as absent
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// UpdateInvoiceHandler applies a partial update scoped to the caller's
// own invoice. Updating another user's invoice matches nothing.
func UpdateInvoiceHandler(st store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(middleware.IdentityKey) // Set by the identity middleware
		var req UpdateInvoiceRequest                  // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		patch := req.patch() // Collect the fields that actually change
		if patch.IsEmpty() {
			// Nothing to change is a malformed update
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		// Reject negative amounts
		if patch.TotalAmount != nil && *patch.TotalAmount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "total_amount must be non-negative"})
			return
		}
		// Reject unknown statuses
		if patch.Status != nil && !domain.ValidStatus(*patch.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		// Apply the update scoped to both invoice id and owner
		matched, err := st.UpdateInvoice(c.Request.Context(), req.InvoiceID, userID, patch)
		if err != nil {
			// A malformed id is a client error
			if errors.Is(err, store.ErrInvalidID) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"invoice_id": req.InvoiceID, // Target invoice ID
				"user_id":    userID,        // Caller user ID
				"error":      err.Error(),   // Error message
			}).Error("Failed to update invoice") // Log update failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invoice"})
			return
		}
		// Zero matches means wrong owner or nonexistent id
		if matched == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
			return
		}
		// Invalidate the owner's list cache
		_ = utils.DeleteCache(context.Background(), rdb, utils.InvoiceListKey(userID))
		c.JSON(http.StatusOK, gin.H{"ok": true}) // Return success
	}
}

// csvHeader is the fixed export column order
var csvHeader = []string{"Invoice Number", "Vendor", "Date", "Total Amount", "Status", "File Name"}

// ExportInvoicesHandler streams the caller's invoices as CSV. The snapshot
// is also written to local storage, overwriting any prior export for the
// same owner.
func ExportInvoicesHandler(st store.Store, files *storage.FileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(middleware.IdentityKey) // Set by the identity middleware
		// Fetch the caller's invoice documents
		invoices, err := st.ListInvoices(c.Request.Context(), userID)
		if err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
			return
		}
		// Build the CSV in memory
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write(csvHeader) // Header row
		for _, inv := range invoices {
			amount := "" // Empty string for any missing field
			if inv.TotalAmount != nil {
				amount = strconv.FormatFloat(*inv.TotalAmount, 'f', -1, 64)
			}
			_ = w.Write([]string{
				inv.InvoiceNumber, // Invoice Number
				inv.VendorName,    // Vendor
				inv.Date,          // Date
				amount,            // Total Amount
				inv.Status,        // Status
				inv.FileName,      // File Name
			})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode CSV"})
			return
		}
		// Write the snapshot to local storage before returning it
		fileName := "invoices_" + userID + ".csv"
		path, err := files.WriteFile(fileName, buf.Bytes())
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Owner user ID
				"error":   err.Error(), // Error message
			}).Error("Failed to write CSV export") // Log export failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write CSV export"})
			return
		}
		c.FileAttachment(path, fileName) // Return the CSV file download
	}
}
