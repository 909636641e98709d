package store

import (
	"context"
	"errors"

	"invoiceflow/internal/domain"
)

// ErrInvalidID reports a document id that the store cannot parse.
var ErrInvalidID = errors.New("invalid document id")

// Store defines persistence operations over the "user" and "invoice"
// collections. Every method maps onto one of the document-store
// primitives: insert, find-by-filter, or a single filtered update.
type Store interface {
	// users
	CreateUser(ctx context.Context, u *domain.User) (string, error)
	ListUsers(ctx context.Context) ([]domain.User, error)

	// invoices
	CreateInvoice(ctx context.Context, inv *domain.Invoice) (string, error)
	ListInvoices(ctx context.Context, userID string) ([]domain.Invoice, error)
	// PatchInvoice applies a patch by invoice id alone. Used by the
	// post-extraction step, which runs before any ownership question arises.
	PatchInvoice(ctx context.Context, invoiceID string, patch domain.InvoicePatch) (int64, error)
	// UpdateInvoice applies a patch scoped to both invoice id and owner.
	// Returns the matched count; zero means wrong owner or nonexistent id.
	UpdateInvoice(ctx context.Context, invoiceID, userID string, patch domain.InvoicePatch) (int64, error)
	CountInvoices(ctx context.Context) (int64, error)

	// connectivity probe support
	Ping(ctx context.Context) error
	Collections(ctx context.Context) ([]string, error)
}
