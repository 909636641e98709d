package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"invoiceflow/internal/domain"
)

// MemoryStore is a mutex-guarded in-process Store used by tests.
// Ids are real ObjectID hex strings so id parsing behaves like Mongo's.
type MemoryStore struct {
	mu       sync.RWMutex
	users    []domain.User
	invoices []domain.Invoice
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) CreateUser(_ context.Context, u *domain.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = primitive.NewObjectID()
	m.users = append(m.users, *u)
	return u.ID.Hex(), nil
}

func (m *MemoryStore) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.User, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *MemoryStore) CreateInvoice(_ context.Context, inv *domain.Invoice) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv.ID = primitive.NewObjectID()
	m.invoices = append(m.invoices, *inv)
	return inv.ID.Hex(), nil
}

func (m *MemoryStore) ListInvoices(_ context.Context, userID string) ([]domain.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.Invoice{}
	for _, inv := range m.invoices {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *MemoryStore) PatchInvoice(_ context.Context, invoiceID string, patch domain.InvoicePatch) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(invoiceID)
	if err != nil {
		return 0, ErrInvalidID
	}
	return m.apply(oid, "", patch), nil
}

func (m *MemoryStore) UpdateInvoice(_ context.Context, invoiceID, userID string, patch domain.InvoicePatch) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(invoiceID)
	if err != nil {
		return 0, ErrInvalidID
	}
	return m.apply(oid, userID, patch), nil
}

// apply patches the first invoice matching id (and owner, when non-empty)
// and returns the matched count.
func (m *MemoryStore) apply(oid primitive.ObjectID, userID string, patch domain.InvoicePatch) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.invoices {
		inv := &m.invoices[i]
		if inv.ID != oid {
			continue
		}
		if userID != "" && inv.UserID != userID {
			continue
		}
		if patch.InvoiceNumber != nil {
			inv.InvoiceNumber = *patch.InvoiceNumber
		}
		if patch.VendorName != nil {
			inv.VendorName = *patch.VendorName
		}
		if patch.Date != nil {
			inv.Date = *patch.Date
		}
		if patch.TotalAmount != nil {
			amount := *patch.TotalAmount
			inv.TotalAmount = &amount
		}
		if patch.Status != nil {
			inv.Status = *patch.Status
		}
		return 1
	}
	return 0
}

func (m *MemoryStore) CountInvoices(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.invoices)), nil
}

func (m *MemoryStore) Ping(_ context.Context) error { return nil }

func (m *MemoryStore) Collections(_ context.Context) ([]string, error) {
	return []string{userCollection, invoiceCollection}, nil
}
