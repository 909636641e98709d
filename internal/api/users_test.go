package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceflow/internal/domain"
)

func TestCreateUserFreeTierCredits(t *testing.T) {
	r, st := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/users", "", map[string]any{
		"name":  "Alice",
		"email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &resp)
	assert.NotEmpty(t, resp.ID)

	users, err := st.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.TierFree, users[0].SubscriptionTier)
	assert.Equal(t, 50, users[0].CreditsRemaining)
	assert.Equal(t, domain.RoleCustomer, users[0].Role)
}

func TestCreateUserNonFreeTierCredits(t *testing.T) {
	r, st := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/users", "", map[string]any{
		"name":              "Bob",
		"email":             "bob@example.com",
		"subscription_tier": domain.TierPro,
		"role":              domain.RoleAdmin,
	})
	require.Equal(t, http.StatusOK, w.Code)

	users, err := st.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.TierPro, users[0].SubscriptionTier)
	assert.Equal(t, 1000, users[0].CreditsRemaining)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)
}

func TestCreateUserRequiresNameAndEmail(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/users", "", map[string]any{
		"name": "No Email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateUserAllowsDuplicateEmails(t *testing.T) {
	r, st := newTestServer(t)

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/users", "", map[string]any{
			"name":  "Twin",
			"email": "twin@example.com",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	users, err := st.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestAdminOverview(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/users", "", map[string]any{
		"name": "Alice", "email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/users", "", map[string]any{
		"name": "Bob", "email": "bob@example.com", "subscription_tier": domain.TierPro,
	})
	require.Equal(t, http.StatusOK, w.Code)

	upload := uploadFile(t, r, "some-user", "acme_10.pdf")
	require.Equal(t, http.StatusOK, upload.Code)

	// no identity header needed: the overview reads but never verifies it
	w = doJSON(t, r, http.MethodGet, "/api/admin/overview", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var overview AdminOverview
	decodeBody(t, w, &overview)
	require.Len(t, overview.Users, 2)
	assert.Equal(t, "alice@example.com", overview.Users[0].Email)
	assert.Equal(t, domain.TierFree, overview.Users[0].Tier)
	assert.Equal(t, "bob@example.com", overview.Users[1].Email)
	assert.Equal(t, domain.TierPro, overview.Users[1].Tier)
	assert.Equal(t, int64(1), overview.TotalInvoices)
}

func TestAdminOverviewCacheInvalidatedByWrites(t *testing.T) {
	r, _ := newTestServer(t)

	// prime the cache with an empty overview
	w := doJSON(t, r, http.MethodGet, "/api/admin/overview", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// registering a user and uploading an invoice both invalidate it
	w = doJSON(t, r, http.MethodPost, "/api/users", "", map[string]any{
		"name": "Carol", "email": "carol@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	upload := uploadFile(t, r, "carol-id", "acme_10.pdf")
	require.Equal(t, http.StatusOK, upload.Code)

	w = doJSON(t, r, http.MethodGet, "/api/admin/overview", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var overview AdminOverview
	decodeBody(t, w, &overview)
	assert.Len(t, overview.Users, 1)
	assert.Equal(t, int64(1), overview.TotalInvoices)
}

func TestHealthAndRoot(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"InvoiceFlow AI","status":"ok"}`, w.Body.String())
}

func TestDatabaseProbe(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/test", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var probe struct {
		Backend     string   `json:"backend"`
		Database    string   `json:"database"`
		Collections []string `json:"collections"`
	}
	decodeBody(t, w, &probe)
	assert.Equal(t, "running", probe.Backend)
	assert.Equal(t, "connected", probe.Database)
	assert.Equal(t, []string{"user", "invoice"}, probe.Collections)
}
