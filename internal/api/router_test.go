package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"invoiceflow/internal/middleware"
	"invoiceflow/internal/storage"
	"invoiceflow/internal/store"
)

// newTestServer wires the full route table against an in-memory store,
// a temp upload directory, and a miniredis-backed cache.
func newTestServer(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	auth := middleware.HeaderAuthenticator{}

	r := gin.New()
	r.GET("/health", HealthHandler())
	r.GET("/", RootHandler())
	r.GET("/test", TestDatabaseHandler(st))
	r.POST("/api/users", CreateUserHandler(st, rdb))
	r.GET("/api/admin/overview", middleware.OptionalIdentity(auth), AdminOverviewHandler(st, rdb))
	invoiceGroup := r.Group("/api/invoices")
	invoiceGroup.Use(middleware.RequireIdentity(auth))
	invoiceGroup.POST("/upload", UploadInvoiceHandler(st, files, rdb))
	invoiceGroup.GET("", ListInvoicesHandler(st, rdb))
	invoiceGroup.POST("/update", UpdateInvoiceHandler(st, rdb))
	invoiceGroup.GET("/export", ExportInvoicesHandler(st, files))
	return r, st
}

// doJSON performs a request with an optional JSON body and identity header.
func doJSON(t *testing.T, r *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.IdentityHeader, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// uploadFile posts a multipart invoice file as the given user.
func uploadFile(t *testing.T, r *gin.Engine, userID, fileName string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 test payload"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/invoices/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if userID != "" {
		req.Header.Set(middleware.IdentityHeader, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body into out.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
