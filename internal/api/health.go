package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"invoiceflow/internal/store" // Document store
)

// HealthHandler reports process liveness
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true}) // Always healthy when serving
	}
}

// RootHandler identifies the service
func RootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": "InvoiceFlow AI", "status": "ok"})
	}
}

// TestDatabaseHandler probes store connectivity and lists collections
func TestDatabaseHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := gin.H{
			"backend":     "running",       // The HTTP process itself is up
			"database":    "not connected", // Pessimistic default
			"collections": []string{},      // Empty until the probe succeeds
		}
		// Ping the store to verify connectivity
		if err := st.Ping(c.Request.Context()); err != nil {
			resp["error"] = err.Error() // Report the probe failure
			c.JSON(http.StatusOK, resp)
			return
		}
		resp["database"] = "connected" // Probe succeeded
		// List collection names as a deeper connectivity check
		names, err := st.Collections(c.Request.Context())
		if err != nil {
			resp["error"] = err.Error() // Report the listing failure
			c.JSON(http.StatusOK, resp)
			return
		}
		resp["collections"] = names // Attach the collection names
		c.JSON(http.StatusOK, resp)
	}
}
