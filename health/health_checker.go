// Package health provides health checking functionality for the
// infirmary API: database reachability plus catalog cache freshness.
package health

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/joelgonn/enfermaria-api/interfaces"
)

// Compile-time check to ensure HealthCheckerImpl implements the interface
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

const pingTimeout = 2 * time.Second

// Pinger is the slice of the connection pool the checker needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckerImpl implements interfaces.HealthChecker over the database
// pool and the catalog cache.
type HealthCheckerImpl struct {
	db    Pinger
	cache interfaces.CatalogCache
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(db Pinger, cache interfaces.CatalogCache) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		db:    db,
		cache: cache,
	}
}

// HealthCheck reports overall status. The database is the hard
// dependency: without it no dose can be recorded, so a failed ping is
// unhealthy. An empty or stale catalog only degrades autocomplete.
func (h *HealthCheckerImpl) HealthCheck(ctx context.Context) (string, map[string]any, int) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	database := "up"
	pingErr := h.db.Ping(pingCtx)
	if pingErr != nil {
		database = "down"
	}

	entries := h.cache.Entries()
	lastUpdate := h.cache.GetLastUpdated()
	catalogAge := time.Since(lastUpdate)

	var status string
	var httpStatus int
	switch {
	case pingErr != nil:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case len(entries) == 0 || catalogAge > 48*time.Hour:
		status = "degraded"
		httpStatus = http.StatusOK
	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	details := map[string]any{
		"database":            database,
		"catalog_entries":     len(entries),
		"catalog_last_update": lastUpdate.Format(time.RFC3339),
		"catalog_age_hours":   math.Round(catalogAge.Hours()*10) / 10,
		"is_updating":         h.cache.IsUpdating(),
		"uptime":              time.Since(h.cache.GetServerStartTime()).Round(time.Second).String(),
	}

	return status, details, httpStatus
}
