package health

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/joelgonn/enfermaria-api/data"
	"github.com/joelgonn/enfermaria-api/entities"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

func freshCache() *data.CatalogContainer {
	cache := data.NewCatalogContainer()
	cache.SetServerStartTime(time.Now())
	cache.UpdateEntries([]entities.DrugCatalogEntry{{ID: uuid.New(), Name: "Paracetamol"}})
	return cache
}

func TestHealthCheckHealthy(t *testing.T) {
	checker := NewHealthChecker(&mockPinger{}, freshCache())

	status, details, httpStatus := checker.HealthCheck(context.Background())

	if status != "healthy" {
		t.Errorf("Expected healthy, got %s", status)
	}
	if httpStatus != http.StatusOK {
		t.Errorf("Expected status 200, got %d", httpStatus)
	}
	if details["database"] != "up" {
		t.Errorf("Expected database up, got %v", details["database"])
	}
	if details["catalog_entries"] != 1 {
		t.Errorf("Expected 1 catalog entry, got %v", details["catalog_entries"])
	}
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	checker := NewHealthChecker(&mockPinger{err: errors.New("connection refused")}, freshCache())

	status, details, httpStatus := checker.HealthCheck(context.Background())

	if status != "unhealthy" {
		t.Errorf("Expected unhealthy, got %s", status)
	}
	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", httpStatus)
	}
	if details["database"] != "down" {
		t.Errorf("Expected database down, got %v", details["database"])
	}
}

func TestHealthCheckEmptyCatalogDegrades(t *testing.T) {
	cache := data.NewCatalogContainer()
	cache.SetServerStartTime(time.Now())
	checker := NewHealthChecker(&mockPinger{}, cache)

	status, _, httpStatus := checker.HealthCheck(context.Background())

	if status != "degraded" {
		t.Errorf("Expected degraded, got %s", status)
	}
	if httpStatus != http.StatusOK {
		t.Errorf("Expected status 200, got %d", httpStatus)
	}
}
