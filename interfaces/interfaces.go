// Package interfaces defines the core abstractions of the infirmary API:
// persistence stores, the in-memory catalog cache, background jobs and
// health checks. Handlers and the scheduler depend on these contracts
// rather than concrete implementations.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/joelgonn/enfermaria-api/entities"
)

// PatientStore persists checked-in attendees.
type PatientStore interface {
	Create(ctx context.Context, p *entities.Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Patient, error)
	// List returns patients ordered by name. With onlyPresent set, absent
	// patients are filtered out.
	List(ctx context.Context, onlyPresent bool) ([]entities.Patient, error)
	Update(ctx context.Context, p *entities.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PrescriptionStore persists drug orders. Deleting a prescription removes
// its administration records (cascade), deleting a patient removes both.
type PrescriptionStore interface {
	Create(ctx context.Context, p *entities.Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Prescription, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]entities.Prescription, error)
	ListAll(ctx context.Context) ([]entities.Prescription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdministrationStore persists the append-only dose log.
type AdministrationStore interface {
	Create(ctx context.Context, rec *entities.AdministrationRecord) error
	ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]entities.AdministrationRecord, error)
	// LastByPrescription returns the record with the maximum timestamp for
	// the prescription, or nil when no dose has been logged.
	LastByPrescription(ctx context.Context, prescriptionID uuid.UUID) (*entities.AdministrationRecord, error)
	// LastDoses returns the most recent record per prescription in one
	// round trip, keyed by prescription id.
	LastDoses(ctx context.Context) (map[uuid.UUID]entities.AdministrationRecord, error)
}

// CatalogStore persists the drug catalog used for autocomplete.
type CatalogStore interface {
	List(ctx context.Context) ([]entities.DrugCatalogEntry, error)
	Create(ctx context.Context, e *entities.DrugCatalogEntry) error
}

// CatalogCache is the in-memory, atomically swapped copy of the drug
// catalog that serves autocomplete without a database round trip.
type CatalogCache interface {
	Entries() []entities.DrugCatalogEntry
	Suggest(fragment string, limit int) []entities.DrugCatalogEntry
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	UpdateEntries(entries []entities.DrugCatalogEntry)
	BeginUpdate() bool
	EndUpdate()
}

// Scheduler manages the background jobs: catalog refresh and the overdue
// sweep.
type Scheduler interface {
	Start() error
	Stop()
}

// HTTPHandler is the contract the router wires against. Every endpoint of
// the API is a method here so the server package never depends on the
// concrete handler implementation.
type HTTPHandler interface {
	ListPatients(w http.ResponseWriter, r *http.Request)
	CreatePatient(w http.ResponseWriter, r *http.Request)
	GetPatient(w http.ResponseWriter, r *http.Request)
	UpdatePatient(w http.ResponseWriter, r *http.Request)
	DeletePatient(w http.ResponseWriter, r *http.Request)

	ListPrescriptions(w http.ResponseWriter, r *http.Request)
	CreatePrescription(w http.ResponseWriter, r *http.Request)
	DeletePrescription(w http.ResponseWriter, r *http.Request)

	ListAdministrations(w http.ResponseWriter, r *http.Request)
	RecordAdministration(w http.ResponseWriter, r *http.Request)

	CheckConflict(w http.ResponseWriter, r *http.Request)
	ServeRoster(w http.ResponseWriter, r *http.Request)
	ServeSuggestions(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker reports system health for the /health endpoint.
type HealthChecker interface {
	HealthCheck(ctx context.Context) (status string, details map[string]any, httpStatus int)
}
