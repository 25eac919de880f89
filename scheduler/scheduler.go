// Package scheduler runs the background jobs of the infirmary API: the
// drug catalog refresh into the in-memory cache and the periodic overdue
// sweep that keeps the gauge and the log honest between roster views.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/joelgonn/enfermaria-api/entities"
	"github.com/joelgonn/enfermaria-api/formulary"
	"github.com/joelgonn/enfermaria-api/interfaces"
	"github.com/joelgonn/enfermaria-api/logging"
	"github.com/joelgonn/enfermaria-api/metrics"
	"github.com/joelgonn/enfermaria-api/schedule"
)

// Compile-time check to ensure Scheduler implements the Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

const (
	jobTimeout     = 30 * time.Second
	sweepInterval  = 5 // minutes
	catalogRefresh = "05:00"
)

// Scheduler handles catalog refreshes and the overdue sweep using
// dependency injection.
type Scheduler struct {
	catalog         interfaces.CatalogStore
	prescriptions   interfaces.PrescriptionStore
	administrations interfaces.AdministrationStore
	cache           interfaces.CatalogCache
	evaluator       *schedule.Evaluator
	scheduler       *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(
	catalog interfaces.CatalogStore,
	prescriptions interfaces.PrescriptionStore,
	administrations interfaces.AdministrationStore,
	cache interfaces.CatalogCache,
	evaluator *schedule.Evaluator,
) *Scheduler {
	return &Scheduler{
		catalog:         catalog,
		prescriptions:   prescriptions,
		administrations: administrations,
		cache:           cache,
		evaluator:       evaluator,
		scheduler:       gocron.NewScheduler(time.Local),
	}
}

// Start seeds the catalog, loads the cache and registers the recurring
// jobs.
func (s *Scheduler) Start() error {
	if err := s.SeedCatalog(); err != nil {
		logging.Error("Failed to seed drug catalog", "error", err)
		return fmt.Errorf("catalog seed failed: %w", err)
	}

	if err := s.RefreshCatalog(); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	if _, err := s.scheduler.Every(1).Days().At(catalogRefresh).Do(func() {
		if err := s.RefreshCatalog(); err != nil {
			logging.Error("Failed to refresh catalog", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule catalog refresh: %w", err)
	}

	if _, err := s.scheduler.Every(sweepInterval).Minutes().Do(func() {
		if err := s.SweepOverdue(); err != nil {
			logging.Error("Overdue sweep failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule overdue sweep: %w", err)
	}

	s.scheduler.StartAsync()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// SeedCatalog inserts the formulary's canonical drug names into the
// catalog table. The insert is ON CONFLICT DO NOTHING, so names staff
// have already entered and earlier seeds are left alone.
func (s *Scheduler) SeedCatalog() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	for _, name := range formulary.CanonicalNames() {
		entry := entities.DrugCatalogEntry{Name: name}
		if err := s.catalog.Create(ctx, &entry); err != nil {
			return fmt.Errorf("failed to seed catalog entry %q: %w", name, err)
		}
	}

	logging.Info("Drug catalog seeded", "name_count", len(formulary.CanonicalNames()))

	return nil
}

// RefreshCatalog swaps the in-memory catalog for a fresh copy from the
// database. Concurrent refreshes are skipped, not queued.
func (s *Scheduler) RefreshCatalog() error {
	if !s.cache.BeginUpdate() {
		logging.Info("Catalog update already in progress, skipping...")
		return nil
	}
	defer s.cache.EndUpdate()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	entries, err := s.catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load drug catalog: %w", err)
	}

	s.cache.UpdateEntries(entries)

	logging.Info("Catalog cache refreshed",
		"entry_count", len(entries),
		"duration", time.Since(start).String())

	return nil
}

// SweepOverdue evaluates every prescription and updates the overdue gauge
// so a dashboard shows missed doses even when nobody has the roster open.
func (s *Scheduler) SweepOverdue() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	prescriptions, err := s.prescriptions.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list prescriptions: %w", err)
	}

	lastDoses, err := s.administrations.LastDoses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load last doses: %w", err)
	}

	now := time.Now()
	overdue := 0
	for _, p := range prescriptions {
		var lastDose *entities.AdministrationRecord
		if rec, ok := lastDoses[p.ID]; ok {
			rec := rec
			lastDose = &rec
		}
		evaluation := s.evaluator.Evaluate(p, lastDose, now)
		if evaluation.Status == schedule.StatusOverdue {
			overdue++
			logging.Warn("Prescription overdue",
				"prescription_id", p.ID,
				"patient_id", p.PatientID,
				"drug", p.DrugName,
				"due_at", evaluation.DueAt)
		}
	}

	metrics.PrescriptionsOverdue.Set(float64(overdue))

	return nil
}
