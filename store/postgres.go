// Package store implements the persistence interfaces against Postgres
// using pgx connection pools. The store is the only component that issues
// queries; the scheduling and allergy core only sees fetched records.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Connect opens a pgx pool against databaseURL and verifies it with a
// ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// Migrate creates the schema when it does not exist yet. Administration
// records cascade on prescription delete, prescriptions cascade on
// patient delete.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS patients (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			guardian TEXT NOT NULL DEFAULT '',
			allergies TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			present BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS prescriptions (
			id UUID PRIMARY KEY,
			patient_id UUID NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
			drug_name TEXT NOT NULL,
			dosage TEXT NOT NULL DEFAULT '',
			interval_text TEXT NOT NULL,
			start_time TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS administration_records (
			id UUID PRIMARY KEY,
			prescription_id UUID NOT NULL REFERENCES prescriptions(id) ON DELETE CASCADE,
			administered_at TIMESTAMPTZ NOT NULL,
			administered_by TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS drug_catalog (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prescriptions_patient ON prescriptions(patient_id)`,
		`CREATE INDEX IF NOT EXISTS idx_administrations_prescription
			ON administration_records(prescription_id, administered_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// notFound maps pgx.ErrNoRows to the package sentinel.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
