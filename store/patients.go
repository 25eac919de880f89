package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joelgonn/enfermaria-api/entities"
	"github.com/joelgonn/enfermaria-api/interfaces"
)

// Compile-time check to ensure PatientStorePG implements PatientStore
var _ interfaces.PatientStore = (*PatientStorePG)(nil)

const patientCols = `id, name, guardian, allergies, notes, present, created_at, updated_at`

// PatientStorePG is the Postgres patient store.
type PatientStorePG struct {
	pool *pgxpool.Pool
}

// NewPatientStore creates a PatientStorePG over the given pool.
func NewPatientStore(pool *pgxpool.Pool) *PatientStorePG {
	return &PatientStorePG{pool: pool}
}

func scanPatient(row pgx.Row) (*entities.Patient, error) {
	var p entities.Patient
	err := row.Scan(&p.ID, &p.Name, &p.Guardian, &p.Allergies, &p.Notes, &p.Present, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// Create inserts a new patient, assigning its id and timestamps.
func (s *PatientStorePG) Create(ctx context.Context, p *entities.Patient) error {
	p.ID = uuid.New()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO patients (id, name, guardian, allergies, notes, present, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Guardian, p.Allergies, p.Notes, p.Present, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert patient: %w", err)
	}
	return nil
}

// GetByID fetches one patient, returning ErrNotFound when absent.
func (s *PatientStorePG) GetByID(ctx context.Context, id uuid.UUID) (*entities.Patient, error) {
	return scanPatient(s.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

// List returns patients ordered by name, optionally only present ones.
func (s *PatientStorePG) List(ctx context.Context, onlyPresent bool) ([]entities.Patient, error) {
	query := `SELECT ` + patientCols + ` FROM patients`
	if onlyPresent {
		query += ` WHERE present`
	}
	query += ` ORDER BY name`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var patients []entities.Patient
	for rows.Next() {
		var p entities.Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Guardian, &p.Allergies, &p.Notes, &p.Present, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

// Update rewrites the mutable patient fields.
func (s *PatientStorePG) Update(ctx context.Context, p *entities.Patient) error {
	p.UpdatedAt = time.Now()

	tag, err := s.pool.Exec(ctx, `
		UPDATE patients
		SET name = $2, guardian = $3, allergies = $4, notes = $5, present = $6, updated_at = $7
		WHERE id = $1`,
		p.ID, p.Name, p.Guardian, p.Allergies, p.Notes, p.Present, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a patient; prescriptions and their records cascade.
func (s *PatientStorePG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
