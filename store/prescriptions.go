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

// Compile-time check to ensure PrescriptionStorePG implements PrescriptionStore
var _ interfaces.PrescriptionStore = (*PrescriptionStorePG)(nil)

const prescriptionCols = `id, patient_id, drug_name, dosage, interval_text, start_time, created_at`

// PrescriptionStorePG is the Postgres prescription store.
type PrescriptionStorePG struct {
	pool *pgxpool.Pool
}

// NewPrescriptionStore creates a PrescriptionStorePG over the given pool.
func NewPrescriptionStore(pool *pgxpool.Pool) *PrescriptionStorePG {
	return &PrescriptionStorePG{pool: pool}
}

func scanPrescription(row pgx.Row) (*entities.Prescription, error) {
	var p entities.Prescription
	err := row.Scan(&p.ID, &p.PatientID, &p.DrugName, &p.Dosage, &p.Interval, &p.StartTime, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// Create inserts a new prescription, assigning its id.
func (s *PrescriptionStorePG) Create(ctx context.Context, p *entities.Prescription) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO prescriptions (id, patient_id, drug_name, dosage, interval_text, start_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.PatientID, p.DrugName, p.Dosage, p.Interval, p.StartTime, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert prescription: %w", err)
	}
	return nil
}

// GetByID fetches one prescription, returning ErrNotFound when absent.
func (s *PrescriptionStorePG) GetByID(ctx context.Context, id uuid.UUID) (*entities.Prescription, error) {
	return scanPrescription(s.pool.QueryRow(ctx,
		`SELECT `+prescriptionCols+` FROM prescriptions WHERE id = $1`, id))
}

// ListByPatient returns a patient's prescriptions in creation order.
func (s *PrescriptionStorePG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]entities.Prescription, error) {
	return s.list(ctx, `SELECT `+prescriptionCols+` FROM prescriptions WHERE patient_id = $1 ORDER BY created_at`, patientID)
}

// ListAll returns every prescription, used by the roster and the overdue
// sweep.
func (s *PrescriptionStorePG) ListAll(ctx context.Context) ([]entities.Prescription, error) {
	return s.list(ctx, `SELECT `+prescriptionCols+` FROM prescriptions ORDER BY created_at`)
}

func (s *PrescriptionStorePG) list(ctx context.Context, query string, args ...any) ([]entities.Prescription, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	defer rows.Close()

	var prescriptions []entities.Prescription
	for rows.Next() {
		var p entities.Prescription
		if err := rows.Scan(&p.ID, &p.PatientID, &p.DrugName, &p.Dosage, &p.Interval, &p.StartTime, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prescription: %w", err)
		}
		prescriptions = append(prescriptions, p)
	}
	return prescriptions, rows.Err()
}

// Delete removes a prescription; its administration records cascade.
func (s *PrescriptionStorePG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
