package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joelgonn/enfermaria-api/entities"
	"github.com/joelgonn/enfermaria-api/interfaces"
)

// Compile-time check to ensure AdministrationStorePG implements AdministrationStore
var _ interfaces.AdministrationStore = (*AdministrationStorePG)(nil)

const administrationCols = `id, prescription_id, administered_at, administered_by`

// AdministrationStorePG is the Postgres dose-log store. The log is
// append-only: there is no update or single-record delete, records only
// disappear when their prescription cascades away.
type AdministrationStorePG struct {
	pool *pgxpool.Pool
}

// NewAdministrationStore creates an AdministrationStorePG over the given pool.
func NewAdministrationStore(pool *pgxpool.Pool) *AdministrationStorePG {
	return &AdministrationStorePG{pool: pool}
}

// Create appends one dose event.
func (s *AdministrationStorePG) Create(ctx context.Context, rec *entities.AdministrationRecord) error {
	rec.ID = uuid.New()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO administration_records (id, prescription_id, administered_at, administered_by)
		VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.PrescriptionID, rec.AdministeredAt, rec.AdministeredBy)
	if err != nil {
		return fmt.Errorf("failed to insert administration record: %w", err)
	}
	return nil
}

// ListByPrescription returns the dose log for one prescription, newest
// first.
func (s *AdministrationStorePG) ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]entities.AdministrationRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+administrationCols+`
		FROM administration_records
		WHERE prescription_id = $1
		ORDER BY administered_at DESC`, prescriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list administration records: %w", err)
	}
	defer rows.Close()

	var records []entities.AdministrationRecord
	for rows.Next() {
		var rec entities.AdministrationRecord
		if err := rows.Scan(&rec.ID, &rec.PrescriptionID, &rec.AdministeredAt, &rec.AdministeredBy); err != nil {
			return nil, fmt.Errorf("failed to scan administration record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LastByPrescription returns the most recent dose for the prescription,
// or nil when none has been logged yet.
func (s *AdministrationStorePG) LastByPrescription(ctx context.Context, prescriptionID uuid.UUID) (*entities.AdministrationRecord, error) {
	var rec entities.AdministrationRecord
	err := s.pool.QueryRow(ctx, `
		SELECT `+administrationCols+`
		FROM administration_records
		WHERE prescription_id = $1
		ORDER BY administered_at DESC
		LIMIT 1`, prescriptionID).
		Scan(&rec.ID, &rec.PrescriptionID, &rec.AdministeredAt, &rec.AdministeredBy)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch last administration record: %w", err)
	}
	return &rec, nil
}

// LastDoses returns the newest record per prescription in one query.
func (s *AdministrationStorePG) LastDoses(ctx context.Context) (map[uuid.UUID]entities.AdministrationRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (prescription_id) `+administrationCols+`
		FROM administration_records
		ORDER BY prescription_id, administered_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch last doses: %w", err)
	}
	defer rows.Close()

	last := make(map[uuid.UUID]entities.AdministrationRecord)
	for rows.Next() {
		var rec entities.AdministrationRecord
		if err := rows.Scan(&rec.ID, &rec.PrescriptionID, &rec.AdministeredAt, &rec.AdministeredBy); err != nil {
			return nil, fmt.Errorf("failed to scan administration record: %w", err)
		}
		last[rec.PrescriptionID] = rec
	}
	return last, rows.Err()
}
