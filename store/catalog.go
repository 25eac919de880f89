package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joelgonn/enfermaria-api/entities"
	"github.com/joelgonn/enfermaria-api/interfaces"
)

// Compile-time check to ensure CatalogStorePG implements CatalogStore
var _ interfaces.CatalogStore = (*CatalogStorePG)(nil)

// CatalogStorePG is the Postgres drug-catalog store.
type CatalogStorePG struct {
	pool *pgxpool.Pool
}

// NewCatalogStore creates a CatalogStorePG over the given pool.
func NewCatalogStore(pool *pgxpool.Pool) *CatalogStorePG {
	return &CatalogStorePG{pool: pool}
}

// List returns the whole catalog ordered by name.
func (s *CatalogStorePG) List(ctx context.Context) ([]entities.DrugCatalogEntry, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM drug_catalog ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drug catalog: %w", err)
	}
	defer rows.Close()

	var entries []entities.DrugCatalogEntry
	for rows.Next() {
		var e entities.DrugCatalogEntry
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Create inserts a catalog entry, ignoring duplicates by name.
func (s *CatalogStorePG) Create(ctx context.Context, e *entities.DrugCatalogEntry) error {
	e.ID = uuid.New()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO drug_catalog (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING`, e.ID, e.Name)
	if err != nil {
		return fmt.Errorf("failed to insert catalog entry: %w", err)
	}
	return nil
}
