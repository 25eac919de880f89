package entities

import "github.com/google/uuid"

// DrugCatalogEntry feeds the autocomplete suggestions only; conflict
// detection never consults the catalog.
type DrugCatalogEntry struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
