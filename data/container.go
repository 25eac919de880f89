// Package data provides the thread-safe in-memory drug catalog used for
// autocomplete suggestions. The catalog is swapped atomically on refresh,
// so readers never see a partially updated list.
package data

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/joelgonn/enfermaria-api/entities"
	"github.com/joelgonn/enfermaria-api/interfaces"
	"github.com/joelgonn/enfermaria-api/logging"
	"github.com/joelgonn/enfermaria-api/normalize"
)

// Compile-time check to ensure CatalogContainer implements CatalogCache
var _ interfaces.CatalogCache = (*CatalogContainer)(nil)

// catalogSnapshot pairs the entries with their pre-normalized names so
// suggestion lookups do not re-normalize the whole catalog per request.
type catalogSnapshot struct {
	entries    []entities.DrugCatalogEntry
	normalized []string
}

// CatalogContainer holds the drug catalog with atomic pointers for
// zero-downtime refreshes.
type CatalogContainer struct {
	snapshot        atomic.Value // catalogSnapshot
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewCatalogContainer creates a new CatalogContainer with an empty catalog
func NewCatalogContainer() *CatalogContainer {
	cc := &CatalogContainer{}
	cc.snapshot.Store(catalogSnapshot{})
	cc.lastUpdated.Store(time.Time{})
	cc.serverStartTime.Store(time.Time{})
	return cc
}

func (cc *CatalogContainer) load() catalogSnapshot {
	if v := cc.snapshot.Load(); v != nil {
		if snap, ok := v.(catalogSnapshot); ok {
			return snap
		}
	}

	logging.Warn("Catalog snapshot is empty or invalid")
	return catalogSnapshot{}
}

// Entries returns the current catalog entries
func (cc *CatalogContainer) Entries() []entities.DrugCatalogEntry {
	return cc.load().entries
}

// Suggest returns up to limit catalog entries whose normalized name
// contains the normalized fragment. Fragments shorter than two characters
// return nothing, matching the autocomplete behavior in the UI.
func (cc *CatalogContainer) Suggest(fragment string, limit int) []entities.DrugCatalogEntry {
	needle := normalize.Text(fragment)
	if len(needle) < 2 || limit <= 0 {
		return nil
	}

	snap := cc.load()
	var matches []entities.DrugCatalogEntry
	for i, name := range snap.normalized {
		if strings.Contains(name, needle) {
			matches = append(matches, snap.entries[i])
			if len(matches) == limit {
				break
			}
		}
	}
	return matches
}

// UpdateEntries atomically replaces the catalog contents
func (cc *CatalogContainer) UpdateEntries(entries []entities.DrugCatalogEntry) {
	normalized := make([]string, len(entries))
	for i := range entries {
		normalized[i] = normalize.Text(entries[i].Name)
	}

	cc.snapshot.Store(catalogSnapshot{entries: entries, normalized: normalized})
	cc.lastUpdated.Store(time.Now())
}

// GetLastUpdated returns the timestamp of the last catalog refresh
func (cc *CatalogContainer) GetLastUpdated() time.Time {
	if v := cc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a catalog refresh is currently in progress
func (cc *CatalogContainer) IsUpdating() bool {
	return cc.updating.Load()
}

// BeginUpdate marks a refresh as started. It returns false when another
// refresh is already running.
func (cc *CatalogContainer) BeginUpdate() bool {
	return cc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the running refresh as finished
func (cc *CatalogContainer) EndUpdate() {
	cc.updating.Store(false)
}

// SetServerStartTime sets the server start time
func (cc *CatalogContainer) SetServerStartTime(startTime time.Time) {
	cc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (cc *CatalogContainer) GetServerStartTime() time.Time {
	if v := cc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}
