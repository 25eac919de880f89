package data

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joelgonn/enfermaria-api/entities"
)

func catalogEntries(names ...string) []entities.DrugCatalogEntry {
	entries := make([]entities.DrugCatalogEntry, len(names))
	for i, name := range names {
		entries[i] = entities.DrugCatalogEntry{ID: uuid.New(), Name: name}
	}
	return entries
}

func TestNewCatalogContainerIsEmpty(t *testing.T) {
	cc := NewCatalogContainer()

	if got := cc.Entries(); len(got) != 0 {
		t.Errorf("Expected empty catalog, got %d entries", len(got))
	}
	if !cc.GetLastUpdated().IsZero() {
		t.Error("Expected zero last-updated on a fresh container")
	}
	if cc.IsUpdating() {
		t.Error("Expected fresh container to not be updating")
	}
}

func TestUpdateEntries(t *testing.T) {
	cc := NewCatalogContainer()
	cc.UpdateEntries(catalogEntries("Dipirona", "Paracetamol"))

	if got := cc.Entries(); len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if cc.GetLastUpdated().IsZero() {
		t.Error("Expected last-updated to be set after a refresh")
	}
}

func TestSuggest(t *testing.T) {
	cc := NewCatalogContainer()
	cc.UpdateEntries(catalogEntries("Dipirona Sódica", "Paracetamol", "Ácido Acetilsalicílico", "Ibuprofeno"))

	testCases := []struct {
		fragment string
		expected int
	}{
		{"dipi", 1},
		{"DIPIRONA", 1},
		// Accent-insensitive both ways
		{"acido", 1},
		{"ácido", 1},
		{"parac", 1},
		{"xyz", 0},
		// Fragments shorter than two characters are ignored
		{"d", 0},
		{"", 0},
	}

	for _, tc := range testCases {
		got := cc.Suggest(tc.fragment, 10)
		if len(got) != tc.expected {
			t.Errorf("Suggest(%q) returned %d entries, expected %d", tc.fragment, len(got), tc.expected)
		}
	}
}

func TestSuggestLimit(t *testing.T) {
	cc := NewCatalogContainer()
	cc.UpdateEntries(catalogEntries("Amoxicilina", "Ampicilina", "Amiodarona"))

	if got := cc.Suggest("am", 2); len(got) != 2 {
		t.Errorf("Expected the limit to cap results at 2, got %d", len(got))
	}
	if got := cc.Suggest("am", 0); got != nil {
		t.Errorf("Expected nil for a zero limit, got %v", got)
	}
}

func TestBeginEndUpdate(t *testing.T) {
	cc := NewCatalogContainer()

	if !cc.BeginUpdate() {
		t.Fatal("Expected BeginUpdate to succeed on an idle container")
	}
	if cc.BeginUpdate() {
		t.Error("Expected a second BeginUpdate to fail while updating")
	}
	if !cc.IsUpdating() {
		t.Error("Expected IsUpdating during an update")
	}

	cc.EndUpdate()
	if cc.IsUpdating() {
		t.Error("Expected IsUpdating to clear after EndUpdate")
	}
	if !cc.BeginUpdate() {
		t.Error("Expected BeginUpdate to succeed again after EndUpdate")
	}
}

func TestConcurrentReadsDuringUpdate(t *testing.T) {
	cc := NewCatalogContainer()
	cc.UpdateEntries(catalogEntries("Dipirona"))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = cc.Suggest("dipi", 5)
					_ = cc.Entries()
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		cc.UpdateEntries(catalogEntries("Dipirona", "Paracetamol"))
	}
	time.Sleep(10 * time.Millisecond)
	close(stop)
	wg.Wait()

	if len(cc.Entries()) != 2 {
		t.Errorf("Expected 2 entries after the final update, got %d", len(cc.Entries()))
	}
}

func TestServerStartTime(t *testing.T) {
	cc := NewCatalogContainer()
	start := time.Now()

	cc.SetServerStartTime(start)

	if !cc.GetServerStartTime().Equal(start) {
		t.Errorf("Expected server start time %v, got %v", start, cc.GetServerStartTime())
	}
}
