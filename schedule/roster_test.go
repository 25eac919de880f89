package schedule

import (
	"testing"

	"github.com/joelgonn/enfermaria-api/entities"
)

func entryWithStatuses(name string, statuses ...Status) RosterEntry {
	var prescriptions []PrescriptionStatus
	for _, s := range statuses {
		prescriptions = append(prescriptions, PrescriptionStatus{
			Prescription: entities.Prescription{DrugName: "dipirona"},
			Evaluation:   Evaluation{Status: s},
		})
	}
	return RosterEntry{
		Patient:       entities.Patient{Name: name},
		Prescriptions: prescriptions,
		Status:        WorstStatus(prescriptions),
	}
}

func TestWorstStatus(t *testing.T) {
	testCases := []struct {
		statuses []Status
		expected Status
	}{
		{[]Status{StatusOnSchedule, StatusOverdue, StatusDueSoon}, StatusOverdue},
		{[]Status{StatusOnSchedule, StatusDueSoon}, StatusDueSoon},
		{[]Status{StatusOnSchedule}, StatusOnSchedule},
		{[]Status{StatusUnparseable, StatusNotYetGiven}, StatusNotYetGiven},
		{[]Status{}, StatusNoMedications},
	}

	for _, tc := range testCases {
		var prescriptions []PrescriptionStatus
		for _, s := range tc.statuses {
			prescriptions = append(prescriptions, PrescriptionStatus{Evaluation: Evaluation{Status: s}})
		}
		if got := WorstStatus(prescriptions); got != tc.expected {
			t.Errorf("WorstStatus(%v) = %s, expected %s", tc.statuses, got, tc.expected)
		}
	}
}

func TestPrioritizeWorstFirst(t *testing.T) {
	entries := []RosterEntry{
		entryWithStatuses("Ana", StatusOnSchedule),
		entryWithStatuses("Bruno", StatusOverdue),
		entryWithStatuses("Clara", StatusDueSoon),
	}

	Prioritize(entries)

	expected := []string{"Bruno", "Clara", "Ana"}
	for i, name := range expected {
		if entries[i].Patient.Name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, entries[i].Patient.Name)
		}
	}
}

func TestPrioritizeStableOnTies(t *testing.T) {
	// Name-ordered input; equal ranks must keep that order
	entries := []RosterEntry{
		entryWithStatuses("Ana", StatusOverdue),
		entryWithStatuses("Bruno", StatusOnSchedule),
		entryWithStatuses("Clara", StatusOverdue),
		entryWithStatuses("Diego"),
		entryWithStatuses("Elisa", StatusOnSchedule),
	}

	Prioritize(entries)

	expected := []string{"Ana", "Clara", "Bruno", "Elisa", "Diego"}
	for i, name := range expected {
		if entries[i].Patient.Name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, entries[i].Patient.Name)
		}
	}
}

func TestPrioritizeNoMedicationsRanksLast(t *testing.T) {
	entries := []RosterEntry{
		entryWithStatuses("Ana"),
		entryWithStatuses("Bruno", StatusUnparseable),
	}

	Prioritize(entries)

	if entries[0].Patient.Name != "Bruno" {
		t.Error("Expected a patient with an unparseable prescription to rank above one with no medications")
	}
}
