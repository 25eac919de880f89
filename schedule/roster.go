package schedule

import (
	"sort"

	"github.com/joelgonn/enfermaria-api/entities"
)

// PrescriptionStatus pairs a prescription with its evaluation for display.
type PrescriptionStatus struct {
	Prescription entities.Prescription `json:"prescription"`
	Evaluation
}

// RosterEntry is one patient on the ward roster with all prescriptions
// evaluated and the aggregate (worst) status.
type RosterEntry struct {
	Patient       entities.Patient     `json:"patient"`
	Prescriptions []PrescriptionStatus `json:"prescriptions"`
	Status        Status               `json:"status"`
}

// statusRank orders statuses from most to least urgent. A patient with no
// medications ranks lowest, below everything else, not as "good".
var statusRank = map[Status]int{
	StatusOverdue:       5,
	StatusDueSoon:       4,
	StatusOnSchedule:    3,
	StatusNotYetGiven:   2,
	StatusUnparseable:   1,
	StatusNoMedications: 0,
}

// WorstStatus aggregates a patient's prescription statuses into the single
// worst one. An empty list means the patient has no medications.
func WorstStatus(prescriptions []PrescriptionStatus) Status {
	worst := StatusNoMedications
	for _, ps := range prescriptions {
		if statusRank[ps.Status] > statusRank[worst] {
			worst = ps.Status
		}
	}
	return worst
}

// Prioritize sorts roster entries in place, worst aggregate status first.
// The sort is stable: entries with equal rank keep their incoming order,
// which callers provide ordered by patient name.
func Prioritize(entries []RosterEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return statusRank[entries[i].Status] > statusRank[entries[j].Status]
	})
}
