package entities

import (
	"time"

	"github.com/google/uuid"
)

// Prescription is one drug order for a patient. Interval is free text as
// written by staff (e.g. "8/8h", "a cada 6 horas"); StartTime is the
// time-of-day of the first dose in "HH:MM" form.
type Prescription struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patientId"`
	DrugName  string    `json:"drugName"`
	Dosage    string    `json:"dosage"`
	Interval  string    `json:"interval"`
	StartTime string    `json:"startTime"`
	CreatedAt time.Time `json:"createdAt"`
}
