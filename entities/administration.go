package entities

import (
	"time"

	"github.com/google/uuid"
)

// AdministrationRecord is one logged dose event. Records are append-only;
// a prescription's last dose is the record with the maximum AdministeredAt.
type AdministrationRecord struct {
	ID             uuid.UUID `json:"id"`
	PrescriptionID uuid.UUID `json:"prescriptionId"`
	AdministeredAt time.Time `json:"administeredAt"`
	AdministeredBy string    `json:"administeredBy"`
}
