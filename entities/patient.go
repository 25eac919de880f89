// Package entities defines the data records exchanged between the API,
// the Postgres store and the scheduling/allergy core.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// Patient is one checked-in attendee. Allergies is free text entered by
// staff and is the sole input to conflict detection.
type Patient struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Guardian  string    `json:"guardian"`
	Allergies string    `json:"allergies"`
	Notes     string    `json:"notes"`
	Present   bool      `json:"present"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
