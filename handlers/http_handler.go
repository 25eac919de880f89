// Package handlers provides the HTTP request handlers for the infirmary
// API: patient records, prescriptions, the dose log, allergy conflict
// checks, the ward roster and catalog autocomplete. Handlers depend on
// the store and cache contracts only, never on concrete implementations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joelgonn/enfermaria-api/entities"
	"github.com/joelgonn/enfermaria-api/interfaces"
	"github.com/joelgonn/enfermaria-api/logging"
	"github.com/joelgonn/enfermaria-api/schedule"
	"github.com/joelgonn/enfermaria-api/store"
	"github.com/joelgonn/enfermaria-api/validation"
)

// HTTPHandlerImpl implements interfaces.HTTPHandler with injected
// dependencies for testability.
type HTTPHandlerImpl struct {
	patients        interfaces.PatientStore
	prescriptions   interfaces.PrescriptionStore
	administrations interfaces.AdministrationStore
	catalog         interfaces.CatalogCache
	health          interfaces.HealthChecker
	evaluator       *schedule.Evaluator

	// now is swapped out in tests for deterministic clocks.
	now func() time.Time
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies.
func NewHTTPHandler(
	patients interfaces.PatientStore,
	prescriptions interfaces.PrescriptionStore,
	administrations interfaces.AdministrationStore,
	catalog interfaces.CatalogCache,
	health interfaces.HealthChecker,
	evaluator *schedule.Evaluator,
) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		patients:        patients,
		prescriptions:   prescriptions,
		administrations: administrations,
		catalog:         catalog,
		health:          health,
		evaluator:       evaluator,
		now:             time.Now,
	}
}

// RespondWithJSON writes a JSON response with the given status code.
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response.
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	h.RespondWithJSON(w, code, map[string]string{"error": message})
}

// respondStoreError maps store errors onto HTTP status codes. Not-found
// becomes 404, anything else is a 500 that gets logged but not leaked.
func (h *HTTPHandlerImpl) respondStoreError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		h.RespondWithError(w, http.StatusNotFound, what+" not found")
		return
	}
	logging.Error("Store operation failed", "what", what, "error", err)
	h.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
}

// urlUUID parses the named chi URL parameter as a UUID.
func urlUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// decodeJSON decodes the request body into dst, rejecting unknown fields
// so typos in payloads fail loudly instead of being silently dropped.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ListPatients returns all patients ordered by name. With ?present=true
// only checked-in patients are returned.
func (h *HTTPHandlerImpl) ListPatients(w http.ResponseWriter, r *http.Request) {
	onlyPresent := r.URL.Query().Get("present") == "true"

	patients, err := h.patients.List(r.Context(), onlyPresent)
	if err != nil {
		h.respondStoreError(w, err, "patients")
		return
	}
	if patients == nil {
		patients = []entities.Patient{}
	}

	h.RespondWithJSON(w, http.StatusOK, patients)
}

// CreatePatient checks in a new patient.
func (h *HTTPHandlerImpl) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var patient entities.Patient
	if err := decodeJSON(r, &patient); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.ValidatePatient(&patient); err != nil {
		logging.Warn("Rejected patient payload", "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.patients.Create(r.Context(), &patient); err != nil {
		h.respondStoreError(w, err, "patient")
		return
	}

	logging.Info("Patient created", "patient_id", patient.ID, "name", patient.Name)
	h.RespondWithJSON(w, http.StatusCreated, patient)
}

// GetPatient returns a single patient by id.
func (h *HTTPHandlerImpl) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "patientID")
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid patient id")
		return
	}

	patient, err := h.patients.GetByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err, "patient")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, patient)
}

// patientPatch carries the optional fields of a PATCH /patients request.
// Pointers distinguish "absent" from "set to zero value".
type patientPatch struct {
	Name      *string `json:"name"`
	Guardian  *string `json:"guardian"`
	Allergies *string `json:"allergies"`
	Notes     *string `json:"notes"`
	Present   *bool   `json:"present"`
}

// UpdatePatient applies a partial update to a patient record.
func (h *HTTPHandlerImpl) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "patientID")
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid patient id")
		return
	}

	var patch patientPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patient, err := h.patients.GetByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err, "patient")
		return
	}

	if patch.Name != nil {
		patient.Name = *patch.Name
	}
	if patch.Guardian != nil {
		patient.Guardian = *patch.Guardian
	}
	if patch.Allergies != nil {
		patient.Allergies = *patch.Allergies
	}
	if patch.Notes != nil {
		patient.Notes = *patch.Notes
	}
	if patch.Present != nil {
		patient.Present = *patch.Present
	}

	if err := validation.ValidatePatient(patient); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.patients.Update(r.Context(), patient); err != nil {
		h.respondStoreError(w, err, "patient")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, patient)
}

// DeletePatient removes a patient and, by cascade, their prescriptions
// and dose log.
func (h *HTTPHandlerImpl) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "patientID")
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid patient id")
		return
	}

	if err := h.patients.Delete(r.Context(), id); err != nil {
		h.respondStoreError(w, err, "patient")
		return
	}

	logging.Info("Patient deleted", "patient_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck returns server health information.
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.health.HealthCheck(r.Context())

	response := map[string]any{"status": status}
	for k, v := range details {
		response[k] = v
	}

	h.RespondWithJSON(w, httpStatus, response)
}
