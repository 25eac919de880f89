package handlers

import (
	"net/http"
	"time"

	"github.com/joelgonn/enfermaria-api/allergy"
	"github.com/joelgonn/enfermaria-api/auth"
	"github.com/joelgonn/enfermaria-api/entities"
	"github.com/joelgonn/enfermaria-api/logging"
	"github.com/joelgonn/enfermaria-api/metrics"
	"github.com/joelgonn/enfermaria-api/schedule"
	"github.com/joelgonn/enfermaria-api/validation"
)

// ListPrescriptions returns a patient's prescriptions, each with its
// current schedule evaluation so the client does not need a second call.
func (h *HTTPHandlerImpl) ListPrescriptions(w http.ResponseWriter, r *http.Request) {
	patientID, err := urlUUID(r, "patientID")
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid patient id")
		return
	}

	if _, err := h.patients.GetByID(r.Context(), patientID); err != nil {
		h.respondStoreError(w, err, "patient")
		return
	}

	prescriptions, err := h.prescriptions.ListByPatient(r.Context(), patientID)
	if err != nil {
		h.respondStoreError(w, err, "prescriptions")
		return
	}

	now := h.now()
	statuses := make([]schedule.PrescriptionStatus, 0, len(prescriptions))
	for _, p := range prescriptions {
		lastDose, err := h.administrations.LastByPrescription(r.Context(), p.ID)
		if err != nil {
			h.respondStoreError(w, err, "administrations")
			return
		}
		statuses = append(statuses, schedule.PrescriptionStatus{
			Prescription: p,
			Evaluation:   h.evaluator.Evaluate(p, lastDose, now),
		})
	}

	h.RespondWithJSON(w, http.StatusOK, statuses)
}

// CreatePrescription adds a drug order for a patient. The allergy matcher
// runs here too so staff see a warning at prescription time, but a
// conflicting prescription is still stored: the hard gate is at
// administration.
func (h *HTTPHandlerImpl) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	patientID, err := urlUUID(r, "patientID")
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid patient id")
		return
	}

	patient, err := h.patients.GetByID(r.Context(), patientID)
	if err != nil {
		h.respondStoreError(w, err, "patient")
		return
	}

	var prescription entities.Prescription
	if err := decodeJSON(r, &prescription); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	prescription.PatientID = patientID

	if err := validation.ValidatePrescription(&prescription); err != nil {
		logging.Warn("Rejected prescription payload", "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.prescriptions.Create(r.Context(), &prescription); err != nil {
		h.respondStoreError(w, err, "prescription")
		return
	}

	conflict := allergy.Check(prescription.DrugName, patient.Allergies)
	if conflict != nil {
		logging.Warn("Prescription created with allergy conflict",
			"patient_id", patientID,
			"drug", prescription.DrugName,
			"reason", conflict.Reason)
	}

	response := map[string]any{"prescription": prescription}
	if conflict != nil {
		response["conflict"] = conflict
	}

	h.RespondWithJSON(w, http.StatusCreated, response)
}

// DeletePrescription removes a prescription and its dose log (cascade).
func (h *HTTPHandlerImpl) DeletePrescription(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "prescriptionID")
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid prescription id")
		return
	}

	if err := h.prescriptions.Delete(r.Context(), id); err != nil {
		h.respondStoreError(w, err, "prescription")
		return
	}

	logging.Info("Prescription deleted", "prescription_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListAdministrations returns the dose log for a prescription, newest
// first.
func (h *HTTPHandlerImpl) ListAdministrations(w http.ResponseWriter, r *http.Request) {
	prescriptionID, err := urlUUID(r, "prescriptionID")
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid prescription id")
		return
	}

	if _, err := h.prescriptions.GetByID(r.Context(), prescriptionID); err != nil {
		h.respondStoreError(w, err, "prescription")
		return
	}

	records, err := h.administrations.ListByPrescription(r.Context(), prescriptionID)
	if err != nil {
		h.respondStoreError(w, err, "administrations")
		return
	}
	if records == nil {
		records = []entities.AdministrationRecord{}
	}

	h.RespondWithJSON(w, http.StatusOK, records)
}

// administerRequest is the body of POST .../administrations. A missing
// timestamp defaults to now; Acknowledged confirms a previously reported
// allergy conflict.
type administerRequest struct {
	AdministeredAt *time.Time `json:"administeredAt"`
	Acknowledged   bool       `json:"acknowledged"`
}

// maxDoseClockSkew tolerates client clocks slightly ahead of the server.
// Anything further in the future would become the prescription's last
// dose and push the next due time forward, so it is rejected.
const maxDoseClockSkew = 5 * time.Minute

// RecordAdministration logs a dose. The allergy matcher runs first: on a
// conflict without acknowledgment nothing is written and the warning is
// returned with a 409 so the client can ask the operator to confirm.
func (h *HTTPHandlerImpl) RecordAdministration(w http.ResponseWriter, r *http.Request) {
	prescriptionID, err := urlUUID(r, "prescriptionID")
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid prescription id")
		return
	}

	prescription, err := h.prescriptions.GetByID(r.Context(), prescriptionID)
	if err != nil {
		h.respondStoreError(w, err, "prescription")
		return
	}

	patient, err := h.patients.GetByID(r.Context(), prescription.PatientID)
	if err != nil {
		h.respondStoreError(w, err, "patient")
		return
	}

	var req administerRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	conflict := allergy.Check(prescription.DrugName, patient.Allergies)
	if conflict != nil && !req.Acknowledged {
		metrics.AllergyConflictsTotal.WithLabelValues("blocked").Inc()
		logging.Warn("Dose blocked by allergy conflict",
			"patient_id", patient.ID,
			"prescription_id", prescriptionID,
			"drug", prescription.DrugName,
			"reason", conflict.Reason)
		h.RespondWithJSON(w, http.StatusConflict, map[string]any{
			"error":                  "allergy conflict",
			"conflict":               conflict,
			"requiresAcknowledgment": true,
		})
		return
	}

	administeredAt := h.now()
	if req.AdministeredAt != nil {
		if req.AdministeredAt.After(administeredAt.Add(maxDoseClockSkew)) {
			h.RespondWithError(w, http.StatusBadRequest, "administeredAt cannot be in the future")
			return
		}
		administeredAt = *req.AdministeredAt
	}

	record := entities.AdministrationRecord{
		PrescriptionID: prescriptionID,
		AdministeredAt: administeredAt,
		AdministeredBy: auth.OperatorFromContext(r.Context()),
	}
	if err := h.administrations.Create(r.Context(), &record); err != nil {
		h.respondStoreError(w, err, "administration")
		return
	}

	metrics.DosesRecordedTotal.Inc()
	if conflict != nil {
		metrics.AllergyConflictsTotal.WithLabelValues("acknowledged").Inc()
	}
	logging.Info("Dose recorded",
		"patient_id", patient.ID,
		"prescription_id", prescriptionID,
		"drug", prescription.DrugName,
		"operator", record.AdministeredBy,
		"acknowledged_conflict", conflict != nil)

	response := map[string]any{"record": record}
	if conflict != nil {
		response["conflict"] = conflict
	}

	h.RespondWithJSON(w, http.StatusCreated, response)
}
