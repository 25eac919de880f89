package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joelgonn/enfermaria-api/allergy"
	"github.com/joelgonn/enfermaria-api/entities"
	"github.com/joelgonn/enfermaria-api/schedule"
	"github.com/joelgonn/enfermaria-api/validation"
)

// suggestionLimit caps autocomplete responses.
const suggestionLimit = 20

// conflictCheckRequest is the body of POST /conflicts/check. Either a
// patient id or raw allergy text must be supplied with the drug name.
type conflictCheckRequest struct {
	DrugName  string     `json:"drugName"`
	PatientID *uuid.UUID `json:"patientId"`
	Allergies *string    `json:"allergies"`
}

// CheckConflict runs the allergy matcher without writing anything, so
// staff can check a drug against a patient before prescribing it.
func (h *HTTPHandlerImpl) CheckConflict(w http.ResponseWriter, r *http.Request) {
	var req conflictCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.DrugName == "" {
		h.RespondWithError(w, http.StatusBadRequest, "drugName is required")
		return
	}
	if err := validation.ValidateInput(req.DrugName); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var allergies string
	switch {
	case req.PatientID != nil:
		patient, err := h.patients.GetByID(r.Context(), *req.PatientID)
		if err != nil {
			h.respondStoreError(w, err, "patient")
			return
		}
		allergies = patient.Allergies
	case req.Allergies != nil:
		allergies = *req.Allergies
	default:
		h.RespondWithError(w, http.StatusBadRequest, "patientId or allergies is required")
		return
	}

	response := map[string]any{
		"drugName": req.DrugName,
		"conflict": allergy.Check(req.DrugName, allergies),
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}

// ServeRoster returns every present patient with all prescriptions
// evaluated against the clock, sorted most urgent first. Ties keep the
// store's name ordering.
func (h *HTTPHandlerImpl) ServeRoster(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	patients, err := h.patients.List(ctx, true)
	if err != nil {
		h.respondStoreError(w, err, "patients")
		return
	}

	prescriptions, err := h.prescriptions.ListAll(ctx)
	if err != nil {
		h.respondStoreError(w, err, "prescriptions")
		return
	}

	lastDoses, err := h.administrations.LastDoses(ctx)
	if err != nil {
		h.respondStoreError(w, err, "administrations")
		return
	}

	byPatient := make(map[uuid.UUID][]entities.Prescription, len(patients))
	for _, p := range prescriptions {
		byPatient[p.PatientID] = append(byPatient[p.PatientID], p)
	}

	now := h.now()
	entries := make([]schedule.RosterEntry, 0, len(patients))
	for _, patient := range patients {
		var statuses []schedule.PrescriptionStatus
		for _, p := range byPatient[patient.ID] {
			var lastDose *entities.AdministrationRecord
			if rec, ok := lastDoses[p.ID]; ok {
				rec := rec
				lastDose = &rec
			}
			statuses = append(statuses, schedule.PrescriptionStatus{
				Prescription: p,
				Evaluation:   h.evaluator.Evaluate(p, lastDose, now),
			})
		}
		entries = append(entries, schedule.RosterEntry{
			Patient:       patient,
			Prescriptions: statuses,
			Status:        schedule.WorstStatus(statuses),
		})
	}

	schedule.Prioritize(entries)

	h.RespondWithJSON(w, http.StatusOK, map[string]any{
		"generatedAt": now,
		"entries":     entries,
	})
}

// ServeSuggestions returns catalog names containing the given fragment,
// accent and case insensitive, straight from the in-memory cache.
func (h *HTTPHandlerImpl) ServeSuggestions(w http.ResponseWriter, r *http.Request) {
	fragment := chi.URLParam(r, "fragment")
	if fragment == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing search term")
		return
	}
	if err := validation.ValidateInput(fragment); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	suggestions := h.catalog.Suggest(fragment, suggestionLimit)
	if suggestions == nil {
		suggestions = []entities.DrugCatalogEntry{}
	}

	h.RespondWithJSON(w, http.StatusOK, suggestions)
}
