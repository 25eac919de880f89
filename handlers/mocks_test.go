package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/joelgonn/enfermaria-api/entities"
	"github.com/joelgonn/enfermaria-api/store"
)

// mockPatientStore is an in-memory PatientStore for handler tests.
type mockPatientStore struct {
	patients map[uuid.UUID]entities.Patient
	err      error
}

func newMockPatientStore() *mockPatientStore {
	return &mockPatientStore{patients: make(map[uuid.UUID]entities.Patient)}
}

func (m *mockPatientStore) Create(ctx context.Context, p *entities.Patient) error {
	if m.err != nil {
		return m.err
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.patients[p.ID] = *p
	return nil
}

func (m *mockPatientStore) GetByID(ctx context.Context, id uuid.UUID) (*entities.Patient, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.patients[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *mockPatientStore) List(ctx context.Context, onlyPresent bool) ([]entities.Patient, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []entities.Patient
	for _, p := range m.patients {
		if onlyPresent && !p.Present {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockPatientStore) Update(ctx context.Context, p *entities.Patient) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.patients[p.ID]; !ok {
		return store.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = *p
	return nil
}

func (m *mockPatientStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.patients[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.patients, id)
	return nil
}

// mockPrescriptionStore is an in-memory PrescriptionStore.
type mockPrescriptionStore struct {
	prescriptions map[uuid.UUID]entities.Prescription
	err           error
}

func newMockPrescriptionStore() *mockPrescriptionStore {
	return &mockPrescriptionStore{prescriptions: make(map[uuid.UUID]entities.Prescription)}
}

func (m *mockPrescriptionStore) Create(ctx context.Context, p *entities.Prescription) error {
	if m.err != nil {
		return m.err
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.prescriptions[p.ID] = *p
	return nil
}

func (m *mockPrescriptionStore) GetByID(ctx context.Context, id uuid.UUID) (*entities.Prescription, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.prescriptions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *mockPrescriptionStore) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]entities.Prescription, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []entities.Prescription
	for _, p := range m.prescriptions {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DrugName < out[j].DrugName })
	return out, nil
}

func (m *mockPrescriptionStore) ListAll(ctx context.Context) ([]entities.Prescription, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []entities.Prescription
	for _, p := range m.prescriptions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DrugName < out[j].DrugName })
	return out, nil
}

func (m *mockPrescriptionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.prescriptions[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.prescriptions, id)
	return nil
}

// mockAdministrationStore is an in-memory append-only dose log.
type mockAdministrationStore struct {
	records []entities.AdministrationRecord
	err     error
}

func newMockAdministrationStore() *mockAdministrationStore {
	return &mockAdministrationStore{}
}

func (m *mockAdministrationStore) Create(ctx context.Context, rec *entities.AdministrationRecord) error {
	if m.err != nil {
		return m.err
	}
	rec.ID = uuid.New()
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockAdministrationStore) ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]entities.AdministrationRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []entities.AdministrationRecord
	for _, rec := range m.records {
		if rec.PrescriptionID == prescriptionID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AdministeredAt.After(out[j].AdministeredAt) })
	return out, nil
}

func (m *mockAdministrationStore) LastByPrescription(ctx context.Context, prescriptionID uuid.UUID) (*entities.AdministrationRecord, error) {
	records, err := m.ListByPrescription(ctx, prescriptionID)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return &records[0], nil
}

func (m *mockAdministrationStore) LastDoses(ctx context.Context) (map[uuid.UUID]entities.AdministrationRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[uuid.UUID]entities.AdministrationRecord)
	for _, rec := range m.records {
		if last, ok := out[rec.PrescriptionID]; !ok || rec.AdministeredAt.After(last.AdministeredAt) {
			out[rec.PrescriptionID] = rec
		}
	}
	return out, nil
}

// mockHealthChecker returns a canned health response.
type mockHealthChecker struct {
	status     string
	details    map[string]any
	httpStatus int
}

func (m *mockHealthChecker) HealthCheck(ctx context.Context) (string, map[string]any, int) {
	return m.status, m.details, m.httpStatus
}
