package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joelgonn/enfermaria-api/entities"
)

var testZone = time.FixedZone("BRT", -3*60*60)

func testEvaluator() *Evaluator {
	return New(DefaultDueSoonWindow, testZone)
}

func at(hour, min int) time.Time {
	return time.Date(2026, time.January, 10, hour, min, 0, 0, testZone)
}

func record(administeredAt time.Time) *entities.AdministrationRecord {
	return &entities.AdministrationRecord{
		ID:             uuid.New(),
		PrescriptionID: uuid.New(),
		AdministeredAt: administeredAt,
		AdministeredBy: "staff@example.com",
	}
}

func TestParseIntervalHours(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
		ok       bool
	}{
		{"8h", 8, true},
		{"8/8h", 8, true},
		{"6 horas", 6, true},
		{"a cada 12 horas", 12, true},
		{"12/12hs", 12, true},
		{"1h", 1, true},
		{"se necessario", 0, false},
		{"conforme dor", 0, false},
		{"", 0, false},
		{"0h", 0, false},
		{"0/0h", 0, false},
		{"-2h", 0, false},
		{"a cada -6 horas", 0, false},
	}

	for _, tc := range testCases {
		got, ok := ParseIntervalHours(tc.input)
		if got != tc.expected || ok != tc.ok {
			t.Errorf("ParseIntervalHours(%q) = (%d, %v), expected (%d, %v)",
				tc.input, got, ok, tc.expected, tc.ok)
		}
	}
}

func TestEvaluateNoRecordStartTimePassed(t *testing.T) {
	// Interval 8h, start 08:00, no records, now 08:15: the due time is the
	// start time itself, already past, so the dose is overdue.
	p := entities.Prescription{DrugName: "dipirona", Interval: "8h", StartTime: "08:00"}

	eval := testEvaluator().Evaluate(p, nil, at(8, 15))

	if eval.Status != StatusOverdue {
		t.Errorf("Expected status %s, got %s", StatusOverdue, eval.Status)
	}
	if eval.DueAt == nil || !eval.DueAt.Equal(at(8, 0)) {
		t.Errorf("Expected due time 08:00, got %v", eval.DueAt)
	}
}

func TestEvaluateDueSoon(t *testing.T) {
	// Interval 6h, last dose 10:00, now 15:45: due 16:00, inside the
	// 30-minute window.
	p := entities.Prescription{DrugName: "paracetamol", Interval: "6/6h", StartTime: "10:00"}
	last := record(at(10, 0))

	eval := testEvaluator().Evaluate(p, last, at(15, 45))

	if eval.Status != StatusDueSoon {
		t.Errorf("Expected status %s, got %s", StatusDueSoon, eval.Status)
	}
	if eval.DueAt == nil || !eval.DueAt.Equal(at(16, 0)) {
		t.Errorf("Expected due time 16:00, got %v", eval.DueAt)
	}
	if eval.LastDoseAt == nil || !eval.LastDoseAt.Equal(at(10, 0)) {
		t.Errorf("Expected last dose 10:00, got %v", eval.LastDoseAt)
	}
}

func TestEvaluateOnSchedule(t *testing.T) {
	// Interval 12h, last dose 06:00, now 10:00: due 18:00, well ahead.
	p := entities.Prescription{DrugName: "amoxicilina", Interval: "12/12h", StartTime: "06:00"}
	last := record(at(6, 0))

	eval := testEvaluator().Evaluate(p, last, at(10, 0))

	if eval.Status != StatusOnSchedule {
		t.Errorf("Expected status %s, got %s", StatusOnSchedule, eval.Status)
	}
	if eval.DueAt == nil || !eval.DueAt.Equal(at(18, 0)) {
		t.Errorf("Expected due time 18:00, got %v", eval.DueAt)
	}
}

func TestEvaluateOverdueAfterLastDose(t *testing.T) {
	p := entities.Prescription{DrugName: "ibuprofeno", Interval: "6h", StartTime: "08:00"}
	last := record(at(6, 0))

	eval := testEvaluator().Evaluate(p, last, at(13, 30))

	if eval.Status != StatusOverdue {
		t.Errorf("Expected status %s, got %s", StatusOverdue, eval.Status)
	}
}

func TestEvaluateNotYetGiven(t *testing.T) {
	// Unparseable interval, no records, but a valid start time: shown as
	// scheduled rather than overdue or unparseable.
	p := entities.Prescription{DrugName: "dipirona", Interval: "se necessario", StartTime: "14:00"}

	eval := testEvaluator().Evaluate(p, nil, at(9, 0))

	if eval.Status != StatusNotYetGiven {
		t.Errorf("Expected status %s, got %s", StatusNotYetGiven, eval.Status)
	}
	if eval.DueAt == nil || !eval.DueAt.Equal(at(14, 0)) {
		t.Errorf("Expected the configured start time 14:00, got %v", eval.DueAt)
	}
}

func TestEvaluateUnparseable(t *testing.T) {
	// Unparseable interval with a prior dose has no computable due time
	p := entities.Prescription{DrugName: "dipirona", Interval: "conforme dor", StartTime: "08:00"}
	last := record(at(7, 0))

	eval := testEvaluator().Evaluate(p, last, at(9, 0))

	if eval.Status != StatusUnparseable {
		t.Errorf("Expected status %s, got %s", StatusUnparseable, eval.Status)
	}
	if eval.DueAt != nil {
		t.Errorf("Expected no due time, got %v", eval.DueAt)
	}
	if eval.LastDoseAt == nil {
		t.Error("Expected the last dose timestamp for display")
	}

	// Unparseable interval, no records, invalid start time
	p2 := entities.Prescription{DrugName: "dipirona", Interval: "", StartTime: ""}

	eval2 := testEvaluator().Evaluate(p2, nil, at(9, 0))

	if eval2.Status != StatusUnparseable {
		t.Errorf("Expected status %s, got %s", StatusUnparseable, eval2.Status)
	}

	// A negative interval is rejected at the write boundary, but a row
	// that reaches the evaluator anyway must not be scheduled forward.
	p3 := entities.Prescription{DrugName: "dipirona", Interval: "-2h"}
	last3 := record(at(7, 0))

	eval3 := testEvaluator().Evaluate(p3, last3, at(9, 0))

	if eval3.Status != StatusUnparseable {
		t.Errorf("Expected status %s for a negative interval, got %s", StatusUnparseable, eval3.Status)
	}
	if eval3.DueAt != nil {
		t.Errorf("Expected no due time for a negative interval, got %v", eval3.DueAt)
	}
}

func TestEvaluateDueExactlyNow(t *testing.T) {
	// A due time equal to now is not in the past, so it counts as due-soon
	p := entities.Prescription{DrugName: "dipirona", Interval: "8h", StartTime: "08:00"}

	eval := testEvaluator().Evaluate(p, nil, at(8, 0))

	if eval.Status != StatusDueSoon {
		t.Errorf("Expected status %s, got %s", StatusDueSoon, eval.Status)
	}
}

func TestEvaluateIgnoresProcessLocalZone(t *testing.T) {
	// The same absolute instant expressed in UTC must evaluate the same
	p := entities.Prescription{DrugName: "dipirona", Interval: "8h", StartTime: "08:00"}
	nowUTC := at(8, 15).UTC()

	eval := testEvaluator().Evaluate(p, nil, nowUTC)

	if eval.Status != StatusOverdue {
		t.Errorf("Expected status %s regardless of the instant's zone, got %s", StatusOverdue, eval.Status)
	}
}

func TestEvaluateCustomDueSoonWindow(t *testing.T) {
	p := entities.Prescription{DrugName: "dipirona", Interval: "6h", StartTime: "10:00"}
	last := record(at(10, 0))

	// Due at 16:00, now 15:00: inside a 90-minute window, outside 30
	wide := New(90*time.Minute, testZone)
	if eval := wide.Evaluate(p, last, at(15, 0)); eval.Status != StatusDueSoon {
		t.Errorf("Expected %s with a 90m window, got %s", StatusDueSoon, eval.Status)
	}

	narrow := New(DefaultDueSoonWindow, testZone)
	if eval := narrow.Evaluate(p, last, at(15, 0)); eval.Status != StatusOnSchedule {
		t.Errorf("Expected %s with the default window, got %s", StatusOnSchedule, eval.Status)
	}
}
