// Package schedule computes due/overdue status for prescriptions from
// their dosing-interval text and administration history, and ranks the
// patient roster by worst status. Everything here is pure computation over
// already-fetched records: evaluation takes an explicit "now" and a fixed
// display location and never reads the process-local time zone.
package schedule

import (
	"regexp"
	"strconv"
	"time"

	"github.com/joelgonn/enfermaria-api/entities"
)

// Status is the dose-due status of a single prescription, or the
// aggregate for a patient on the roster.
type Status string

const (
	StatusOverdue       Status = "overdue"
	StatusDueSoon       Status = "due-soon"
	StatusOnSchedule    Status = "on-schedule"
	StatusNotYetGiven   Status = "not-yet-given"
	StatusUnparseable   Status = "unparseable"
	StatusNoMedications Status = "no-medications"
)

// DefaultDueSoonWindow is how far ahead of the due time a prescription is
// flagged "due soon". The threshold is configurable because nothing in the
// ward workflow pins it to exactly half an hour.
const DefaultDueSoonWindow = 30 * time.Minute

// Interval text must contain an integer followed by "h"/"hs"/"hora(s)",
// e.g. "8h", "8/8h", "a cada 6 horas". The sign is captured so that a
// negative figure fails the positivity check instead of parsing as its
// absolute value.
var intervalPattern = regexp.MustCompile(`(?i)(-?\d+)\s*h(?:ora)?s?\b`)

// Start times are plain "HH:MM" wall-clock text.
var timeOfDayPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// Evaluation is the computed status of one prescription plus the
// timestamps the UI displays.
type Evaluation struct {
	Status     Status     `json:"status"`
	DueAt      *time.Time `json:"dueAt,omitempty"`
	LastDoseAt *time.Time `json:"lastDoseAt,omitempty"`
}

// Evaluator holds the evaluation parameters. The zero value is not usable;
// construct with New.
type Evaluator struct {
	dueSoonWindow time.Duration
	loc           *time.Location
}

// New returns an Evaluator with the given due-soon window and display
// location. A non-positive window falls back to DefaultDueSoonWindow and a
// nil location to UTC.
func New(dueSoonWindow time.Duration, loc *time.Location) *Evaluator {
	if dueSoonWindow <= 0 {
		dueSoonWindow = DefaultDueSoonWindow
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Evaluator{dueSoonWindow: dueSoonWindow, loc: loc}
}

// Evaluate computes the dose-due status of one prescription given its most
// recent administration record (nil when none exists) and the current
// instant. It is total: malformed interval or start-time text degrades to
// StatusUnparseable or StatusNotYetGiven, never an error.
func (e *Evaluator) Evaluate(p entities.Prescription, lastDose *entities.AdministrationRecord, now time.Time) Evaluation {
	var lastDoseAt *time.Time
	if lastDose != nil {
		t := lastDose.AdministeredAt
		lastDoseAt = &t
	}

	hours, ok := ParseIntervalHours(p.Interval)
	if !ok {
		// An unparseable interval with no dose yet is still shown with its
		// configured start time instead of a bare failure.
		if lastDose == nil {
			if start, startOK := e.startAnchor(p.StartTime, now); startOK {
				return Evaluation{Status: StatusNotYetGiven, DueAt: &start}
			}
		}
		return Evaluation{Status: StatusUnparseable, LastDoseAt: lastDoseAt}
	}

	var dueAt time.Time
	if lastDose == nil {
		start, startOK := e.startAnchor(p.StartTime, now)
		if !startOK {
			return Evaluation{Status: StatusUnparseable}
		}
		dueAt = start
	} else {
		dueAt = lastDose.AdministeredAt.Add(time.Duration(hours) * time.Hour)
	}

	return Evaluation{
		Status:     e.compare(dueAt, now),
		DueAt:      &dueAt,
		LastDoseAt: lastDoseAt,
	}
}

// compare classifies a due instant against now.
func (e *Evaluator) compare(dueAt, now time.Time) Status {
	switch {
	case dueAt.Before(now):
		return StatusOverdue
	case dueAt.Sub(now) <= e.dueSoonWindow:
		return StatusDueSoon
	default:
		return StatusOnSchedule
	}
}

// startAnchor resolves a "HH:MM" start time onto the current date in the
// evaluator's location.
func (e *Evaluator) startAnchor(startTime string, now time.Time) (time.Time, bool) {
	m := timeOfDayPattern.FindStringSubmatch(startTime)
	if m == nil {
		return time.Time{}, false
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	local := now.In(e.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, e.loc), true
}

// ParseIntervalHours extracts the dosing interval in hours from free text
// such as "8/8h" or "a cada 6 horas". It reports false for text without an
// hour pattern and for non-positive values, which the evaluator then
// treats as unparseable (writes with such intervals are rejected upstream
// by the validation layer).
func ParseIntervalHours(text string) (int, bool) {
	m := intervalPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	hours, err := strconv.Atoi(m[1])
	if err != nil || hours <= 0 {
		return 0, false
	}
	return hours, true
}
