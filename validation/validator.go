// Package validation guards the write boundary of the infirmary API. The
// scheduling and allergy core is total over malformed text; this layer is
// where required fields and nonsensical values are rejected before
// anything reaches the database.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/joelgonn/enfermaria-api/entities"
)

// Pre-compiled patterns, compiled once at package initialization
var (
	// Free-text input: letters, digits, Portuguese accents and safe punctuation
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\,\+\:\/'áâãàéêíóôõúüçÁÂÃÀÉÊÍÓÔÕÚÜÇ]+$`)

	timeOfDayRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

	// Signed hour figure inside interval text, e.g. "8/8h", "-2h", "0 horas"
	intervalHoursRegex = regexp.MustCompile(`(?i)(-?\d+)\s*h(?:ora)?s?\b`)
)

// dangerousPatterns are scanned with strings.Contains, which is much
// faster than a regex for plain substrings.
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "onload=", "onerror=", "eval(",
	"union select", "drop table", "delete from", "insert into", "--", "/*", "*/",
	"../", "..\\", "file://",
	"${", "$(", "`",
}

// ValidateInput checks one free-text field for length and injection
// attempts. Empty input is accepted; required-field checks belong to the
// entity validators.
func ValidateInput(input string) error {
	if input == "" {
		return nil
	}

	if len(input) > 500 {
		return fmt.Errorf("input too long: %d characters (max 500)", len(input))
	}

	lower := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("input contains disallowed sequence %q", pattern)
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains unsupported characters")
	}

	return nil
}

// ValidatePatient checks a patient record before insert or update.
func ValidatePatient(p *entities.Patient) error {
	if p == nil {
		return fmt.Errorf("patient is nil")
	}

	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("patient name is required")
	}

	fields := []struct {
		name  string
		value string
	}{
		{"name", p.Name},
		{"guardian", p.Guardian},
		{"allergies", p.Allergies},
		{"notes", p.Notes},
	}
	for _, f := range fields {
		if err := ValidateInput(f.value); err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
	}

	return nil
}

// ValidatePrescription checks a prescription before insert. The interval
// text itself may be unparseable (the evaluator degrades gracefully), but
// an explicit zero or negative hour figure is nonsense and rejected here
// rather than silently producing a bogus due time.
func ValidatePrescription(p *entities.Prescription) error {
	if p == nil {
		return fmt.Errorf("prescription is nil")
	}

	if strings.TrimSpace(p.DrugName) == "" {
		return fmt.Errorf("drug name is required")
	}

	if strings.TrimSpace(p.Interval) == "" {
		return fmt.Errorf("dosing interval is required")
	}

	fields := []struct {
		name  string
		value string
	}{
		{"drug name", p.DrugName},
		{"dosage", p.Dosage},
		{"interval", p.Interval},
	}
	for _, f := range fields {
		if err := ValidateInput(f.value); err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
	}

	if m := intervalHoursRegex.FindStringSubmatch(p.Interval); m != nil {
		hours, err := strconv.Atoi(m[1])
		if err == nil && hours <= 0 {
			return fmt.Errorf("dosing interval must be positive, got %dh", hours)
		}
	}

	if p.StartTime != "" {
		if err := ValidateTimeOfDay(p.StartTime); err != nil {
			return fmt.Errorf("invalid start time: %w", err)
		}
	}

	return nil
}

// ValidateTimeOfDay checks "HH:MM" wall-clock text.
func ValidateTimeOfDay(s string) error {
	m := timeOfDayRegex.FindStringSubmatch(s)
	if m == nil {
		return fmt.Errorf("expected HH:MM, got %q", s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 {
		return fmt.Errorf("hour out of range: %d", hour)
	}
	if minute > 59 {
		return fmt.Errorf("minute out of range: %d", minute)
	}
	return nil
}
