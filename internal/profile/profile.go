// Package profile implements the profile builder (C6): deterministic
// duration calculation and date normalization for raw extracted roles.
package profile

import (
	"strings"
	"time"
)

// DefaultReferenceDate is used when no reference date is configured. It is
// a plain configuration input, not a call to time.Now, so ingestion stays
// deterministic across test runs.
var DefaultReferenceDate = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// ResolveDate parses a raw date string from the extractor. "Present" and
// "N/A" resolve to referenceDate; an unparseable string yields the zero
// time (callers treat this as duration 0 with a warning, per §4.6).
func ResolveDate(raw string, referenceDate time.Time) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "present") || strings.EqualFold(trimmed, "n/a") {
		return referenceDate, true
	}

	layouts := []string{"2006-01-02", "2006-01", "2006/01", "January 2006", "Jan 2006"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// DurationMonths computes verified_duration_months as
// (end.year-start.year)*12 + (end.month-start.month), the deterministic
// calendar-month delta the spec requires rather than a day-count
// approximation.
func DurationMonths(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months < 0 {
		return 0
	}
	return months
}

// RawRole is the subset of an extractor-produced role the profile builder
// needs to compute a verified duration.
type RawRole struct {
	Title         string
	StartDateRaw  string
	EndDateRaw    string
}

// BuiltRole carries the resolved dates and computed duration for one role.
type BuiltRole struct {
	Title                  string
	StartDate              time.Time
	EndDate                time.Time
	VerifiedDurationMonths int
}

// Build resolves dates and computes the verified duration for each raw
// role, using referenceDate for empty, "Present" and "N/A" entries. A role
// with an unparseable start or end date gets a duration of 0.
func Build(roles []RawRole, referenceDate time.Time) []BuiltRole {
	out := make([]BuiltRole, 0, len(roles))
	for _, r := range roles {
		start, startOK := ResolveDate(r.StartDateRaw, referenceDate)
		end, endOK := ResolveDate(r.EndDateRaw, referenceDate)

		duration := 0
		if startOK && endOK {
			duration = DurationMonths(start, end)
		}

		out = append(out, BuiltRole{
			Title:                  r.Title,
			StartDate:              start,
			EndDate:                end,
			VerifiedDurationMonths: duration,
		})
	}
	return out
}
