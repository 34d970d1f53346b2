package profile

import (
	"testing"
	"time"
)

var ref = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestResolveDate_Present(t *testing.T) {
	got, ok := ResolveDate("Present", ref)
	if !ok || !got.Equal(ref) {
		t.Errorf("ResolveDate(Present) = %v, %v, want %v, true", got, ok, ref)
	}
}

func TestResolveDate_NA(t *testing.T) {
	got, ok := ResolveDate("n/a", ref)
	if !ok || !got.Equal(ref) {
		t.Errorf("ResolveDate(n/a) = %v, %v, want %v, true", got, ok, ref)
	}
}

func TestResolveDate_Empty(t *testing.T) {
	got, ok := ResolveDate("   ", ref)
	if !ok || !got.Equal(ref) {
		t.Errorf("ResolveDate(empty) = %v, %v, want %v, true", got, ok, ref)
	}
}

func TestResolveDate_KnownLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2022-03-15":  time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC),
		"2022-03":     time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		"2022/03":     time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		"March 2022":  time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		"Mar 2022":    time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, ok := ResolveDate(in, ref)
		if !ok || !got.Equal(want) {
			t.Errorf("ResolveDate(%q) = %v, %v, want %v, true", in, got, ok, want)
		}
	}
}

func TestResolveDate_Unparseable(t *testing.T) {
	got, ok := ResolveDate("sometime last year", ref)
	if ok {
		t.Errorf("expected unparseable date to fail, got %v, %v", got, ok)
	}
	if !got.IsZero() {
		t.Errorf("expected zero time for unparseable date, got %v", got)
	}
}

func TestDurationMonths(t *testing.T) {
	cases := []struct {
		start, end time.Time
		want       int
	}{
		{time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), 24},
		{time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2022, 9, 1, 0, 0, 0, 0, time.UTC), 3},
		{time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, c := range cases {
		if got := DurationMonths(c.start, c.end); got != c.want {
			t.Errorf("DurationMonths(%v, %v) = %d, want %d", c.start, c.end, got, c.want)
		}
	}
}

func TestDurationMonths_NegativeClampedToZero(t *testing.T) {
	start := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := DurationMonths(start, end); got != 0 {
		t.Errorf("expected negative duration clamped to 0, got %d", got)
	}
}

func TestBuild(t *testing.T) {
	roles := []RawRole{
		{Title: "Software Engineer", StartDateRaw: "2020-01", EndDateRaw: "2022-01"},
		{Title: "Senior Engineer", StartDateRaw: "2022-01", EndDateRaw: "Present"},
		{Title: "Unparseable Role", StartDateRaw: "whenever", EndDateRaw: "2024-01"},
	}

	got := Build(roles, ref)
	if len(got) != 3 {
		t.Fatalf("expected 3 built roles, got %d", len(got))
	}
	if got[0].VerifiedDurationMonths != 24 {
		t.Errorf("expected 24 months for first role, got %d", got[0].VerifiedDurationMonths)
	}
	if !got[1].EndDate.Equal(ref) {
		t.Errorf("expected Present to resolve to reference date, got %v", got[1].EndDate)
	}
	if got[2].VerifiedDurationMonths != 0 {
		t.Errorf("expected 0 months when start date is unparseable, got %d", got[2].VerifiedDurationMonths)
	}
}
