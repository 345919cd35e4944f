package recurrence

import (
	"errors"
	"testing"

	"github.com/othomas555/arocwaste/internal/calendar"
)

func TestNextDueAnchorEqualsReference(t *testing.T) {
	got, err := NextDue("2024-01-01", 7, "2024-01-01")
	if err != nil {
		t.Fatalf("NextDue: %v", err)
	}
	if got != "2024-01-01" {
		t.Fatalf("due-today should return the anchor, got %s", got)
	}
}

func TestNextDueFutureAnchorUnchanged(t *testing.T) {
	got, err := NextDue("2024-06-01", 14, "2024-01-01")
	if err != nil {
		t.Fatalf("NextDue: %v", err)
	}
	if got != "2024-06-01" {
		t.Fatalf("future anchor should pass through, got %s", got)
	}
}

func TestNextDueAdvancesWholeCycles(t *testing.T) {
	cases := []struct {
		anchor    calendar.YMD
		freq      int
		reference calendar.YMD
		want      calendar.YMD
	}{
		{"2024-01-01", 7, "2024-01-02", "2024-01-08"},
		{"2024-01-01", 7, "2024-01-08", "2024-01-08"},
		{"2024-01-01", 14, "2024-01-02", "2024-01-15"},
		{"2024-01-01", 21, "2024-02-01", "2024-02-12"},
		{"2023-12-25", 7, "2024-01-01", "2024-01-01"},
	}
	for _, c := range cases {
		got, err := NextDue(c.anchor, c.freq, c.reference)
		if err != nil {
			t.Fatalf("NextDue(%s,%d,%s): %v", c.anchor, c.freq, c.reference, err)
		}
		if got != c.want {
			t.Fatalf("NextDue(%s,%d,%s) = %s, want %s", c.anchor, c.freq, c.reference, got, c.want)
		}
	}
}

// The returned date must be congruent with the anchor modulo the frequency,
// at or after the reference, and within one cycle of it.
func TestNextDueCongruence(t *testing.T) {
	anchors := []calendar.YMD{"2023-01-02", "2024-01-01", "2024-02-29"}
	references := []calendar.YMD{"2024-03-04", "2024-03-05", "2024-12-31"}
	for _, freq := range ValidFrequencies {
		for _, anchor := range anchors {
			for _, ref := range references {
				got, err := NextDue(anchor, freq, ref)
				if err != nil {
					t.Fatalf("NextDue(%s,%d,%s): %v", anchor, freq, ref, err)
				}
				days, err := calendar.DaysBetween(anchor, got)
				if err != nil {
					t.Fatalf("DaysBetween: %v", err)
				}
				if days%freq != 0 {
					t.Fatalf("NextDue(%s,%d,%s)=%s not congruent with anchor", anchor, freq, ref, got)
				}
				if got.Before(ref) {
					t.Fatalf("NextDue(%s,%d,%s)=%s is before reference", anchor, freq, ref, got)
				}
				prev, err := calendar.AddDays(got, -freq)
				if err != nil {
					t.Fatalf("AddDays: %v", err)
				}
				if !prev.Before(ref) {
					t.Fatalf("NextDue(%s,%d,%s)=%s overshot by a full cycle", anchor, freq, ref, got)
				}
			}
		}
	}
}

func TestNextDueRejectsBadFrequency(t *testing.T) {
	for _, freq := range []int{0, -7, 1, 10, 28} {
		if _, err := NextDue("2024-01-01", freq, "2024-01-01"); !errors.Is(err, ErrInvalidFrequency) {
			t.Fatalf("freq %d: expected ErrInvalidFrequency, got %v", freq, err)
		}
	}
}

func TestNextDueRejectsBadDates(t *testing.T) {
	if _, err := NextDue("2024-1-1", 7, "2024-01-01"); !errors.Is(err, calendar.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := NextDue("2024-01-01", 7, "nope"); !errors.Is(err, calendar.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestNextDueOverflowCap(t *testing.T) {
	// An anchor ~192 years before the reference needs >10k weekly cycles.
	if _, err := NextDue("1800-01-01", 7, "2024-01-01"); !errors.Is(err, ErrRecurrenceOverflow) {
		t.Fatalf("expected ErrRecurrenceOverflow, got %v", err)
	}
}
