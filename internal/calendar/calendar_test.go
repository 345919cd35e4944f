package calendar

import (
	"errors"
	"testing"
)

func TestParseRejectsLooseFormats(t *testing.T) {
	cases := []string{"", "2024-1-2", "2024/01/02", "20240102", "2024-13-01", "not-a-date"}
	for _, c := range cases {
		if _, err := Parse(c); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("Parse(%q): expected ErrInvalidDate, got %v", c, err)
		}
	}
	if d, err := Parse("2024-02-29"); err != nil || d != "2024-02-29" {
		t.Fatalf("Parse leap day: %v %v", d, err)
	}
}

func TestAddDaysAcrossDSTBoundary(t *testing.T) {
	// Europe/London enters BST overnight on 2024-03-31. Midday-UTC anchoring
	// must keep the civil date stable across it.
	got, err := AddDays("2024-03-30", 1)
	if err != nil {
		t.Fatalf("AddDays: %v", err)
	}
	if got != "2024-03-31" {
		t.Fatalf("expected 2024-03-31, got %s", got)
	}
	got, err = AddDays("2024-03-31", 1)
	if err != nil {
		t.Fatalf("AddDays: %v", err)
	}
	if got != "2024-04-01" {
		t.Fatalf("expected 2024-04-01, got %s", got)
	}
}

func TestAddDaysNegative(t *testing.T) {
	got, err := AddDays("2024-01-01", -1)
	if err != nil {
		t.Fatalf("AddDays: %v", err)
	}
	if got != "2023-12-31" {
		t.Fatalf("expected 2023-12-31, got %s", got)
	}
}

func TestDaysBetween(t *testing.T) {
	n, err := DaysBetween("2024-01-01", "2024-01-15")
	if err != nil {
		t.Fatalf("DaysBetween: %v", err)
	}
	if n != 14 {
		t.Fatalf("expected 14, got %d", n)
	}
	n, err = DaysBetween("2024-01-15", "2024-01-01")
	if err != nil {
		t.Fatalf("DaysBetween: %v", err)
	}
	if n != -14 {
		t.Fatalf("expected -14, got %d", n)
	}
}

func TestWeekdayOf(t *testing.T) {
	wd, err := WeekdayOf("2024-01-01")
	if err != nil {
		t.Fatalf("WeekdayOf: %v", err)
	}
	if wd != "Monday" {
		t.Fatalf("2024-01-01 should be Monday, got %s", wd)
	}
}

func TestNextWeekdayZeroOffset(t *testing.T) {
	// 2024-01-01 is a Monday; asking for Monday returns the same date.
	got, err := NextWeekday("2024-01-01", "Monday")
	if err != nil {
		t.Fatalf("NextWeekday: %v", err)
	}
	if got != "2024-01-01" {
		t.Fatalf("expected zero offset, got %s", got)
	}
}

func TestNextWeekdayWraps(t *testing.T) {
	// Tuesday 2024-01-02 asking for Monday wraps to the next week.
	got, err := NextWeekday("2024-01-02", "Monday")
	if err != nil {
		t.Fatalf("NextWeekday: %v", err)
	}
	if got != "2024-01-08" {
		t.Fatalf("expected 2024-01-08, got %s", got)
	}
}

func TestNextWeekdayRejectsUnknownName(t *testing.T) {
	if _, err := NextWeekday("2024-01-01", "Funday"); err == nil {
		t.Fatal("expected error for unknown weekday name")
	}
}

func TestWeekdayIndexOrdering(t *testing.T) {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	for i, name := range names {
		idx, ok := WeekdayIndex(name)
		if !ok || idx != i+1 {
			t.Fatalf("WeekdayIndex(%s) = %d,%v", name, idx, ok)
		}
	}
}
