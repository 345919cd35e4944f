// Package calendar provides plain calendar-date arithmetic for collection
// scheduling. Dates at every boundary are YYYY-MM-DD strings with no time
// component; all arithmetic pins the time-of-day to midday UTC so DST
// transitions in the operational zone can never shift a date by a day.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// OperationalZone is the single civil timezone collection days are defined in.
const OperationalZone = "Europe/London"

const ymdLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid_date")

// YMD is a plain calendar date in YYYY-MM-DD form.
type YMD string

// Parse validates s as a YYYY-MM-DD date.
func Parse(s string) (YMD, error) {
	t, err := time.Parse(ymdLayout, string(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	// Round-trip guards against permissive inputs like "2024-1-2".
	if t.Format(ymdLayout) != s {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return YMD(s), nil
}

// FromTime formats t as a calendar date in t's own location.
func FromTime(t time.Time) YMD {
	return YMD(t.Format(ymdLayout))
}

// Time returns d anchored at midday UTC. Midday keeps day arithmetic stable
// across DST boundaries.
func (d YMD) Time() (time.Time, error) {
	t, err := time.Parse(ymdLayout, string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, d)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC), nil
}

// String implements fmt.Stringer.
func (d YMD) String() string { return string(d) }

// IsZero reports whether d is the empty date.
func (d YMD) IsZero() bool { return d == "" }

// Before reports whether d sorts before other. YYYY-MM-DD strings order
// lexicographically, so no parsing is needed once both sides are valid.
func (d YMD) Before(other YMD) bool { return string(d) < string(other) }

// After reports whether d sorts after other.
func (d YMD) After(other YMD) bool { return string(d) > string(other) }

// AddDays returns d shifted by n calendar days (n may be negative).
func AddDays(d YMD, n int) (YMD, error) {
	t, err := d.Time()
	if err != nil {
		return "", err
	}
	return FromTime(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns the whole days from a to b (negative when b < a).
func DaysBetween(a, b YMD) (int, error) {
	ta, err := a.Time()
	if err != nil {
		return 0, err
	}
	tb, err := b.Time()
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// WeekdayOf returns the full English weekday name for d.
func WeekdayOf(d YMD) (string, error) {
	t, err := d.Time()
	if err != nil {
		return "", err
	}
	return t.Weekday().String(), nil
}

// TodayIn evaluates "today" in the named zone. Collection days are civil
// dates, so today must come from the operational zone, never server locale.
func TodayIn(zone string) (YMD, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return "", fmt.Errorf("load zone %q: %w", zone, err)
	}
	return FromTime(time.Now().In(loc)), nil
}

// NextWeekday returns the first date on/after from that falls on the named
// weekday. A from already on the target weekday is returned unchanged.
func NextWeekday(from YMD, weekday string) (YMD, error) {
	target, ok := WeekdayIndex(weekday)
	if !ok {
		return "", fmt.Errorf("%w: weekday %q", ErrInvalidDate, weekday)
	}
	t, err := from.Time()
	if err != nil {
		return "", err
	}
	current := weekdayIndexOf(t.Weekday())
	offset := (target - current + 7) % 7
	return FromTime(t.AddDate(0, 0, offset)), nil
}

// WeekdayIndex maps a full English weekday name to its ISO index
// (Monday=1 .. Sunday=7).
func WeekdayIndex(name string) (int, bool) {
	switch name {
	case "Monday":
		return 1, true
	case "Tuesday":
		return 2, true
	case "Wednesday":
		return 3, true
	case "Thursday":
		return 4, true
	case "Friday":
		return 5, true
	case "Saturday":
		return 6, true
	case "Sunday":
		return 7, true
	}
	return 0, false
}

func weekdayIndexOf(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}
