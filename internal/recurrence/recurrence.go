// Package recurrence computes the next due date for a recurring collection
// from a fixed anchor date and a frequency period.
package recurrence

import (
	"errors"

	"github.com/othomas555/arocwaste/internal/calendar"
)

var (
	ErrInvalidFrequency   = errors.New("invalid_frequency")
	ErrRecurrenceOverflow = errors.New("recurrence_overflow")
)

// ValidFrequencies is the closed set of supported collection periods, in days.
var ValidFrequencies = []int{7, 14, 21}

// maxIterations bounds the candidate walk. An anchor so far in the past that
// 10k cycles cannot reach the reference date signals corrupt stored data, not
// user input, and is surfaced as ErrRecurrenceOverflow.
const maxIterations = 10000

// ValidFrequency reports whether days is a supported collection period.
func ValidFrequency(days int) bool {
	for _, f := range ValidFrequencies {
		if days == f {
			return true
		}
	}
	return false
}

// NextDue returns the smallest date of the form anchor + k*frequencyDays
// (k >= 0) that is on or after reference. An anchor on or after the reference
// is returned unchanged: due-today is a valid outcome, not the next cycle.
func NextDue(anchor calendar.YMD, frequencyDays int, reference calendar.YMD) (calendar.YMD, error) {
	if !ValidFrequency(frequencyDays) {
		return "", ErrInvalidFrequency
	}
	if _, err := calendar.Parse(string(anchor)); err != nil {
		return "", err
	}
	if _, err := calendar.Parse(string(reference)); err != nil {
		return "", err
	}

	candidate := anchor
	for i := 0; i < maxIterations; i++ {
		if !candidate.Before(reference) {
			return candidate, nil
		}
		next, err := calendar.AddDays(candidate, frequencyDays)
		if err != nil {
			return "", err
		}
		candidate = next
	}
	return "", ErrRecurrenceOverflow
}
