// Package clock abstracts the ambient clock so scheduling logic can be tested
// with a fixed date. Engine packages take dates as parameters; only the server
// layer consults the Clock.
package clock

import (
	"time"

	"github.com/othomas555/arocwaste/internal/calendar"
)

// Clock supplies the current instant and the operational "today".
type Clock interface {
	Now() time.Time
	Today() (calendar.YMD, error)
}

// SystemClock reads the real clock. Today is always evaluated in the fixed
// operational zone regardless of server locale.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

func (SystemClock) Today() (calendar.YMD, error) {
	return calendar.TodayIn(calendar.OperationalZone)
}

// FixedClock pins both the instant and the civil date. Test helper.
type FixedClock struct {
	Instant time.Time
	Date    calendar.YMD
}

func (c FixedClock) Now() time.Time { return c.Instant }

func (c FixedClock) Today() (calendar.YMD, error) { return c.Date, nil }
