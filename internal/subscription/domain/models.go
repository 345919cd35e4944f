// Package domain contains the customer subscription record and its
// scheduling-relevant state transitions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/calendar"
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
)

// SubscriptionStatus is the closed set of subscription lifecycle states.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusTrialing SubscriptionStatus = "trialing"
	StatusPaused   SubscriptionStatus = "paused"
	StatusHold     SubscriptionStatus = "hold"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusUnpaid   SubscriptionStatus = "unpaid"
	StatusCanceled SubscriptionStatus = "canceled"
)

// ValidStatus reports membership in the closed status set.
func ValidStatus(s SubscriptionStatus) bool {
	switch s {
	case StatusActive, StatusTrialing, StatusPaused, StatusHold, StatusPastDue, StatusUnpaid, StatusCanceled:
		return true
	}
	return false
}

// CountsForScheduling reports whether the status participates in due-date
// computations. Only active and trialing do; every other state is invisible
// to the day planner.
func (s SubscriptionStatus) CountsForScheduling() bool {
	return s == StatusActive || s == StatusTrialing
}

// Frequency is the collection period.
type Frequency string

const (
	FrequencyWeekly      Frequency = "weekly"
	FrequencyFortnightly Frequency = "fortnightly"
	FrequencyThreeWeekly Frequency = "three_weekly"
)

// Days returns the period length in days, or 0 for an unknown frequency.
func (f Frequency) Days() int {
	switch f {
	case FrequencyWeekly:
		return 7
	case FrequencyFortnightly:
		return 14
	case FrequencyThreeWeekly:
		return 21
	}
	return 0
}

// MaxExtraBags bounds the extra_bags field.
const MaxExtraBags = 10

// Subscription is one customer's recurring collection service.
type Subscription struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerName string       `gorm:"type:text;not null" json:"customer_name"`
	Email        string       `gorm:"type:text;not null;index" json:"email"`
	Address      string       `gorm:"type:text;not null" json:"address"`
	Postcode     string       `gorm:"type:text;not null;index" json:"postcode"`

	Frequency Frequency `gorm:"type:text;not null" json:"frequency"`
	ExtraBags int       `gorm:"not null;default:0" json:"extra_bags"`
	UseOwnBin bool      `gorm:"not null;default:false" json:"use_own_bin"`

	RouteArea *string               `gorm:"type:text;index" json:"route_area,omitempty"`
	RouteDay  *string               `gorm:"type:text" json:"route_day,omitempty"`
	RouteSlot *routeareadomain.Slot `gorm:"type:text" json:"route_slot,omitempty"`

	NextCollectionDate *calendar.YMD `gorm:"type:text;index" json:"next_collection_date,omitempty"`
	PauseFrom          *calendar.YMD `gorm:"type:text" json:"pause_from,omitempty"`
	PauseTo            *calendar.YMD `gorm:"type:text" json:"pause_to,omitempty"`

	Status   SubscriptionStatus `gorm:"type:text;not null;default:'active';index" json:"status"`
	OpsNotes string             `gorm:"type:text;not null;default:''" json:"ops_notes"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// PausedOn reports whether date falls inside the inclusive pause window.
// A paused subscription is excluded from due computations regardless of its
// next collection date.
func (s Subscription) PausedOn(date calendar.YMD) bool {
	if s.PauseFrom == nil || s.PauseTo == nil || date.IsZero() {
		return false
	}
	return !date.Before(*s.PauseFrom) && !date.After(*s.PauseTo)
}

// DueOn reports whether the subscription is due for collection on date.
func (s Subscription) DueOn(date calendar.YMD) bool {
	if !s.Status.CountsForScheduling() {
		return false
	}
	if s.NextCollectionDate == nil || *s.NextCollectionDate != date {
		return false
	}
	return !s.PausedOn(date)
}
