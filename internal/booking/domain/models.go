// Package domain contains one-off bookings and quote-driven visits. They are
// not scheduled by the recurrence engine but partition the day planner's
// due-counts alongside recurring subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/calendar"
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
)

// BookingStatus is the lifecycle of a one-off visit.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusDone      BookingStatus = "done"
	BookingStatusCanceled  BookingStatus = "canceled"
)

// OneOffBooking is a single paid collection outside any subscription.
type OneOffBooking struct {
	ID        snowflake.ID          `gorm:"primaryKey" json:"id"`
	Name      string                `gorm:"type:text;not null" json:"name"`
	Address   string                `gorm:"type:text;not null" json:"address"`
	Postcode  string                `gorm:"type:text;not null;index" json:"postcode"`
	Date      calendar.YMD          `gorm:"type:text;not null;index" json:"date"`
	RouteArea *string               `gorm:"type:text;index" json:"route_area,omitempty"`
	RouteSlot *routeareadomain.Slot `gorm:"type:text" json:"route_slot,omitempty"`
	Status    BookingStatus         `gorm:"type:text;not null;default:'confirmed'" json:"status"`
	CreatedAt time.Time             `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time             `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (OneOffBooking) TableName() string { return "one_off_bookings" }

// QuoteVisit is a site visit arranged off the back of a quote request.
type QuoteVisit struct {
	ID        snowflake.ID          `gorm:"primaryKey" json:"id"`
	Name      string                `gorm:"type:text;not null" json:"name"`
	Postcode  string                `gorm:"type:text;not null;index" json:"postcode"`
	Date      calendar.YMD          `gorm:"type:text;not null;index" json:"date"`
	RouteArea *string               `gorm:"type:text;index" json:"route_area,omitempty"`
	RouteSlot *routeareadomain.Slot `gorm:"type:text" json:"route_slot,omitempty"`
	Status    BookingStatus         `gorm:"type:text;not null;default:'confirmed'" json:"status"`
	CreatedAt time.Time             `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time             `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (QuoteVisit) TableName() string { return "quote_visits" }
