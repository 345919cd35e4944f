// Package domain contains the operational route catalogue and the postcode
// matcher.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Slot is the collection slot within a route day.
type Slot string

const (
	SlotAM  Slot = "AM"
	SlotPM  Slot = "PM"
	SlotAny Slot = "ANY"
)

// NormalizeSlot maps empty/unknown input onto ANY.
func NormalizeSlot(s string) Slot {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AM":
		return SlotAM
	case "PM":
		return SlotPM
	default:
		return SlotAny
	}
}

// Index returns the sort position of the slot (AM=1, PM=2, ANY=3).
func (s Slot) Index() int {
	switch s {
	case SlotAM:
		return 1
	case SlotPM:
		return 2
	default:
		return 3
	}
}

// RouteArea is one named operational route. Reference data edited by ops,
// read-only to the scheduling engine.
type RouteArea struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Area      string       `gorm:"type:text;not null;uniqueIndex:ux_route_areas_area_day_slot,priority:1" json:"area"`
	Weekday   string       `gorm:"type:text;not null;uniqueIndex:ux_route_areas_area_day_slot,priority:2" json:"weekday"`
	Slot      Slot         `gorm:"type:text;not null;default:'ANY';uniqueIndex:ux_route_areas_area_day_slot,priority:3" json:"slot"`
	Prefixes  string       `gorm:"type:text;not null" json:"prefixes"`
	Active    bool         `gorm:"not null;default:true" json:"active"`
	SortOrder int          `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (RouteArea) TableName() string { return "route_areas" }

// PrefixList splits the stored comma-separated prefixes, normalized to the
// same form postcodes are matched in.
func (r RouteArea) PrefixList() []string {
	parts := strings.Split(r.Prefixes, ",")
	prefixes := make([]string, 0, len(parts))
	for _, part := range parts {
		prefix := NormalizePostcode(part)
		if prefix != "" {
			prefixes = append(prefixes, prefix)
		}
	}
	return prefixes
}
