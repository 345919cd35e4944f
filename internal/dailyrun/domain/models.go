// Package domain contains the daily run dispatch unit and driver-raised
// issues.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/calendar"
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
	"gorm.io/datatypes"
)

// DailyRun is one dispatch unit: the thing a driver is assigned to for a
// date, area, day and slot. At most one row may exist per key tuple; creation
// is idempotent under concurrent requests.
type DailyRun struct {
	ID        snowflake.ID         `gorm:"primaryKey" json:"id"`
	RunDate   calendar.YMD         `gorm:"type:text;not null;uniqueIndex:ux_daily_runs_key,priority:1" json:"run_date"`
	RouteArea string               `gorm:"type:text;not null;uniqueIndex:ux_daily_runs_key,priority:2" json:"route_area"`
	RouteDay  string               `gorm:"type:text;not null;uniqueIndex:ux_daily_runs_key,priority:3" json:"route_day"`
	RouteSlot routeareadomain.Slot `gorm:"type:text;not null;uniqueIndex:ux_daily_runs_key,priority:4" json:"route_slot"`

	VehicleID *snowflake.ID     `gorm:"index" json:"vehicle_id,omitempty"`
	Notes     string            `gorm:"type:text;not null;default:''" json:"notes"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (DailyRun) TableName() string { return "daily_runs" }

// DailyRunStaff links an assigned staff member to a run.
type DailyRunStaff struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	DailyRunID snowflake.ID `gorm:"not null;uniqueIndex:ux_daily_run_staff,priority:1" json:"daily_run_id"`
	StaffID    snowflake.ID `gorm:"not null;uniqueIndex:ux_daily_run_staff,priority:2" json:"staff_id"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (DailyRunStaff) TableName() string { return "daily_run_staff" }

// Issue is a driver-raised exception against a stop within a run. It is
// closed exactly once by an ops action carrying a non-empty action note.
type Issue struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	DailyRunID     snowflake.ID  `gorm:"not null;index" json:"daily_run_id"`
	SubscriptionID *snowflake.ID `gorm:"index" json:"subscription_id,omitempty"`

	Reason  string `gorm:"type:text;not null" json:"reason"`
	Details string `gorm:"type:text;not null;default:''" json:"details"`

	ResolutionAction  *string    `gorm:"type:text" json:"resolution_action,omitempty"`
	ResolutionOutcome *string    `gorm:"type:text" json:"resolution_outcome,omitempty"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Issue) TableName() string { return "issues" }

// Open reports whether the issue still awaits an ops resolution.
func (i Issue) Open() bool { return i.ResolvedAt == nil }
