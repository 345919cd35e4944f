// Package domain contains the vehicle registry consumed by run assignment.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Vehicle is one collection vehicle.
type Vehicle struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Registration string       `gorm:"type:text;not null;uniqueIndex" json:"registration"`
	Label        string       `gorm:"type:text;not null;default:''" json:"label"`
	Active       bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Vehicle) TableName() string { return "vehicles" }
