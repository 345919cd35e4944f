// Package domain contains the staff registry consumed by run assignment.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// StaffRole distinguishes drivers from back-office ops.
type StaffRole string

const (
	RoleDriver StaffRole = "driver"
	RoleOps    StaffRole = "ops"
	RoleAdmin  StaffRole = "admin"
)

// StaffMember is one employee. PasswordHash is consumed by the out-of-scope
// authentication layer; this core only seeds and lists it.
type StaffMember struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"type:text;not null" json:"name"`
	Email        string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Role         StaffRole    `gorm:"type:text;not null;default:'driver'" json:"role"`
	PasswordHash string       `gorm:"type:text;not null" json:"-"`
	Active       bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (StaffMember) TableName() string { return "staff_members" }
