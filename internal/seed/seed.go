// Package seed bootstraps reference data on first run.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/auth/password"
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
	staffdomain "github.com/othomas555/arocwaste/internal/staff/domain"
	"gorm.io/gorm"
)

const (
	defaultAdminName     = "Operations Admin"
	defaultAdminEmail    = "ops@arocwaste.co.uk"
	defaultAdminPassword = "changeme-now"
)

// defaultRoutes covers the initial Porthcawl service area.
var defaultRoutes = []routeareadomain.RouteArea{
	{Area: "Porthcawl", Weekday: "Monday", Slot: routeareadomain.SlotAM, Prefixes: "CF36", SortOrder: 1},
	{Area: "Porthcawl", Weekday: "Monday", Slot: routeareadomain.SlotPM, Prefixes: "CF36", SortOrder: 2},
	{Area: "Nottage", Weekday: "Tuesday", Slot: routeareadomain.SlotAny, Prefixes: "CF36 3", SortOrder: 3},
	{Area: "Pyle", Weekday: "Wednesday", Slot: routeareadomain.SlotAny, Prefixes: "CF33", SortOrder: 4},
}

// EnsureDefaultAdmin seeds the first ops login when no staff exist.
func EnsureDefaultAdmin(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&staffdomain.StaffMember{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hashed, err := password.Hash(defaultAdminPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		admin := staffdomain.StaffMember{
			ID:           node.Generate(),
			Name:         defaultAdminName,
			Email:        defaultAdminEmail,
			Role:         staffdomain.RoleAdmin,
			PasswordHash: hashed,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Create(&admin).Error
	})
}

// EnsureDefaultRoutes seeds the initial route catalogue when it is empty.
func EnsureDefaultRoutes(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&routeareadomain.RouteArea{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		for _, route := range defaultRoutes {
			route.ID = node.Generate()
			route.Active = true
			route.CreatedAt = now
			route.UpdatedAt = now
			if err := tx.Create(&route).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
