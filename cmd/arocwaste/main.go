// @title           Arocwaste Operations API
// @version         1.0
// @description     Waste collection scheduling and dispatch API

// @host      localhost:8080
// @BasePath  /api
// @Schemes   http https

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/audit"
	"github.com/othomas555/arocwaste/internal/booking"
	"github.com/othomas555/arocwaste/internal/clock"
	"github.com/othomas555/arocwaste/internal/collection"
	"github.com/othomas555/arocwaste/internal/config"
	"github.com/othomas555/arocwaste/internal/dailyrun"
	"github.com/othomas555/arocwaste/internal/events"
	"github.com/othomas555/arocwaste/internal/migration"
	"github.com/othomas555/arocwaste/internal/observability"
	"github.com/othomas555/arocwaste/internal/reassign"
	"github.com/othomas555/arocwaste/internal/routearea"
	"github.com/othomas555/arocwaste/internal/seed"
	"github.com/othomas555/arocwaste/internal/server"
	"github.com/othomas555/arocwaste/internal/staff"
	"github.com/othomas555/arocwaste/internal/subscription"
	"github.com/othomas555/arocwaste/internal/vehicle"
	"github.com/othomas555/arocwaste/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,

		fx.Invoke(bootstrap),

		events.Module,
		routearea.Module,
		subscription.Module,
		collection.Module,
		dailyrun.Module,
		reassign.Module,
		staff.Module,
		vehicle.Module,
		booking.Module,
		audit.Module,

		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func bootstrap(conn *gorm.DB, cfg config.Config) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	if err := migration.RunMigrations(sqlDB); err != nil {
		return err
	}
	if cfg.Bootstrap.EnsureDefaultAdmin {
		if err := seed.EnsureDefaultAdmin(conn); err != nil {
			return err
		}
	}
	if cfg.Bootstrap.EnsureDefaultRoutes {
		if err := seed.EnsureDefaultRoutes(conn); err != nil {
			return err
		}
	}
	return nil
}
