// Package server exposes the HTTP surface: the public postcode check and the
// staff-facing ops API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/othomas555/arocwaste/internal/audit/domain"
	bookingdomain "github.com/othomas555/arocwaste/internal/booking/domain"
	"github.com/othomas555/arocwaste/internal/clock"
	collectiondomain "github.com/othomas555/arocwaste/internal/collection/domain"
	"github.com/othomas555/arocwaste/internal/config"
	dailyrundomain "github.com/othomas555/arocwaste/internal/dailyrun/domain"
	"github.com/othomas555/arocwaste/internal/observability/logger"
	"github.com/othomas555/arocwaste/internal/reassign"
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
	staffdomain "github.com/othomas555/arocwaste/internal/staff/domain"
	subscriptiondomain "github.com/othomas555/arocwaste/internal/subscription/domain"
	vehicledomain "github.com/othomas555/arocwaste/internal/vehicle/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServerParam struct {
	fx.In

	Cfg             config.Config
	Log             *zap.Logger
	DB              *gorm.DB
	Clock           clock.Clock
	RouteSvc        routeareadomain.Service
	SubscriptionSvc subscriptiondomain.Service
	CollectionSvc   collectiondomain.Service
	DailyRunSvc     dailyrundomain.Service
	StaffSvc        staffdomain.Service
	VehicleSvc      vehicledomain.Service
	BookingSvc      bookingdomain.Service
	AuditSvc        auditdomain.Service
	ReassignBatch   *reassign.Batch
}

// Server binds services to gin handlers.
type Server struct {
	cfg             config.Config
	log             *zap.Logger
	db              *gorm.DB
	clock           clock.Clock
	routeSvc        routeareadomain.Service
	subscriptionSvc subscriptiondomain.Service
	collectionSvc   collectiondomain.Service
	dailyRunSvc     dailyrundomain.Service
	staffSvc        staffdomain.Service
	vehicleSvc      vehicledomain.Service
	bookingSvc      bookingdomain.Service
	auditSvc        auditdomain.Service
	reassignBatch   *reassign.Batch
	postcodeLimiter *rateLimiter
}

func NewServer(p ServerParam) *Server {
	return &Server{
		cfg:             p.Cfg,
		log:             p.Log.Named("server"),
		db:              p.DB,
		clock:           p.Clock,
		routeSvc:        p.RouteSvc,
		subscriptionSvc: p.SubscriptionSvc,
		collectionSvc:   p.CollectionSvc,
		dailyRunSvc:     p.DailyRunSvc,
		staffSvc:        p.StaffSvc,
		vehicleSvc:      p.VehicleSvc,
		bookingSvc:      p.BookingSvc,
		auditSvc:        p.AuditSvc,
		reassignBatch:   p.ReassignBatch,
		postcodeLimiter: newRateLimiter(p.Cfg.PostcodeCheckRPM, time.Minute),
	}
}

// NewEngine builds the gin engine with the full route table.
func NewEngine(s *Server, log *zap.Logger) *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(log))
	r.Use(s.requestContext())

	r.GET("/healthz", s.Health)

	api := r.Group("/api")
	{
		api.POST("/postcode/check", s.rateLimitPostcode(), s.CheckPostcode)

		api.GET("/routes", s.ListRouteAreas)
		api.POST("/routes", s.CreateRouteArea)
		api.PATCH("/routes/:id", s.UpdateRouteArea)

		api.POST("/subscriptions", s.CreateSubscription)
		api.GET("/subscriptions", s.ListSubscriptions)
		api.GET("/subscriptions/:id", s.GetSubscription)
		api.PATCH("/subscriptions/:id", s.OverrideSubscription)
		api.POST("/subscriptions/:id/cancel", s.CancelSubscription)

		api.POST("/subscriptions/:id/collections", s.RecordCollection)
		api.POST("/subscriptions/:id/collections/undo", s.UndoCollection)
		api.GET("/subscriptions/:id/collections", s.CollectionHistory)

		api.POST("/daily-runs", s.EnsureRun)
		api.GET("/daily-runs", s.ListRuns)
		api.GET("/daily-runs/due-count", s.DueCount)
		api.GET("/daily-runs/:id", s.GetRun)
		api.PUT("/daily-runs/:id/crew", s.AssignCrew)
		api.POST("/daily-runs/:id/issues", s.OpenIssue)
		api.GET("/daily-runs/:id/issues", s.ListIssues)
		api.POST("/issues/:id/resolve", s.ResolveIssue)

		api.POST("/ops/reassign", s.RunReassignment)

		api.GET("/staff", s.ListStaff)
		api.POST("/staff", s.CreateStaff)
		api.GET("/vehicles", s.ListVehicles)
		api.POST("/vehicles", s.CreateVehicle)

		api.POST("/bookings", s.CreateBooking)
		api.GET("/bookings", s.ListBookings)
		api.POST("/quote-visits", s.CreateQuoteVisit)
		api.GET("/quote-visits", s.ListQuoteVisits)

		api.GET("/audit-logs", s.ListAuditLogs)
	}

	return r
}

// Health reports liveness and database reachability.
func (s *Server) Health(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) audit(c *gin.Context, action, targetType string, targetID *string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.AuditLog(c.Request.Context(), action, targetType, targetID, metadata); err != nil {
		s.log.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

// RunHTTP starts the HTTP listener on the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
