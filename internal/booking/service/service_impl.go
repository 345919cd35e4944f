package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/othomas555/arocwaste/internal/booking/domain"
	"github.com/othomas555/arocwaste/internal/calendar"
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
	"github.com/othomas555/arocwaste/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	RouteSvc routeareadomain.Service
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	routeSvc routeareadomain.Service
	bookings repository.Repository[bookingdomain.OneOffBooking]
	quotes   repository.Repository[bookingdomain.QuoteVisit]
}

func NewService(p ServiceParam) bookingdomain.Service {
	return &Service{
		log:      p.Log.Named("booking.service"),
		genID:    p.GenID,
		routeSvc: p.RouteSvc,
		bookings: repository.ProvideStore[bookingdomain.OneOffBooking](p.DB),
		quotes:   repository.ProvideStore[bookingdomain.QuoteVisit](p.DB),
	}
}

// CreateBooking stores a one-off visit, stamping route fields from the
// matcher so the day planner can group it with recurring stops.
func (s *Service) CreateBooking(ctx context.Context, req bookingdomain.CreateBookingRequest) (*bookingdomain.OneOffBooking, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, bookingdomain.ErrInvalidName
	}
	postcode := routeareadomain.NormalizePostcode(req.Postcode)
	if postcode == "" {
		return nil, bookingdomain.ErrInvalidPostcode
	}
	date, err := calendar.Parse(req.Date)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking := &bookingdomain.OneOffBooking{
		ID:        s.genID.Generate(),
		Name:      name,
		Address:   strings.TrimSpace(req.Address),
		Postcode:  postcode,
		Date:      date,
		Status:    bookingdomain.BookingStatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.stampRoute(ctx, postcode, date, &booking.RouteArea, &booking.RouteSlot)

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	s.log.Info("one-off booking created", zap.String("booking_id", booking.ID.String()))
	return booking, nil
}

func (s *Service) ListBookings(ctx context.Context, date calendar.YMD) ([]bookingdomain.OneOffBooking, error) {
	return s.bookings.Find(ctx, map[string]any{"date": date})
}

func (s *Service) CreateQuoteVisit(ctx context.Context, req bookingdomain.CreateQuoteVisitRequest) (*bookingdomain.QuoteVisit, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, bookingdomain.ErrInvalidName
	}
	postcode := routeareadomain.NormalizePostcode(req.Postcode)
	if postcode == "" {
		return nil, bookingdomain.ErrInvalidPostcode
	}
	date, err := calendar.Parse(req.Date)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	visit := &bookingdomain.QuoteVisit{
		ID:        s.genID.Generate(),
		Name:      name,
		Postcode:  postcode,
		Date:      date,
		Status:    bookingdomain.BookingStatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.stampRoute(ctx, postcode, date, &visit.RouteArea, &visit.RouteSlot)

	if err := s.quotes.Create(ctx, visit); err != nil {
		return nil, err
	}
	s.log.Info("quote visit created", zap.String("quote_visit_id", visit.ID.String()))
	return visit, nil
}

func (s *Service) ListQuoteVisits(ctx context.Context, date calendar.YMD) ([]bookingdomain.QuoteVisit, error) {
	return s.quotes.Find(ctx, map[string]any{"date": date})
}

// stampRoute is best-effort: an uncovered postcode leaves the route fields
// null and the visit still books.
func (s *Service) stampRoute(ctx context.Context, postcode string, date calendar.YMD, area **string, slot **routeareadomain.Slot) {
	match, err := s.routeSvc.CheckPostcode(ctx, postcode, date)
	if err != nil || match.Default == nil {
		return
	}
	a := match.Default.Area
	sl := match.Default.Slot
	*area = &a
	*slot = &sl
}
