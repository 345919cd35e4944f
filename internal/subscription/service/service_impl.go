package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/calendar"
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
	subscriptiondomain "github.com/othomas555/arocwaste/internal/subscription/domain"
	"github.com/othomas555/arocwaste/pkg/db/option"
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
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	routeSvc routeareadomain.Service
	repo     repository.Repository[subscriptiondomain.Subscription]
}

func NewService(p ServiceParam) subscriptiondomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("subscription.service"),
		genID:    p.GenID,
		routeSvc: p.RouteSvc,
		repo:     repository.ProvideStore[subscriptiondomain.Subscription](p.DB),
	}
}

// Create materializes a subscription on checkout completion. Route fields and
// the first collection date come from the matcher's default route; an
// uncovered postcode still creates the record and leaves them null for ops to
// assign later.
func (s *Service) Create(ctx context.Context, req subscriptiondomain.CreateSubscriptionRequest) (*subscriptiondomain.Subscription, error) {
	postcode := routeareadomain.NormalizePostcode(req.Postcode)
	if postcode == "" {
		return nil, subscriptiondomain.ErrInvalidPostcode
	}
	if req.Frequency.Days() == 0 {
		return nil, subscriptiondomain.ErrInvalidFrequency
	}
	if req.ExtraBags < 0 || req.ExtraBags > subscriptiondomain.MaxExtraBags {
		return nil, subscriptiondomain.ErrInvalidExtraBags
	}
	reference := req.Reference
	if reference.IsZero() {
		return nil, calendar.ErrInvalidDate
	}

	match, err := s.routeSvc.CheckPostcode(ctx, postcode, reference)
	if err != nil {
		return nil, err
	}

	status := subscriptiondomain.StatusActive
	if req.Trialing {
		status = subscriptiondomain.StatusTrialing
	}

	now := time.Now().UTC()
	record := &subscriptiondomain.Subscription{
		ID:           s.genID.Generate(),
		CustomerName: strings.TrimSpace(req.CustomerName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Address:      strings.TrimSpace(req.Address),
		Postcode:     postcode,
		Frequency:    req.Frequency,
		ExtraBags:    req.ExtraBags,
		UseOwnBin:    req.UseOwnBin,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if match.Default != nil {
		area := match.Default.Area
		day := match.Default.Weekday
		slot := match.Default.Slot
		next := match.Default.NextDate
		record.RouteArea = &area
		record.RouteDay = &day
		record.RouteSlot = &slot
		record.NextCollectionDate = &next
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("subscription created",
		zap.String("subscription_id", record.ID.String()),
		zap.String("postcode", record.Postcode),
		zap.Bool("in_area", match.InArea),
	)
	return record, nil
}

func (s *Service) Get(ctx context.Context, id string) (*subscriptiondomain.Subscription, error) {
	subID, err := parseID(id)
	if err != nil {
		return nil, subscriptiondomain.ErrSubscriptionNotFound
	}
	record, err := s.repo.FindOne(ctx, map[string]any{"id": subID})
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, subscriptiondomain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, req subscriptiondomain.ListSubscriptionRequest) (subscriptiondomain.ListSubscriptionResponse, error) {
	filter := map[string]any{}
	if req.Status != "" {
		if !subscriptiondomain.ValidStatus(req.Status) {
			return subscriptiondomain.ListSubscriptionResponse{}, subscriptiondomain.ErrInvalidStatus
		}
		filter["status"] = req.Status
	}
	if req.Postcode != "" {
		filter["postcode"] = routeareadomain.NormalizePostcode(req.Postcode)
	}
	if req.RouteArea != "" {
		filter["route_area"] = strings.TrimSpace(req.RouteArea)
	}
	if !req.DueOn.IsZero() {
		filter["next_collection_date"] = req.DueOn
	}

	items, err := s.repo.Find(ctx, filter,
		option.ApplyPagination(req.Pagination),
		option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"created_at": true}}),
	)
	if err != nil {
		return subscriptiondomain.ListSubscriptionResponse{}, err
	}

	return subscriptiondomain.ListSubscriptionResponse{
		Items:         items,
		NextPageToken: req.Pagination.NextToken(len(items)),
	}, nil
}

// Override applies an explicit ops edit. route_day is validated against the
// configured weekday of the chosen route area so the stored projection cannot
// drift from the catalogue.
func (s *Service) Override(ctx context.Context, id string, req subscriptiondomain.OverrideRequest) (*subscriptiondomain.Subscription, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.RouteArea != nil {
		record.RouteArea = optionalText(*req.RouteArea)
	}
	if req.RouteDay != nil {
		day := strings.TrimSpace(*req.RouteDay)
		if day == "" {
			record.RouteDay = nil
		} else {
			if _, ok := calendar.WeekdayIndex(day); !ok {
				return nil, subscriptiondomain.ErrRouteDayMismatch
			}
			record.RouteDay = &day
		}
	}
	if req.RouteSlot != nil {
		if strings.TrimSpace(*req.RouteSlot) == "" {
			record.RouteSlot = nil
		} else {
			slot := routeareadomain.NormalizeSlot(*req.RouteSlot)
			record.RouteSlot = &slot
		}
	}
	if req.NextCollectionDate != nil {
		if strings.TrimSpace(*req.NextCollectionDate) == "" {
			record.NextCollectionDate = nil
		} else {
			next, err := calendar.Parse(*req.NextCollectionDate)
			if err != nil {
				return nil, err
			}
			record.NextCollectionDate = &next
		}
	}
	if req.PauseFrom != nil || req.PauseTo != nil {
		if err := applyPauseWindow(record, req.PauseFrom, req.PauseTo); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if !subscriptiondomain.ValidStatus(*req.Status) {
			return nil, subscriptiondomain.ErrInvalidStatus
		}
		record.Status = *req.Status
	}
	if req.OpsNotes != nil {
		record.OpsNotes = strings.TrimSpace(*req.OpsNotes)
	}

	if err := s.validateRouteDay(ctx, record); err != nil {
		return nil, err
	}

	record.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("subscription override applied", zap.String("subscription_id", record.ID.String()))
	return record, nil
}

// Cancel is a soft delete: collection history must stay replayable, so the
// row is never removed.
func (s *Service) Cancel(ctx context.Context, id string) (*subscriptiondomain.Subscription, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status == subscriptiondomain.StatusCanceled {
		return nil, subscriptiondomain.ErrAlreadyCanceled
	}

	record.Status = subscriptiondomain.StatusCanceled
	record.NextCollectionDate = nil
	record.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("subscription canceled", zap.String("subscription_id", record.ID.String()))
	return record, nil
}

// validateRouteDay requires an active catalogue route whose area and weekday
// agree with the stored projection whenever both fields are set.
func (s *Service) validateRouteDay(ctx context.Context, record *subscriptiondomain.Subscription) error {
	if record.RouteArea == nil || record.RouteDay == nil {
		return nil
	}
	catalogue, err := s.routeSvc.Catalogue(ctx)
	if err != nil {
		return err
	}
	for _, route := range catalogue {
		if route.Area == *record.RouteArea && route.Weekday == *record.RouteDay {
			return nil
		}
	}
	return subscriptiondomain.ErrRouteDayMismatch
}

func applyPauseWindow(record *subscriptiondomain.Subscription, from, to *string) error {
	pauseFrom := record.PauseFrom
	pauseTo := record.PauseTo

	if from != nil {
		if strings.TrimSpace(*from) == "" {
			pauseFrom = nil
		} else {
			parsed, err := calendar.Parse(*from)
			if err != nil {
				return err
			}
			pauseFrom = &parsed
		}
	}
	if to != nil {
		if strings.TrimSpace(*to) == "" {
			pauseTo = nil
		} else {
			parsed, err := calendar.Parse(*to)
			if err != nil {
				return err
			}
			pauseTo = &parsed
		}
	}

	// The window is inclusive and both ends travel together.
	if (pauseFrom == nil) != (pauseTo == nil) {
		return subscriptiondomain.ErrInvalidPauseWindow
	}
	if pauseFrom != nil && pauseTo.Before(*pauseFrom) {
		return subscriptiondomain.ErrInvalidPauseWindow
	}

	record.PauseFrom = pauseFrom
	record.PauseTo = pauseTo
	return nil
}

func optionalText(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseID(id string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid_id")
	}
	return snowflake.ID(parsed), nil
}
