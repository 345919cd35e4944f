package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/cache"
	"github.com/othomas555/arocwaste/internal/calendar"
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
	"github.com/othomas555/arocwaste/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	catalogueCacheKey = "route_catalogue"
	catalogueCacheTTL = 30 * time.Second
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Cache cache.Cache[string, []routeareadomain.RouteArea]
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	cache cache.Cache[string, []routeareadomain.RouteArea]
	repo  repository.Repository[routeareadomain.RouteArea]
}

func NewService(p ServiceParam) routeareadomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("routearea.service"),
		genID: p.GenID,
		cache: p.Cache,
		repo:  repository.ProvideStore[routeareadomain.RouteArea](p.DB),
	}
}

// Catalogue returns the active routes in stable order, through a short TTL
// cache: the postcode check is the public hot path.
func (s *Service) Catalogue(ctx context.Context) ([]routeareadomain.RouteArea, error) {
	if cached, ok := s.cache.Get(catalogueCacheKey); ok {
		return cached, nil
	}

	var routes []routeareadomain.RouteArea
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order, area").
		Find(&routes).Error
	if err != nil {
		return nil, err
	}

	s.cache.Set(catalogueCacheKey, routes, catalogueCacheTTL)
	return routes, nil
}

func (s *Service) CheckPostcode(ctx context.Context, postcode string, reference calendar.YMD) (routeareadomain.MatchResult, error) {
	catalogue, err := s.Catalogue(ctx)
	if err != nil {
		return routeareadomain.MatchResult{}, err
	}
	return routeareadomain.Match(postcode, catalogue, reference)
}

func (s *Service) List(ctx context.Context) ([]routeareadomain.RouteArea, error) {
	var routes []routeareadomain.RouteArea
	err := s.db.WithContext(ctx).Order("sort_order, area").Find(&routes).Error
	if err != nil {
		return nil, err
	}
	return routes, nil
}

func (s *Service) Create(ctx context.Context, req routeareadomain.CreateRouteAreaRequest) (*routeareadomain.RouteArea, error) {
	area := strings.TrimSpace(req.Area)
	if area == "" {
		return nil, routeareadomain.ErrInvalidArea
	}
	weekday := strings.TrimSpace(req.Weekday)
	if _, ok := calendar.WeekdayIndex(weekday); !ok {
		return nil, routeareadomain.ErrInvalidWeekday
	}
	prefixes, err := normalizePrefixes(req.Prefixes)
	if err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	route := &routeareadomain.RouteArea{
		ID:        s.genID.Generate(),
		Area:      area,
		Weekday:   weekday,
		Slot:      routeareadomain.NormalizeSlot(req.Slot),
		Prefixes:  prefixes,
		Active:    active,
		SortOrder: req.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, route); err != nil {
		return nil, err
	}

	s.cache.Delete(catalogueCacheKey)
	s.log.Info("route area created",
		zap.String("route_area_id", route.ID.String()),
		zap.String("area", route.Area),
		zap.String("weekday", route.Weekday),
	)
	return route, nil
}

func (s *Service) Update(ctx context.Context, id string, req routeareadomain.UpdateRouteAreaRequest) (*routeareadomain.RouteArea, error) {
	routeID, err := parseID(id)
	if err != nil {
		return nil, routeareadomain.ErrRouteNotFound
	}

	route, err := s.repo.FindOne(ctx, map[string]any{"id": routeID})
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, routeareadomain.ErrRouteNotFound
		}
		return nil, err
	}

	if req.Weekday != nil {
		weekday := strings.TrimSpace(*req.Weekday)
		if _, ok := calendar.WeekdayIndex(weekday); !ok {
			return nil, routeareadomain.ErrInvalidWeekday
		}
		route.Weekday = weekday
	}
	if req.Slot != nil {
		route.Slot = routeareadomain.NormalizeSlot(*req.Slot)
	}
	if req.Prefixes != nil {
		prefixes, err := normalizePrefixes(*req.Prefixes)
		if err != nil {
			return nil, err
		}
		route.Prefixes = prefixes
	}
	if req.Active != nil {
		route.Active = *req.Active
	}
	if req.SortOrder != nil {
		route.SortOrder = *req.SortOrder
	}
	route.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, route); err != nil {
		return nil, err
	}

	s.cache.Delete(catalogueCacheKey)
	return route, nil
}

func normalizePrefixes(raw string) (string, error) {
	parts := strings.Split(raw, ",")
	prefixes := make([]string, 0, len(parts))
	for _, part := range parts {
		prefix := routeareadomain.NormalizePostcode(part)
		if prefix != "" {
			prefixes = append(prefixes, prefix)
		}
	}
	if len(prefixes) == 0 {
		return "", routeareadomain.ErrInvalidPrefixes
	}
	return strings.Join(prefixes, ","), nil
}

func parseID(id string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid_id")
	}
	return snowflake.ID(parsed), nil
}
