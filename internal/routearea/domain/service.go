package domain

import (
	"context"
	"errors"

	"github.com/othomas555/arocwaste/internal/calendar"
)

// Service exposes the route catalogue and the postcode matcher.
type Service interface {
	CheckPostcode(ctx context.Context, postcode string, reference calendar.YMD) (MatchResult, error)
	Catalogue(ctx context.Context) ([]RouteArea, error)
	List(ctx context.Context) ([]RouteArea, error)
	Create(ctx context.Context, req CreateRouteAreaRequest) (*RouteArea, error)
	Update(ctx context.Context, id string, req UpdateRouteAreaRequest) (*RouteArea, error)
}

// CreateRouteAreaRequest carries the ops-facing fields for a new route.
type CreateRouteAreaRequest struct {
	Area      string `json:"area"`
	Weekday   string `json:"weekday"`
	Slot      string `json:"slot"`
	Prefixes  string `json:"prefixes"`
	Active    *bool  `json:"active"`
	SortOrder int    `json:"sort_order"`
}

// UpdateRouteAreaRequest carries partial updates; nil fields are untouched.
type UpdateRouteAreaRequest struct {
	Weekday   *string `json:"weekday"`
	Slot      *string `json:"slot"`
	Prefixes  *string `json:"prefixes"`
	Active    *bool   `json:"active"`
	SortOrder *int    `json:"sort_order"`
}

var (
	ErrInvalidArea     = errors.New("invalid_area")
	ErrInvalidWeekday  = errors.New("invalid_weekday")
	ErrInvalidPrefixes = errors.New("invalid_prefixes")
	ErrRouteNotFound   = errors.New("route_not_found")
)
