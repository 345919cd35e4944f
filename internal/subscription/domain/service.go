package domain

import (
	"context"
	"errors"

	"github.com/othomas555/arocwaste/internal/calendar"
	"github.com/othomas555/arocwaste/pkg/db/pagination"
)

// Service owns every transition into and out of subscription fields.
type Service interface {
	Create(ctx context.Context, req CreateSubscriptionRequest) (*Subscription, error)
	Get(ctx context.Context, id string) (*Subscription, error)
	List(ctx context.Context, req ListSubscriptionRequest) (ListSubscriptionResponse, error)
	Override(ctx context.Context, id string, req OverrideRequest) (*Subscription, error)
	Cancel(ctx context.Context, id string) (*Subscription, error)
}

// CreateSubscriptionRequest carries checkout-completion fields. Reference is
// the civil date the route match and first collection are computed against.
type CreateSubscriptionRequest struct {
	CustomerName string
	Email        string
	Address      string
	Postcode     string
	Frequency    Frequency
	ExtraBags    int
	UseOwnBin    bool
	Trialing     bool
	Reference    calendar.YMD
}

// ListSubscriptionRequest filters the ops subscription table.
type ListSubscriptionRequest struct {
	pagination.Pagination
	Status    SubscriptionStatus
	Postcode  string
	RouteArea string
	DueOn     calendar.YMD
}

type ListSubscriptionResponse struct {
	Items         []Subscription `json:"items"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

// OverrideRequest is the explicit ops override of engine-owned fields.
// Nil fields are untouched; pointer-to-empty clears a nullable field.
type OverrideRequest struct {
	RouteArea          *string
	RouteDay           *string
	RouteSlot          *string
	NextCollectionDate *string
	PauseFrom          *string
	PauseTo            *string
	Status             *SubscriptionStatus
	OpsNotes           *string
}

var (
	ErrSubscriptionNotFound = errors.New("subscription_not_found")
	ErrInvalidPostcode      = errors.New("invalid_postcode")
	ErrInvalidFrequency     = errors.New("invalid_frequency")
	ErrInvalidExtraBags     = errors.New("invalid_extra_bags")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidPauseWindow   = errors.New("invalid_pause_window")
	ErrRouteDayMismatch     = errors.New("route_day_mismatch")
	ErrAlreadyCanceled      = errors.New("already_canceled")
)
