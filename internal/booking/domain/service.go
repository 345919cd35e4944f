package domain

import (
	"context"
	"errors"

	"github.com/othomas555/arocwaste/internal/calendar"
)

type Service interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*OneOffBooking, error)
	ListBookings(ctx context.Context, date calendar.YMD) ([]OneOffBooking, error)
	CreateQuoteVisit(ctx context.Context, req CreateQuoteVisitRequest) (*QuoteVisit, error)
	ListQuoteVisits(ctx context.Context, date calendar.YMD) ([]QuoteVisit, error)
}

type CreateBookingRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Postcode string `json:"postcode"`
	Date     string `json:"date"`
}

type CreateQuoteVisitRequest struct {
	Name     string `json:"name"`
	Postcode string `json:"postcode"`
	Date     string `json:"date"`
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidPostcode = errors.New("invalid_postcode")
)
