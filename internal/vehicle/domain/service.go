package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context) ([]Vehicle, error)
	Create(ctx context.Context, req CreateVehicleRequest) (*Vehicle, error)
}

type CreateVehicleRequest struct {
	Registration string `json:"registration"`
	Label        string `json:"label"`
}

var ErrInvalidRegistration = errors.New("invalid_registration")
