package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context) ([]StaffMember, error)
	Create(ctx context.Context, req CreateStaffRequest) (*StaffMember, error)
}

type CreateStaffRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidRole     = errors.New("invalid_role")
	ErrInvalidPassword = errors.New("invalid_password")
)
