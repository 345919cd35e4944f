package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/auth/password"
	staffdomain "github.com/othomas555/arocwaste/internal/staff/domain"
	"github.com/othomas555/arocwaste/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[staffdomain.StaffMember]
}

func NewService(p ServiceParam) staffdomain.Service {
	return &Service{
		log:   p.Log.Named("staff.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[staffdomain.StaffMember](p.DB),
	}
}

func (s *Service) List(ctx context.Context) ([]staffdomain.StaffMember, error) {
	return s.repo.Find(ctx, map[string]any{"active": true})
}

func (s *Service) Create(ctx context.Context, req staffdomain.CreateStaffRequest) (*staffdomain.StaffMember, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, staffdomain.ErrInvalidName
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, staffdomain.ErrInvalidEmail
	}
	role := staffdomain.StaffRole(strings.TrimSpace(req.Role))
	switch role {
	case staffdomain.RoleDriver, staffdomain.RoleOps, staffdomain.RoleAdmin:
	default:
		return nil, staffdomain.ErrInvalidRole
	}
	if len(req.Password) < 8 {
		return nil, staffdomain.ErrInvalidPassword
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	member := &staffdomain.StaffMember{
		ID:           s.genID.Generate(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hashed,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.log.Info("staff member created", zap.String("staff_id", member.ID.String()), zap.String("role", string(role)))
	return member, nil
}
