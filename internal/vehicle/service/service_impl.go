package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	vehicledomain "github.com/othomas555/arocwaste/internal/vehicle/domain"
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
	repo  repository.Repository[vehicledomain.Vehicle]
}

func NewService(p ServiceParam) vehicledomain.Service {
	return &Service{
		log:   p.Log.Named("vehicle.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[vehicledomain.Vehicle](p.DB),
	}
}

func (s *Service) List(ctx context.Context) ([]vehicledomain.Vehicle, error) {
	return s.repo.Find(ctx, map[string]any{"active": true})
}

func (s *Service) Create(ctx context.Context, req vehicledomain.CreateVehicleRequest) (*vehicledomain.Vehicle, error) {
	registration := strings.ToUpper(strings.Join(strings.Fields(req.Registration), " "))
	if registration == "" {
		return nil, vehicledomain.ErrInvalidRegistration
	}

	now := time.Now().UTC()
	vehicle := &vehicledomain.Vehicle{
		ID:           s.genID.Generate(),
		Registration: registration,
		Label:        strings.TrimSpace(req.Label),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	s.log.Info("vehicle created", zap.String("vehicle_id", vehicle.ID.String()))
	return vehicle, nil
}
