package vehicle

import (
	"github.com/othomas555/arocwaste/internal/vehicle/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vehicle.service",
	fx.Provide(service.NewService),
)
