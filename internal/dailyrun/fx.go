package dailyrun

import (
	"github.com/othomas555/arocwaste/internal/dailyrun/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dailyrun.service",
	fx.Provide(service.NewService),
)
