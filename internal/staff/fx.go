package staff

import (
	"github.com/othomas555/arocwaste/internal/staff/service"
	"go.uber.org/fx"
)

var Module = fx.Module("staff.service",
	fx.Provide(service.NewService),
)
