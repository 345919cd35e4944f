package routearea

import (
	"github.com/othomas555/arocwaste/internal/cache"
	"github.com/othomas555/arocwaste/internal/routearea/service"
	"go.uber.org/fx"
)

var Module = fx.Module("routearea.service",
	fx.Provide(cache.NewRouteCatalogueCache),
	fx.Provide(service.NewService),
)
