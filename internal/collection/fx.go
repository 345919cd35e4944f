package collection

import (
	"github.com/othomas555/arocwaste/internal/collection/service"
	"go.uber.org/fx"
)

var Module = fx.Module("collection.service",
	fx.Provide(service.NewService),
)
