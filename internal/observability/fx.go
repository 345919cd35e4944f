// Package observability wires logging and tracing into the fx application.
package observability

import (
	"github.com/othomas555/arocwaste/internal/observability/logger"
	"github.com/othomas555/arocwaste/internal/observability/tracing"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	logger.Module,
	fx.Invoke(tracing.NewProvider),
)
