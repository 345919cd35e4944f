package reassign

import "go.uber.org/fx"

var Module = fx.Module("reassign.batch",
	fx.Provide(NewBatch),
)
