package server

import "go.uber.org/fx"

// Module wires the HTTP server.
var Module = fx.Module("server",
	fx.Provide(
		NewServer,
		NewEngine,
	),
	fx.Invoke(RunHTTP),
)
