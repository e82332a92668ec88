package transcode

import (
	"go.uber.org/fx"
)

var Module = fx.Module("transcode.service",
	fx.Provide(
		NewService,
		NewHandler,
	),
	fx.Invoke(RegisterRoutes),
)
