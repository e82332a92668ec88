package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	queue "mediaplane/pkg/asynq"
	"mediaplane/pkg/config"
	"mediaplane/pkg/gen"
	"mediaplane/pkg/health"
	"mediaplane/pkg/logger"
	"mediaplane/pkg/minio"
	"mediaplane/pkg/objstore"
	"mediaplane/pkg/redis"
	"mediaplane/pkg/server"
	"mediaplane/services/transcode"
	"mediaplane/services/transcode/state"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		redis.Module,
		minio.Client,
		objstore.Module,
		gen.Module,
		queue.Client,
		state.Module,
		transcode.Module,
		health.Module,
		server.ProvideHTTPServer,
		fxLogger,
	)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})
