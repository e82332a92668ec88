package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	queue "mediaplane/pkg/asynq"
	"mediaplane/pkg/config"
	"mediaplane/pkg/ffmpeg"
	"mediaplane/pkg/logger"
	"mediaplane/pkg/minio"
	"mediaplane/pkg/objstore"
	"mediaplane/pkg/redis"
	"mediaplane/services/transcode/state"
	"mediaplane/services/transcode/task"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		redis.Module,
		minio.Client,
		objstore.Module,
		ffmpeg.Module,
		state.Module,
		queue.Server,
		task.Module,
		fxLogger,
	)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})
