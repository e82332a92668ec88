package state

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"mediaplane/pkg/config"
	"mediaplane/pkg/errutil"
	"mediaplane/pkg/storagekey"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var Module = fx.Module("transcode.state", fx.Provide(NewRepository))

// Repository is the job state store: one snapshot per job, refreshed
// TTL on every write so long-idle jobs eventually vanish.
type Repository interface {
	SetStatus(ctx context.Context, job Job) error
	GetStatus(ctx context.Context, jobID string) (Job, error)
}

type repository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRepository(rdb *redis.Client, cfg *config.Config) Repository {
	return &repository{
		rdb: rdb,
		ttl: cfg.Pipeline.StatusTTL,
	}
}

func (r *repository) SetStatus(ctx context.Context, job Job) error {
	job.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(job)
	if err != nil {
		return errutil.Internal("marshal job snapshot", errutil.WithErr(err))
	}

	if err := r.rdb.Set(ctx, storagekey.BuildJobKey(job.ID), payload, r.ttl).Err(); err != nil {
		return errutil.Internal("write job snapshot", errutil.WithErr(err))
	}
	return nil
}

func (r *repository) GetStatus(ctx context.Context, jobID string) (Job, error) {
	payload, err := r.rdb.Get(ctx, storagekey.BuildJobKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Job{}, errutil.NotFound("job " + jobID + " not found")
		}
		return Job{}, errutil.Internal("read job snapshot", errutil.WithErr(err))
	}

	var job Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return Job{}, errutil.Internal("decode job snapshot", errutil.WithErr(err))
	}
	return job, nil
}
