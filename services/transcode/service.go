package transcode

import (
	"context"
	"time"

	queue "mediaplane/pkg/asynq"
	"mediaplane/pkg/config"
	"mediaplane/pkg/errutil"
	"mediaplane/pkg/ffmpeg"
	"mediaplane/pkg/gen"
	"mediaplane/pkg/objstore"
	"mediaplane/services/transcode/state"
	"mediaplane/services/transcode/task"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Presigned artifact links are short-lived; players re-request them.
const artifactURLTTL = time.Hour

type Service struct {
	repo     state.Repository
	enqueuer queue.Enqueuer
	store    objstore.Store
	node     *gen.SnowflakeNode
	policy   task.QueuePolicy
}

type Params struct {
	fx.In
	Repo     state.Repository
	Enqueuer queue.Enqueuer
	Store    objstore.Store
	Node     *gen.SnowflakeNode
	Cfg      *config.Config
}

func NewService(p Params) *Service {
	return &Service{
		repo:     p.Repo,
		enqueuer: p.Enqueuer,
		store:    p.Store,
		node:     p.Node,
		policy: task.QueuePolicy{
			MaxAttempts:  p.Cfg.Queue.MaxAttempts,
			LeaseTimeout: p.Cfg.Queue.LeaseTimeout,
			Retention:    p.Cfg.Queue.Retention,
		},
	}
}

// Enqueue validates the request, records the initial queued snapshot
// and hands the job to the work queue. It never blocks on encoding.
func (s *Service) Enqueue(ctx context.Context, req TranscodeRequest) (string, error) {
	if req.VideoID == "" {
		return "", errutil.BadRequest("video_id is required")
	}
	if req.InputKey == "" {
		return "", errutil.BadRequest("input_key is required")
	}
	for _, name := range req.Profiles {
		if _, ok := ffmpeg.LookupProfile(name); !ok {
			return "", errutil.ValidationFailed("unknown profile " + name)
		}
	}

	jobID := s.node.GenerateID().String()

	if err := s.repo.SetStatus(ctx, state.Job{
		ID:       jobID,
		State:    state.StateQueued,
		Progress: 0,
		Attempts: 0,
	}); err != nil {
		return "", err
	}

	t, err := task.NewTranscodeTask(task.Payload{
		JobID:              jobID,
		VideoID:            req.VideoID,
		InputKey:           req.InputKey,
		Profiles:           req.Profiles,
		GenerateHLS:        req.GenerateHLS,
		GenerateDASH:       req.GenerateDASH,
		GenerateThumbnails: req.GenerateThumbnails,
	}, s.policy)
	if err != nil {
		return "", errutil.Internal("build transcode task", errutil.WithErr(err))
	}

	if _, err := s.enqueuer.Enqueue(ctx, t); err != nil {
		return "", err
	}

	zap.L().Info("enqueued transcode job",
		zap.String("job_id", jobID),
		zap.String("video_id", req.VideoID),
		zap.Strings("profiles", req.Profiles),
	)
	return jobID, nil
}

// Status returns the job state store snapshot for a job.
func (s *Service) Status(ctx context.Context, jobID string) (state.Job, error) {
	if jobID == "" {
		return state.Job{}, errutil.BadRequest("job id is required")
	}
	return s.repo.GetStatus(ctx, jobID)
}

// completedResult loads the job and requires a terminal successful state.
func (s *Service) completedResult(ctx context.Context, jobID string) (*state.Result, error) {
	job, err := s.repo.GetStatus(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.State != state.StateCompleted || job.Result == nil {
		return nil, errutil.Conflict("job " + jobID + " has no artifacts yet")
	}
	return job.Result, nil
}

// ArtifactURLs returns short-lived download links for everything a
// completed job produced.
func (s *Service) ArtifactURLs(ctx context.Context, jobID string) (*ArtifactURLs, error) {
	result, err := s.completedResult(ctx, jobID)
	if err != nil {
		return nil, err
	}

	urls := &ArtifactURLs{ExpiresIn: int(artifactURLTTL.Seconds())}

	for _, f := range result.TranscodedFiles {
		u, err := s.store.PresignedGet(ctx, f.Key, artifactURLTTL)
		if err != nil {
			return nil, err
		}
		urls.Renditions = append(urls.Renditions, RenditionURL{Profile: f.Profile, URL: u})
	}

	if result.HLS != nil {
		u, err := s.store.PresignedGet(ctx, result.HLS.Playlist, artifactURLTTL)
		if err != nil {
			return nil, err
		}
		urls.HLSPlaylist = u
	}
	if result.DASH != nil {
		u, err := s.store.PresignedGet(ctx, result.DASH.Playlist, artifactURLTTL)
		if err != nil {
			return nil, err
		}
		urls.DASHManifest = u
	}

	for _, key := range result.Thumbnails {
		u, err := s.store.PresignedGet(ctx, key, artifactURLTTL)
		if err != nil {
			return nil, err
		}
		urls.Thumbnails = append(urls.Thumbnails, u)
	}

	if result.Preview != "" {
		u, err := s.store.PresignedGet(ctx, result.Preview, artifactURLTTL)
		if err != nil {
			return nil, err
		}
		urls.Preview = u
	}

	return urls, nil
}

// DeleteArtifacts removes every stored object a completed job produced.
// The job snapshot itself is left to expire with its TTL.
func (s *Service) DeleteArtifacts(ctx context.Context, jobID string) error {
	result, err := s.completedResult(ctx, jobID)
	if err != nil {
		return err
	}

	keys := result.Keys()
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			return err
		}
	}

	zap.L().Info("deleted job artifacts",
		zap.String("job_id", jobID),
		zap.Int("objects", len(keys)),
	)
	return nil
}
