package task

import (
	"context"
	"os"
	"path/filepath"

	"mediaplane/pkg/config"
	"mediaplane/pkg/errutil"
	"mediaplane/pkg/ffmpeg"
	"mediaplane/pkg/objstore"
	"mediaplane/pkg/storagekey"
	"mediaplane/services/transcode/state"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Progress budget per stage. Skipped stages contribute nothing; the
// finalize write always lands on 100.
const (
	budgetMetadata   = 10
	budgetProfiles   = 30
	budgetHLS        = 20
	budgetDASH       = 15
	budgetThumbnails = 10
	budgetPreview    = 10
)

// Segment uploads are I/O bound, so a small amount of parallelism is
// allowed inside a packaging stage. Encoding itself stays sequential.
const segmentUploadParallelism = 4

// Orchestrator drives one job through the fixed stage pipeline:
// metadata, per-profile transcodes, HLS packaging, DASH packaging,
// thumbnails, preview, finalize. Any stage error aborts the attempt.
type Orchestrator struct {
	encoder ffmpeg.Encoder
	store   objstore.Store
	repo    state.Repository
	cfg     *config.Config
}

type OrchestratorParams struct {
	fx.In
	Encoder ffmpeg.Encoder
	Store   objstore.Store
	Repo    state.Repository
	Cfg     *config.Config
}

func NewOrchestrator(p OrchestratorParams) *Orchestrator {
	return &Orchestrator{
		encoder: p.Encoder,
		store:   p.Store,
		repo:    p.Repo,
		cfg:     p.Cfg,
	}
}

// Run executes every requested stage in order and returns the artifact
// manifest. Local scratch space is reclaimed on every exit path.
func (o *Orchestrator) Run(ctx context.Context, p Payload, attempt int) (*state.Result, error) {
	scratch, err := os.MkdirTemp(o.cfg.Pipeline.TempDir, "job-"+p.JobID+"-")
	if err != nil {
		return nil, errutil.Internal("create job scratch dir", errutil.WithErr(err))
	}
	defer os.RemoveAll(scratch)

	progress := &tracker{repo: o.repo, jobID: p.JobID, attempt: attempt}

	inputPath := filepath.Join(scratch, "source"+filepath.Ext(p.InputKey))
	if err := o.store.Download(ctx, p.InputKey, inputPath); err != nil {
		return nil, err
	}

	md, err := o.encoder.Probe(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	progress.advance(ctx, budgetMetadata)

	result := &state.Result{Metadata: md}

	if err := o.runProfiles(ctx, p, inputPath, progress, result); err != nil {
		return nil, err
	}

	if p.GenerateHLS {
		if err := o.runHLS(ctx, p, inputPath, progress, result); err != nil {
			return nil, err
		}
	}

	if p.GenerateDASH {
		if err := o.runDASH(ctx, p, inputPath, progress, result); err != nil {
			return nil, err
		}
	}

	if p.GenerateThumbnails {
		if err := o.runThumbnails(ctx, p, inputPath, md.DurationSeconds, progress, result); err != nil {
			return nil, err
		}
	}

	// The preview is unconditional: every job produces one.
	if err := o.runPreview(ctx, p, inputPath, progress, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (o *Orchestrator) runProfiles(ctx context.Context, p Payload, inputPath string, progress *tracker, result *state.Result) error {
	if len(p.Profiles) == 0 {
		return nil
	}

	share := budgetProfiles / len(p.Profiles)
	for _, name := range p.Profiles {
		prof, ok := ffmpeg.LookupProfile(name)
		if !ok {
			return errutil.ValidationFailed("unknown profile " + name)
		}

		outputPath, err := o.encoder.Transcode(ctx, inputPath, prof, progress.stage(ctx, share))
		if err != nil {
			return err
		}

		key := storagekey.Rendition(p.VideoID, name)
		err = o.store.Upload(ctx, key, outputPath, "")
		os.RemoveAll(filepath.Dir(outputPath))
		if err != nil {
			return err
		}

		result.TranscodedFiles = append(result.TranscodedFiles, state.Rendition{Profile: name, Key: key})
		progress.advance(ctx, share)
	}

	return nil
}

func (o *Orchestrator) runHLS(ctx context.Context, p Payload, inputPath string, progress *tracker, result *state.Result) error {
	out, err := o.encoder.PackageHLS(ctx, inputPath, progress.stage(ctx, budgetHLS))
	if err != nil {
		return err
	}

	playlistKey := storagekey.HLSPlaylist(p.VideoID)
	segmentKeys, err := o.uploadSegmented(ctx, out, playlistKey, func(name string) string {
		return storagekey.HLSSegment(p.VideoID, name)
	})
	if err != nil {
		return err
	}

	result.HLS = &state.SegmentedArtifact{Playlist: playlistKey, Segments: segmentKeys}
	progress.advance(ctx, budgetHLS)
	return nil
}

func (o *Orchestrator) runDASH(ctx context.Context, p Payload, inputPath string, progress *tracker, result *state.Result) error {
	out, err := o.encoder.PackageDASH(ctx, inputPath, progress.stage(ctx, budgetDASH))
	if err != nil {
		return err
	}

	manifestKey := storagekey.DASHManifest(p.VideoID)
	segmentKeys, err := o.uploadSegmented(ctx, out, manifestKey, func(name string) string {
		return storagekey.DASHSegment(p.VideoID, name)
	})
	if err != nil {
		return err
	}

	result.DASH = &state.SegmentedArtifact{Playlist: manifestKey, Segments: segmentKeys}
	progress.advance(ctx, budgetDASH)
	return nil
}

// uploadSegmented pushes the index file and every segment, then removes
// the packager's scratch directory whether or not the uploads worked.
func (o *Orchestrator) uploadSegmented(ctx context.Context, out *ffmpeg.SegmentedOutput, indexKey string, segmentKey func(name string) string) ([]string, error) {
	defer os.RemoveAll(out.Dir)

	if err := o.store.Upload(ctx, indexKey, out.Index, ""); err != nil {
		return nil, err
	}

	keys := make([]string, len(out.Segments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(segmentUploadParallelism)
	for i, segPath := range out.Segments {
		key := segmentKey(filepath.Base(segPath))
		keys[i] = key
		g.Go(func() error {
			return o.store.Upload(gctx, key, segPath, "")
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return keys, nil
}

func (o *Orchestrator) runThumbnails(ctx context.Context, p Payload, inputPath string, durationSeconds float64, progress *tracker, result *state.Result) error {
	count := o.cfg.Pipeline.ThumbnailCount
	paths, err := o.encoder.Thumbnails(ctx, inputPath, count, durationSeconds, progress.stage(ctx, budgetThumbnails))
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(paths))
	var uploadErr error
	for i, path := range paths {
		key := storagekey.Thumbnail(p.VideoID, i+1)
		if uploadErr == nil {
			uploadErr = o.store.Upload(ctx, key, path, "")
		}
		keys = append(keys, key)
	}
	if len(paths) > 0 {
		os.RemoveAll(filepath.Dir(paths[0]))
	}
	if uploadErr != nil {
		return uploadErr
	}

	result.Thumbnails = keys
	progress.advance(ctx, budgetThumbnails)
	return nil
}

func (o *Orchestrator) runPreview(ctx context.Context, p Payload, inputPath string, progress *tracker, result *state.Result) error {
	outputPath, err := o.encoder.Preview(ctx, inputPath, o.cfg.Pipeline.PreviewMaxDuration, progress.stage(ctx, budgetPreview))
	if err != nil {
		return err
	}

	key := storagekey.Preview(p.VideoID)
	err = o.store.Upload(ctx, key, outputPath, "")
	os.RemoveAll(filepath.Dir(outputPath))
	if err != nil {
		return err
	}

	result.Preview = key
	progress.advance(ctx, budgetPreview)
	return nil
}

// tracker writes monotonic progress snapshots at stage boundaries and
// on encoder callbacks. Snapshot write failures only degrade progress
// visibility, so they are logged and swallowed.
type tracker struct {
	repo    state.Repository
	jobID   string
	attempt int
	cur     int
	last    int
}

// advance moves the completed-budget cursor forward by delta points.
func (t *tracker) advance(ctx context.Context, delta int) {
	t.write(ctx, t.cur+delta)
	t.cur += delta
}

// stage scales an encoder's 0-100 callbacks into the owning stage's
// budget slice on top of the completed budget so far.
func (t *tracker) stage(ctx context.Context, budget int) ffmpeg.ProgressFunc {
	base := t.cur
	return func(percent int) {
		t.write(ctx, base+percent*budget/100)
	}
}

func (t *tracker) write(ctx context.Context, progress int) {
	if progress > 100 {
		progress = 100
	}
	if progress <= t.last {
		return
	}
	t.last = progress
	err := t.repo.SetStatus(ctx, state.Job{
		ID:       t.jobID,
		State:    state.StateActive,
		Progress: progress,
		Attempts: t.attempt,
	})
	if err != nil {
		zap.L().Warn("failed to update job progress", zap.String("job_id", t.jobID), zap.Error(err))
	}
}
