package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"mediaplane/pkg/config"
	"mediaplane/pkg/errutil"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

var Module = fx.Module("ffmpeg", fx.Provide(NewEncoder))

// ProgressFunc receives whole percentages 0-100. It is invoked from a
// single goroutine per encoder call; values never decrease.
type ProgressFunc func(percent int)

// SegmentedOutput is the result of an HLS or DASH packaging run. All
// paths live inside Dir, which the caller removes after upload.
type SegmentedOutput struct {
	Index    string
	Segments []string
	Dir      string
}

// Encoder is the encoding capability boundary: one production adapter
// shelling out to ffmpeg, and fakes for tests.
type Encoder interface {
	Probe(ctx context.Context, inputPath string) (*Metadata, error)
	Transcode(ctx context.Context, inputPath string, p Profile, onProgress ProgressFunc) (string, error)
	PackageHLS(ctx context.Context, inputPath string, onProgress ProgressFunc) (*SegmentedOutput, error)
	PackageDASH(ctx context.Context, inputPath string, onProgress ProgressFunc) (*SegmentedOutput, error)
	Thumbnails(ctx context.Context, inputPath string, count int, durationSeconds float64, onProgress ProgressFunc) ([]string, error)
	Preview(ctx context.Context, inputPath string, maxDuration time.Duration, onProgress ProgressFunc) (string, error)
}

type FFmpeg struct {
	binPath         string
	probePath       string
	preset          string
	tempDir         string
	segmentDuration int
	playlistWindow  int
}

func NewEncoder(cfg *config.Config) Encoder {
	return &FFmpeg{
		binPath:         cfg.FFmpeg.BinPath,
		probePath:       cfg.FFmpeg.ProbePath,
		preset:          cfg.FFmpeg.Preset,
		tempDir:         cfg.Pipeline.TempDir,
		segmentDuration: cfg.Pipeline.SegmentDuration,
		playlistWindow:  cfg.Pipeline.PlaylistWindow,
	}
}

// scratchDir creates a private per-invocation output directory. Nothing
// written there survives past the caller's explicit cleanup.
func (f *FFmpeg) scratchDir() (string, error) {
	dir := filepath.Join(f.tempDir, "mediaplane-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errutil.EncodeFailed("create scratch dir", errutil.WithErr(err))
	}
	return dir, nil
}

func (f *FFmpeg) Transcode(ctx context.Context, inputPath string, p Profile, onProgress ProgressFunc) (string, error) {
	dir, err := f.scratchDir()
	if err != nil {
		return "", err
	}
	outputPath := filepath.Join(dir, p.Name+".mp4")

	duration := f.probeDuration(ctx, inputPath)

	args := []string{
		"-y",
		"-i", inputPath,
		"-vf", fmt.Sprintf("scale=%d:%d", p.Width, p.Height),
		"-c:v", "libx264",
		"-preset", f.preset,
		"-b:v", p.VideoBitrate,
		"-maxrate", p.MaxRate,
		"-bufsize", p.BufSize,
		"-c:a", "aac",
		"-b:a", p.AudioBitrate,
		"-movflags", "+faststart",
		outputPath,
	}

	if err := f.runEncode(ctx, args, duration, onProgress); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return outputPath, nil
}

// PackageHLS re-packages the input (stream copy, no re-encode) into a
// segmented playlist. The sliding playlist window with segment deletion
// is carried over from the live use case.
func (f *FFmpeg) PackageHLS(ctx context.Context, inputPath string, onProgress ProgressFunc) (*SegmentedOutput, error) {
	dir, err := f.scratchDir()
	if err != nil {
		return nil, err
	}
	playlistPath := filepath.Join(dir, "playlist.m3u8")

	duration := f.probeDuration(ctx, inputPath)

	args := []string{
		"-y",
		"-i", inputPath,
		"-c", "copy",
		"-f", "hls",
		"-hls_time", strconv.Itoa(f.segmentDuration),
		"-hls_list_size", strconv.Itoa(f.playlistWindow),
		"-hls_flags", "delete_segments",
		"-hls_segment_filename", filepath.Join(dir, "segment_%03d.ts"),
		playlistPath,
	}

	if err := f.runEncode(ctx, args, duration, onProgress); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	return collectSegmented(dir, playlistPath)
}

// PackageDASH produces a manifest plus numbered media segments using
// timeline+template addressing, stream copied like HLS.
func (f *FFmpeg) PackageDASH(ctx context.Context, inputPath string, onProgress ProgressFunc) (*SegmentedOutput, error) {
	dir, err := f.scratchDir()
	if err != nil {
		return nil, err
	}
	manifestPath := filepath.Join(dir, "manifest.mpd")

	duration := f.probeDuration(ctx, inputPath)

	args := []string{
		"-y",
		"-i", inputPath,
		"-c", "copy",
		"-f", "dash",
		"-use_template", "1",
		"-use_timeline", "1",
		"-init_seg_name", "init-$RepresentationID$.mp4",
		"-media_seg_name", "chunk-$RepresentationID$-$Number$.m4s",
		"-seg_duration", strconv.Itoa(f.segmentDuration),
		manifestPath,
	}

	if err := f.runEncode(ctx, args, duration, onProgress); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	return collectSegmented(dir, manifestPath)
}

// Thumbnails extracts count still frames at evenly spaced timestamps,
// never at 0 or the exact end, to avoid black frames.
func (f *FFmpeg) Thumbnails(ctx context.Context, inputPath string, count int, durationSeconds float64, onProgress ProgressFunc) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}
	if durationSeconds <= 0 {
		return nil, errutil.EncodeFailed("source duration unknown, cannot place thumbnails")
	}

	dir, err := f.scratchDir()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		ts := durationSeconds / float64(count+1) * float64(i)
		outputPath := filepath.Join(dir, fmt.Sprintf("thumb_%d.jpg", i))

		args := []string{
			"-y",
			"-ss", strconv.FormatFloat(ts, 'f', 3, 64),
			"-i", inputPath,
			"-frames:v", "1",
			"-q:v", "2",
			outputPath,
		}

		if err := f.runEncode(ctx, args, 0, nil); err != nil {
			os.RemoveAll(dir)
			return nil, err
		}
		paths = append(paths, outputPath)

		if onProgress != nil {
			onProgress(i * 100 / count)
		}
	}

	return paths, nil
}

// Preview produces a shortened, re-encoded low-bitrate clip capped at
// maxDuration from the start of the source.
func (f *FFmpeg) Preview(ctx context.Context, inputPath string, maxDuration time.Duration, onProgress ProgressFunc) (string, error) {
	dir, err := f.scratchDir()
	if err != nil {
		return "", err
	}
	outputPath := filepath.Join(dir, "preview.mp4")

	duration := f.probeDuration(ctx, inputPath)
	if limit := maxDuration.Seconds(); duration > limit {
		duration = limit
	}

	args := []string{
		"-y",
		"-i", inputPath,
		"-t", strconv.FormatFloat(maxDuration.Seconds(), 'f', 0, 64),
		"-vf", "scale=-2:360",
		"-c:v", "libx264",
		"-preset", f.preset,
		"-b:v", "500k",
		"-maxrate", "535k",
		"-bufsize", "750k",
		"-c:a", "aac",
		"-b:a", "96k",
		"-movflags", "+faststart",
		outputPath,
	}

	if err := f.runEncode(ctx, args, duration, onProgress); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return outputPath, nil
}

// probeDuration is best-effort; a zero duration only coarsens progress.
func (f *FFmpeg) probeDuration(ctx context.Context, inputPath string) float64 {
	md, err := f.Probe(ctx, inputPath)
	if err != nil {
		return 0
	}
	return md.DurationSeconds
}

// collectSegmented lists the scratch dir and splits the index file from
// its segments, segment names sorted for deterministic upload order.
func collectSegmented(dir, indexPath string) (*SegmentedOutput, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errutil.EncodeFailed("read packaging output dir", errutil.WithErr(err))
	}

	out := &SegmentedOutput{Index: indexPath, Dir: dir}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if p == indexPath {
			continue
		}
		out.Segments = append(out.Segments, p)
	}
	sort.Strings(out.Segments)

	return out, nil
}
