package task

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"mediaplane/pkg/errutil"
	"mediaplane/services/transcode/state"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*Handler, *fakeEncoder, *fakeRepo) {
	t.Helper()
	orch, enc, _, repo := newTestOrchestrator(t)
	return NewHandler(orch, repo), enc, repo
}

func mustTask(t *testing.T, p Payload) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(p)
	require.NoError(t, err)
	return asynq.NewTask(TypeTranscodeVideo, payload)
}

func TestProcessTaskCompletesJob(t *testing.T) {
	h, _, repo := newTestHandler(t)

	err := h.ProcessTask(context.Background(), mustTask(t, Payload{
		JobID:       "job-1",
		VideoID:     "v1",
		InputKey:    "uploads/v1/source.mp4",
		Profiles:    []string{"360p"},
		GenerateHLS: true,
	}))
	require.NoError(t, err)

	final := repo.snapshots[len(repo.snapshots)-1]
	require.Equal(t, state.StateCompleted, final.State)
	require.Equal(t, 100, final.Progress)
	require.Equal(t, 1, final.Attempts)
	require.NotNil(t, final.Result)
	require.Equal(t, "streams/v1/hls/playlist.m3u8", final.Result.HLS.Playlist)
	require.Empty(t, final.Error)
}

func TestProcessTaskMalformedPayloadSkipsRetry(t *testing.T) {
	h, _, repo := newTestHandler(t)

	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeTranscodeVideo, []byte("{not json")))
	require.Error(t, err)
	require.True(t, errors.Is(err, asynq.SkipRetry))
	require.Empty(t, repo.snapshots)
}

func TestProcessTaskFailureOnFinalAttemptMarksFailed(t *testing.T) {
	h, enc, repo := newTestHandler(t)
	enc.probeErr = errutil.ProbeFailed("no video stream found in source.mp4")

	// Without queue retry metadata on the context there is no retry
	// budget left, so the failure is terminal.
	err := h.ProcessTask(context.Background(), mustTask(t, Payload{
		JobID:    "job-2",
		VideoID:  "v2",
		InputKey: "uploads/v2/source.mp4",
	}))
	require.Error(t, err)

	final := repo.snapshots[len(repo.snapshots)-1]
	require.Equal(t, state.StateFailed, final.State)
	require.Equal(t, 0, final.Progress)
	require.Equal(t, 1, final.Attempts)
	require.Contains(t, final.Error, "no video stream")
}

func TestRecordFailureWithRetriesLeftRequeues(t *testing.T) {
	h, _, repo := newTestHandler(t)

	cause := errutil.EncodeFailed("ffmpeg: exit status 1")
	h.recordFailure(context.Background(), "job-r", 1, true, cause)

	final := repo.snapshots[len(repo.snapshots)-1]
	require.Equal(t, state.StateQueued, final.State)
	require.Equal(t, 0, final.Progress)
	require.Equal(t, 1, final.Attempts)
	require.Contains(t, final.Error, "exit status 1")
}

func TestRecordFailureWithoutRetriesMarksFailed(t *testing.T) {
	h, _, repo := newTestHandler(t)

	cause := errutil.EncodeFailed("ffmpeg: exit status 1")
	h.recordFailure(context.Background(), "job-r", 3, false, cause)

	final := repo.snapshots[len(repo.snapshots)-1]
	require.Equal(t, state.StateFailed, final.State)
	require.Equal(t, 3, final.Attempts)
	require.Contains(t, final.Error, "exit status 1")
}

func TestProcessTaskResetsProgressPerAttempt(t *testing.T) {
	h, _, repo := newTestHandler(t)

	err := h.ProcessTask(context.Background(), mustTask(t, Payload{
		JobID:    "job-3",
		VideoID:  "v3",
		InputKey: "uploads/v3/source.mp4",
	}))
	require.NoError(t, err)

	first := repo.snapshots[0]
	require.Equal(t, state.StateActive, first.State)
	require.Equal(t, 0, first.Progress)
}
