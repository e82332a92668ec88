package task

import (
	"context"
	"encoding/json"
	"fmt"

	"mediaplane/services/transcode/state"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("transcode.worker",
	fx.Provide(NewOrchestrator, NewHandler),
	fx.Invoke(RegisterHandlers),
)

// Handler adapts the orchestrator to the queue: it owns attempt
// bookkeeping and the terminal state writes. Retry is exclusively a
// whole-pipeline concern; no stage retries on its own.
type Handler struct {
	orch *Orchestrator
	repo state.Repository
}

func NewHandler(orch *Orchestrator, repo state.Repository) *Handler {
	return &Handler{orch: orch, repo: repo}
}

func RegisterHandlers(mux *asynq.ServeMux, h *Handler) {
	mux.HandleFunc(TypeTranscodeVideo, h.ProcessTask)
}

func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p Payload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		zap.L().Error("invalid transcode payload", zap.Error(err))
		// A payload that never parses will never transcode; don't
		// burn the retry budget on it.
		return fmt.Errorf("invalid transcode payload: %v: %w", err, asynq.SkipRetry)
	}

	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	attempt := retried + 1

	zap.L().Info("processing transcode job",
		zap.String("job_id", p.JobID),
		zap.String("video_id", p.VideoID),
		zap.Int("attempt", attempt),
	)

	// Each redelivered attempt restarts the whole pipeline, so the
	// visible progress resets to 0 here.
	if err := h.repo.SetStatus(ctx, state.Job{
		ID:       p.JobID,
		State:    state.StateActive,
		Progress: 0,
		Attempts: attempt,
	}); err != nil {
		zap.L().Warn("failed to mark job active", zap.String("job_id", p.JobID), zap.Error(err))
	}

	result, err := h.orch.Run(ctx, p, attempt)
	if err != nil {
		h.recordFailure(ctx, p.JobID, attempt, retried < maxRetry, err)
		return err
	}

	if err := h.repo.SetStatus(ctx, state.Job{
		ID:       p.JobID,
		State:    state.StateCompleted,
		Progress: 100,
		Attempts: attempt,
		Result:   result,
	}); err != nil {
		return err
	}

	zap.L().Info("transcode job completed", zap.String("job_id", p.JobID), zap.String("video_id", p.VideoID))
	return nil
}

// recordFailure writes the attempt's terminal snapshot: back to queued
// when the queue will redeliver, failed once the budget is exhausted.
// The triggering error is recorded verbatim either way.
func (h *Handler) recordFailure(ctx context.Context, jobID string, attempt int, willRetry bool, cause error) {
	jobState := state.StateFailed
	if willRetry {
		jobState = state.StateQueued
	}

	zap.L().Error("transcode job attempt failed",
		zap.String("job_id", jobID),
		zap.Int("attempt", attempt),
		zap.Bool("will_retry", willRetry),
		zap.Error(cause),
	)

	if err := h.repo.SetStatus(ctx, state.Job{
		ID:       jobID,
		State:    jobState,
		Progress: 0,
		Attempts: attempt,
		Error:    cause.Error(),
	}); err != nil {
		zap.L().Error("failed to record job failure", zap.String("job_id", jobID), zap.Error(err))
	}
}
