package task

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeTranscodeVideo = "transcode:video"

// Payload is the durable queue message for one transcoding job.
type Payload struct {
	JobID              string   `json:"job_id"`
	VideoID            string   `json:"video_id"`
	InputKey           string   `json:"input_key"`
	Profiles           []string `json:"profiles"`
	GenerateHLS        bool     `json:"generate_hls"`
	GenerateDASH       bool     `json:"generate_dash"`
	GenerateThumbnails bool     `json:"generate_thumbnails"`
}

// QueuePolicy carries the delivery knobs the enqueuing service reads
// from configuration: total attempts, per-attempt lease, and how long
// finished tasks stay visible in the queue's own bookkeeping.
type QueuePolicy struct {
	MaxAttempts  int
	LeaseTimeout time.Duration
	Retention    time.Duration
}

func NewTranscodeTask(p Payload, policy QueuePolicy) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TypeTranscodeVideo, payload,
		asynq.Queue("default"),
		asynq.MaxRetry(policy.retryBudget()),
		asynq.Timeout(policy.LeaseTimeout),
		asynq.Retention(policy.Retention),
	), nil
}

// retryBudget converts total attempts into the queue's redelivery count:
// MaxAttempts of 3 means the first delivery plus two retries.
func (p QueuePolicy) retryBudget() int {
	if p.MaxAttempts <= 1 {
		return 0
	}
	return p.MaxAttempts - 1
}
