package asynq

import (
	"context"

	"mediaplane/pkg/errutil"

	"github.com/hibiken/asynq"
)

// Enqueuer abstracts the queue transport so services can be tested with
// fakes. Transport failures surface as QueueUnavailable.
type Enqueuer interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type enqueuerImpl struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) Enqueuer {
	return &enqueuerImpl{client: client}
}

func (e *enqueuerImpl) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	info, err := e.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return nil, errutil.QueueUnavailable("enqueue task", errutil.WithErr(err))
	}
	return info, nil
}
