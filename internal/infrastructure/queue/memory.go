package queue

import (
	"context"

	"talent-match/internal/worker"

	"github.com/google/uuid"
)

type MemoryDispatcher struct {
	pool    *worker.Pool
	handler Handler
}

func NewMemoryDispatcher(pool *worker.Pool, handler Handler) *MemoryDispatcher {
	return &MemoryDispatcher{pool: pool, handler: handler}
}

func (d *MemoryDispatcher) Dispatch(_ context.Context, applicationID uuid.UUID) error {
	return d.pool.Submit(worker.Task{
		Name: "analysis:" + applicationID.String(),
		Run: func(ctx context.Context) error {
			return d.handler(ctx, applicationID)
		},
	})
}
