package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsAllTasks(t *testing.T) {
	p := NewPool(Options{Workers: 3, Buffer: 16}, nil)
	p.Start(context.Background())

	var n atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(Task{Name: "count", Run: func(context.Context) error {
			n.Add(1)
			return nil
		}}))
	}
	p.Close()

	assert.Equal(t, int32(10), n.Load())
}

func TestPool_FailuresAndPanicsDoNotStopWorkers(t *testing.T) {
	p := NewPool(Options{Workers: 1, Buffer: 4}, nil)
	p.Start(context.Background())

	var done atomic.Bool
	require.NoError(t, p.Submit(Task{Name: "fail", Run: func(context.Context) error { return errors.New("boom") }}))
	require.NoError(t, p.Submit(Task{Name: "panic", Run: func(context.Context) error { panic("boom") }}))
	require.NoError(t, p.Submit(Task{Name: "ok", Run: func(context.Context) error {
		done.Store(true)
		return nil
	}}))
	p.Close()

	assert.True(t, done.Load())
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p := NewPool(Options{Workers: 1}, nil)
	p.Start(context.Background())
	p.Close()
	p.Close()

	err := p.Submit(Task{Run: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestPool_QueueFull(t *testing.T) {
	p := NewPool(Options{Workers: 1, Buffer: 1}, nil)

	noop := Task{Run: func(context.Context) error { return nil }}
	require.NoError(t, p.Submit(noop))
	assert.ErrorIs(t, p.Submit(noop), ErrQueueFull)

	p.Start(context.Background())
	p.Close()
}

func TestPool_TaskTimeout(t *testing.T) {
	p := NewPool(Options{Workers: 1, Buffer: 1, TaskTimeout: 20 * time.Millisecond}, nil)
	p.Start(context.Background())

	errCh := make(chan error, 1)
	require.NoError(t, p.Submit(Task{Run: func(ctx context.Context) error {
		<-ctx.Done()
		errCh <- ctx.Err()
		return ctx.Err()
	}}))
	p.Close()

	assert.ErrorIs(t, <-errCh, context.DeadlineExceeded)
}

func TestPool_NilTask(t *testing.T) {
	p := NewPool(Options{}, nil)
	assert.Error(t, p.Submit(Task{Name: "nil"}))
}
