package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrPoolClosed = errors.New("worker pool closed")
	ErrQueueFull  = errors.New("worker queue full")
)

type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type Options struct {
	Workers     int
	Buffer      int
	RatePerSec  int
	TaskTimeout time.Duration
}

// Pool runs submitted tasks on a fixed set of goroutines. Task failures are
// logged and never reach the submitter.
type Pool struct {
	workers int
	timeout time.Duration
	tasks   chan Task
	log     *zap.Logger

	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	rate   <-chan time.Time
	ticker *time.Ticker
}

func NewPool(opts Options, log *zap.Logger) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Buffer < 0 {
		opts.Buffer = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pool{
		workers: opts.Workers,
		timeout: opts.TaskTimeout,
		tasks:   make(chan Task, opts.Buffer),
		log:     log.Named("worker"),
	}
	p.SetRateLimit(opts.RatePerSec)
	return p
}

func (p *Pool) SetRateLimit(rps int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	if rps <= 0 {
		return
	}
	p.ticker = time.NewTicker(time.Second / time.Duration(rps))
	p.rate = p.ticker.C
}

// Submit enqueues t without blocking. It fails with ErrQueueFull when the
// buffer is saturated.
func (p *Pool) Submit(t Task) error {
	if t.Run == nil {
		return errors.New("nil task")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- t:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the workers. They stop when ctx is cancelled or, after
// Close, once the queue is drained.
func (p *Pool) Start(ctx context.Context) {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.loop(ctx, i+1)
	}
	p.log.Info("worker pool started", zap.Int("workers", p.workers), zap.Int("buffer", cap(p.tasks)))
}

func (p *Pool) loop(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-p.tasks:
			if !ok {
				return
			}
			if !p.waitRate(ctx) {
				return
			}
			p.run(ctx, id, t)
		}
	}
}

func (p *Pool) waitRate(ctx context.Context) bool {
	p.mu.RLock()
	rate := p.rate
	p.mu.RUnlock()
	if rate == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-rate:
		return true
	}
}

func (p *Pool) run(ctx context.Context, id int, t Task) {
	taskCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("task panicked", zap.Int("worker", id), zap.String("task", t.Name), zap.Any("panic", r))
		}
	}()

	start := time.Now()
	if err := t.Run(taskCtx); err != nil {
		p.log.Warn("task failed",
			zap.Int("worker", id),
			zap.String("task", t.Name),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	p.log.Debug("task done", zap.Int("worker", id), zap.String("task", t.Name), zap.Duration("took", time.Since(start)))
}

// Close stops accepting tasks and waits for queued ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}
