package resolver

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lumeview/backend/internal/media"
)

// PoolConfig controls the concurrency characteristics of the resolve pool.
type PoolConfig struct {
	QueueSize int
	Workers   int
	Timeout   time.Duration
}

// ErrPoolClosed indicates the pool no longer accepts work.
var ErrPoolClosed = errors.New("resolve pool closed")

type resolveJob struct {
	request OpenRequest
	deliver func(media.Reference, error)
}

// Pool executes reference resolution on a bounded set of background workers.
// Each enqueued request produces exactly one deliver callback, invoked from a
// worker goroutine; callers are expected to serialize it onto their own event
// loop. Issued work is never cancelled: once a job is accepted its callback
// fires even if the interested session has since terminated.
type Pool struct {
	resolver *Resolver
	timeout  time.Duration
	logger   *slog.Logger

	jobs chan resolveJob
	wg   sync.WaitGroup
	once sync.Once

	// mu orders sends against the close of jobs: Shutdown flips closed and
	// closes the channel under the same lock, so a send never races the close
	// and every accepted job is drained by a worker.
	mu     sync.Mutex
	closed bool
}

// NewPool starts the worker pool.
func NewPool(resolver *Resolver, cfg PoolConfig, logger *slog.Logger) *Pool {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pool{
		resolver: resolver,
		timeout:  cfg.Timeout,
		logger:   logger,
		jobs:     make(chan resolveJob, cfg.QueueSize),
	}

	p.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go p.worker()
	}

	return p
}

// Enqueue schedules resolution of the request. deliver is called exactly once
// with the result.
func (p *Pool) Enqueue(ctx context.Context, request OpenRequest, deliver func(media.Reference, error)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.jobs <- resolveJob{request: request, deliver: deliver}:
		return nil
	}
}

// Shutdown waits for the workers to drain outstanding jobs.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for job := range p.jobs {
		p.handle(job)
	}
}

func (p *Pool) handle(job resolveJob) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	ref, err := p.resolver.Resolve(ctx, job.request)
	if err != nil {
		p.logger.Warn("resolution failed", "action", job.request.Action, "error", err)
	}
	job.deliver(ref, err)
}
