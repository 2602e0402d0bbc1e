package executor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	platformerrors "github.com/jmgilman/go/errors"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/go/repometa/internal/logging"
)

// ErrQueueUnavailable is returned by Submit when the pool cannot accept work:
// it was never started, it is closed, or its buffer is full.
var ErrQueueUnavailable = platformerrors.New(platformerrors.CodeUnavailable, "executor queue unavailable")

const (
	defaultWorkers   = 4
	defaultQueueSize = 256
	defaultRetryBase = 100 * time.Millisecond
)

type poolState int

const (
	stateIdle poolState = iota
	stateRunning
	stateClosed
)

// Pool is an in-process Queue backed by a bounded buffer and a fixed set of
// workers.
type Pool struct {
	runner    Runner
	logger    logging.Logger
	workers   int
	queueSize int
	retries   uint64
	retryBase time.Duration

	mu        sync.RWMutex
	state     poolState
	queue     chan Command
	group     *errgroup.Group
	listeners []Listener
}

var _ Queue = (*Pool)(nil)

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of concurrent workers. Defaults to 4.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithQueueSize sets the buffer size. Submit fails once it is full.
func WithQueueSize(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithRetries retries retryable runner failures up to n times with
// exponential backoff starting at base.
func WithRetries(n uint64, base time.Duration) PoolOption {
	return func(p *Pool) {
		p.retries = n
		if base > 0 {
			p.retryBase = base
		}
	}
}

// WithPoolLogger sets the logger. Defaults to a no-op logger.
func WithPoolLogger(logger logging.Logger) PoolOption {
	return func(p *Pool) {
		p.logger = logger
	}
}

// NewPool creates a pool executing commands through runner. The pool accepts
// work only after Start.
//
// Example:
//
//	pool := executor.NewPool(executor.NewEngineRunner(loc), executor.WithWorkers(2))
//	if err := pool.Start(ctx); err != nil {
//	    return err
//	}
//	defer pool.Close()
func NewPool(runner Runner, opts ...PoolOption) *Pool {
	p := &Pool{
		runner:    runner,
		logger:    logging.NewNopLogger(),
		workers:   defaultWorkers,
		queueSize: defaultQueueSize,
		retryBase: defaultRetryBase,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// OnComplete registers fn to be called after every command finishes, with the
// final error (nil on success). Listeners run on the worker goroutine.
func (p *Pool) OnComplete(fn Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.listeners = append(p.listeners, fn)
}

// Start launches the workers. Commands already executing observe ctx; a
// cancelled ctx fails remaining commands instead of dropping them.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != stateIdle {
		return platformerrors.New(platformerrors.CodeConflict, "executor pool already started")
	}

	p.queue = make(chan Command, p.queueSize)
	p.group = &errgroup.Group{}
	for range p.workers {
		p.group.Go(func() error {
			p.work(ctx)
			return nil
		})
	}
	p.state = stateRunning

	p.logger.Info(ctx, "executor pool started", "workers", p.workers, "queue_size", p.queueSize)
	return nil
}

// Submit validates cmd, stamps it with an ID and submission time and queues
// it. It never waits for a worker.
func (p *Pool) Submit(ctx context.Context, cmd Command) (Command, error) {
	if err := cmd.Validate(); err != nil {
		return cmd, err
	}
	if err := ctx.Err(); err != nil {
		return cmd, platformerrors.Wrap(err, platformerrors.CodeUnavailable, "submission cancelled")
	}

	cmd.ID = uuid.New()
	cmd.SubmittedAt = time.Now()

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.state != stateRunning {
		return cmd, ErrQueueUnavailable
	}

	select {
	case p.queue <- cmd:
	default:
		return cmd, platformerrors.Wrap(ErrQueueUnavailable, platformerrors.CodeUnavailable, "executor queue is full")
	}

	p.logger.Debug(ctx, "command submitted", "id", cmd.ID, "operation", cmd.Operation,
		"repository", cmd.Repository, "name", cmd.Name)
	return cmd, nil
}

// Close stops accepting commands, waits for queued commands to finish and
// stops the workers. Close on a pool that was never started is a no-op.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.state != stateRunning {
		p.state = stateClosed
		p.mu.Unlock()
		return nil
	}
	p.state = stateClosed
	close(p.queue)
	p.mu.Unlock()

	return p.group.Wait()
}

func (p *Pool) work(ctx context.Context) {
	for cmd := range p.queue {
		err := p.execute(ctx, cmd)
		if err != nil {
			p.logger.Error(ctx, "command failed", "id", cmd.ID, "operation", cmd.Operation,
				"repository", cmd.Repository, "name", cmd.Name, "error", err)
		} else {
			p.logger.Info(ctx, "command completed", "id", cmd.ID, "operation", cmd.Operation,
				"repository", cmd.Repository, "name", cmd.Name, "latency", time.Since(cmd.SubmittedAt))
		}

		p.notify(cmd, err)
	}
}

func (p *Pool) execute(ctx context.Context, cmd Command) error {
	backoff := retry.WithMaxRetries(p.retries, retry.NewExponential(p.retryBase))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := p.runner.Run(ctx, cmd)
		if err != nil && platformerrors.IsRetryable(err) {
			p.logger.Warn(ctx, "retrying command", "id", cmd.ID, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (p *Pool) notify(cmd Command, err error) {
	p.mu.RLock()
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.RUnlock()

	for _, fn := range listeners {
		fn(cmd, err)
	}
}
