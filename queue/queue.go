package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/jit-core/errors"
	"github.com/wippyai/jit-core/meta"
)

// Config holds configuration for broker creation
type Config struct {
	// Workers is the number of compile worker goroutines. Default 2.
	Workers int

	// Backlog is the submit channel capacity. Default 256.
	Backlog int

	// Compile executes each job. Required.
	Compile CompileFunc

	// OnAccept fires after a job is counted as pending and before any
	// worker can observe it. The compiler core wires its
	// bootstrap-request-handled signal here.
	OnAccept func(*Job)

	// OnComplete fires after Compile returns and before the job leaves the
	// pending count.
	OnComplete func(*Job, error)

	// Logger receives per-job failures. Nop by default.
	Logger *zap.Logger
}

// Broker is a tiered compile queue executing jobs on worker goroutines.
type Broker struct {
	cfg     Config
	jobs    chan *Job
	pending [TierFullOptimization + 1]atomic.Int64

	compileNanos atomic.Int64

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a broker and starts its workers.
func New(cfg Config) (*Broker, error) {
	if cfg.Compile == nil {
		return nil, errors.InvalidInput(errors.PhaseCompile, "queue: Compile function is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.Backlog <= 0 {
		cfg.Backlog = 256
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	b := &Broker{
		cfg:  cfg,
		jobs: make(chan *Job, cfg.Backlog),
	}

	b.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go b.worker()
	}
	return b, nil
}

// Submit enqueues a compile job for method at the given tier.
//
// The job is visible to QueueSize and to OnAccept before Submit returns, so
// a caller that saw Submit succeed can never observe an empty queue until
// the job has fully completed.
func (b *Broker) Submit(method *meta.Method, entryOffset int, tier Tier, reason Reason, hotCount int) error {
	if method == nil {
		return errors.InvalidInput(errors.PhaseCompile, "queue: nil method")
	}
	if !tier.valid() {
		return errors.InvalidInput(errors.PhaseCompile, "queue: invalid tier %d", int(tier))
	}
	if hotCount < 1 {
		hotCount = 1
	}

	job := &Job{
		Method:      method,
		EntryOffset: entryOffset,
		Tier:        tier,
		Reason:      reason,
		HotCount:    hotCount,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return errors.QueueClosed("queue: submit after close")
	}

	b.pending[tier].Add(1)
	if b.cfg.OnAccept != nil {
		b.cfg.OnAccept(job)
	}
	b.jobs <- job
	return nil
}

// QueueSize returns the number of pending jobs at tier, counting both
// queued and in-flight work.
func (b *Broker) QueueSize(tier Tier) int {
	if !tier.valid() {
		return 0
	}
	return int(b.pending[tier].Load())
}

// TotalCompileTime returns the aggregate wall time workers have spent
// inside Compile.
func (b *Broker) TotalCompileTime() time.Duration {
	return time.Duration(b.compileNanos.Load())
}

// Close stops accepting jobs and blocks until queued work has drained.
func (b *Broker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.jobs)
	b.mu.Unlock()

	b.wg.Wait()
}

func (b *Broker) worker() {
	defer b.wg.Done()
	ctx := context.Background()

	for job := range b.jobs {
		start := time.Now()
		err := b.cfg.Compile(ctx, job)
		b.compileNanos.Add(time.Since(start).Nanoseconds())

		if err != nil {
			b.cfg.Logger.Warn("compile job failed",
				zap.String("method", job.Method.FullName()),
				zap.Stringer("tier", job.Tier),
				zap.String("reason", string(job.Reason)),
				zap.Error(err))
		}
		if b.cfg.OnComplete != nil {
			b.cfg.OnComplete(job, err)
		}
		b.pending[job.Tier].Add(-1)
	}
}
