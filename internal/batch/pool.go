package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ytget/puller/internal/config"
	"github.com/ytget/puller/internal/model"
)

// PanicExitCode is reported for a job whose runner panicked
const PanicExitCode = -1

// Pool runs jobs on a fixed number of workers. Jobs submitted while every
// worker is busy wait in a FIFO backlog.
type Pool struct {
	workers int
	runner  Runner
	logger  *slog.Logger
	results chan Completion

	mu      sync.Mutex
	cond    *sync.Cond
	backlog []model.Job
	closed  bool
	started bool
	ctx     context.Context

	wg        sync.WaitGroup
	closeOnce sync.Once

	running atomic.Int64
	peak    atomic.Int64
}

// NewPool creates a pool with the given number of workers, clamped to
// [config.MinWorkers, config.MaxWorkers].
func NewPool(workers int, runner Runner, logger *slog.Logger) *Pool {
	p := &Pool{
		workers: config.ClampWorkers(workers),
		runner:  runner,
		logger:  logger,
		results: make(chan Completion),
		ctx:     context.Background(),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Workers returns the concurrency bound
func (p *Pool) Workers() int {
	return p.workers
}

// Start launches the workers. Jobs run with ctx; cancelling it kills
// running processes and makes pending results be dropped.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}
	p.ctx = ctx
	p.startLocked()
}

func (p *Pool) startLocked() {
	p.started = true
	for range p.workers {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.work()
		}()
	}
	p.logger.Debug("pool started", "workers", p.workers)
}

// Submit enqueues a job. It never waits for a free worker.
func (p *Pool) Submit(job model.Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}
	p.backlog = append(p.backlog, job)
	p.cond.Signal()
	return nil
}

// Results delivers one completion per submitted job
func (p *Pool) Results() <-chan Completion {
	return p.results
}

// Backlog returns the number of jobs waiting for a worker
func (p *Pool) Backlog() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.backlog)
}

// DropBacklog removes the jobs that have not started yet and returns them
// in submission order
func (p *Pool) DropBacklog() []model.Job {
	p.mu.Lock()
	defer p.mu.Unlock()

	dropped := p.backlog
	p.backlog = nil
	return dropped
}

// Running returns the number of jobs currently executing
func (p *Pool) Running() int {
	return int(p.running.Load())
}

// Peak returns the highest number of jobs that ever executed at once
func (p *Pool) Peak() int {
	return int(p.peak.Load())
}

// Close stops accepting jobs, lets the workers drain the backlog, waits for
// them and closes Results. A pool that was never started starts its workers
// first, so every submitted job still gets a completion.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		if !p.started && len(p.backlog) > 0 {
			p.logger.Warn("closing a pool that was never started, draining backlog", "jobs", len(p.backlog))
			p.startLocked()
		}
		p.cond.Broadcast()
		p.mu.Unlock()

		p.wg.Wait()
		close(p.results)
		p.logger.Debug("pool closed", "peak", p.Peak())
	})
}

// next blocks until a job is available or the pool is closed and empty
func (p *Pool) next() (model.Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.backlog) == 0 && !p.closed {
		p.cond.Wait()
	}
	if len(p.backlog) == 0 {
		return model.Job{}, false
	}

	job := p.backlog[0]
	p.backlog[0] = model.Job{}
	p.backlog = p.backlog[1:]
	return job, true
}

func (p *Pool) work() {
	for {
		job, ok := p.next()
		if !ok {
			return
		}

		outcome := p.execute(job)

		select {
		case p.results <- Completion{Job: job, Outcome: outcome}:
		case <-p.ctx.Done():
			p.logger.Warn("dropping result after shutdown", "job", job.ID, "index", job.Index)
		}
	}
}

// execute runs one job, turning a runner panic into a failure outcome
func (p *Pool) execute(job model.Job) (outcome model.Outcome) {
	p.trackStart()
	defer p.running.Add(-1)

	p.logger.Debug("job started", "job", job.ID, "index", job.Index, "url", job.URL)

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("runner panicked", "job", job.ID, "panic", r)
			outcome = model.Outcome{
				Stderr:     fmt.Sprintf("panic: %v", r),
				ExitCode:   PanicExitCode,
				FinishedAt: time.Now(),
			}
		}
	}()

	outcome = p.runner.Run(p.ctx, job)
	p.logger.Debug("job finished", "job", job.ID, "index", job.Index, "exit_code", outcome.ExitCode, "duration", outcome.Duration())
	return outcome
}

func (p *Pool) trackStart() {
	n := p.running.Add(1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			return
		}
	}
}
