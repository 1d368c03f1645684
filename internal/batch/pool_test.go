package batch

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/puller/internal/config"
	"github.com/ytget/puller/internal/logging"
	"github.com/ytget/puller/internal/model"
)

// blockingRunner reports each start and holds every job until released
type blockingRunner struct {
	started chan string
	release chan struct{}
	calls   atomic.Int32
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{started: make(chan string, 100), release: make(chan struct{})}
}

func (r *blockingRunner) Run(ctx context.Context, job model.Job) model.Outcome {
	r.calls.Add(1)
	r.started <- job.ID
	select {
	case <-r.release:
	case <-ctx.Done():
	}
	return model.Outcome{Stdout: "done " + job.ID}
}

type panicRunner struct{}

func (panicRunner) Run(ctx context.Context, job model.Job) model.Outcome {
	panic("runner exploded")
}

func testJobs(n int) []model.Job {
	jobs := make([]model.Job, n)
	for i := range jobs {
		jobs[i] = model.Job{ID: fmt.Sprintf("job-%d", i), URL: fmt.Sprintf("https://example.com/%d", i), Index: i}
	}
	return jobs
}

func TestNewPool_ClampsWorkers(t *testing.T) {
	assert.Equal(t, config.MinWorkers, NewPool(0, panicRunner{}, logging.Discard()).Workers())
	assert.Equal(t, config.MaxWorkers, NewPool(5000, panicRunner{}, logging.Discard()).Workers())
	assert.Equal(t, 3, NewPool(3, panicRunner{}, logging.Discard()).Workers())
}

func TestPool_RespectsConcurrencyBound(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	runner := newBlockingRunner()
	pool := NewPool(2, runner, logging.Discard())
	pool.Start(ctx)

	for _, job := range testJobs(5) {
		require.NoError(t, pool.Submit(job))
	}

	// two workers pick up jobs, the rest stay in the backlog
	for range 2 {
		select {
		case <-runner.started:
		case <-ctx.Done():
			t.Fatal("timed out waiting for workers to start")
		}
	}
	select {
	case id := <-runner.started:
		t.Fatalf("job %s started beyond the concurrency bound", id)
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 3, pool.Backlog())
	assert.Equal(t, 2, pool.Running())

	close(runner.release)

	seen := make(map[string]int)
	for range 5 {
		select {
		case c := <-pool.Results():
			seen[c.Job.ID]++
			assert.Equal(t, "done "+c.Job.ID, c.Outcome.Stdout)
		case <-ctx.Done():
			t.Fatal("timed out waiting for results")
		}
	}

	pool.Close()

	assert.Len(t, seen, 5)
	for id, n := range seen {
		assert.Equal(t, 1, n, "job %s delivered more than once", id)
	}
	assert.Equal(t, 2, pool.Peak())
	assert.Equal(t, int32(5), runner.calls.Load())

	_, open := <-pool.Results()
	assert.False(t, open, "results should be closed after Close")
}

func TestPool_RecoversRunnerPanic(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	pool := NewPool(1, panicRunner{}, logging.Discard())
	pool.Start(ctx)
	defer pool.Close()

	require.NoError(t, pool.Submit(testJobs(1)[0]))

	select {
	case c := <-pool.Results():
		assert.Equal(t, PanicExitCode, c.Outcome.ExitCode)
		assert.Contains(t, c.Outcome.Stderr, "runner exploded")
		assert.Equal(t, model.ClassFailure, c.Class())
	case <-ctx.Done():
		t.Fatal("timed out waiting for result")
	}
}

func TestPool_SubmitAfterClose(t *testing.T) {
	pool := NewPool(1, panicRunner{}, logging.Discard())
	pool.Start(context.Background())
	pool.Close()

	err := pool.Submit(testJobs(1)[0])
	require.ErrorIs(t, err, ErrPoolClosed)

	// closing twice is a no-op
	pool.Close()
}

func TestPool_SubmitBeforeStart(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	runner := newBlockingRunner()
	close(runner.release)

	pool := NewPool(4, runner, logging.Discard())
	for _, job := range testJobs(3) {
		require.NoError(t, pool.Submit(job))
	}
	assert.Equal(t, 3, pool.Backlog())

	pool.Start(ctx)
	for range 3 {
		select {
		case <-pool.Results():
		case <-ctx.Done():
			t.Fatal("timed out waiting for results")
		}
	}
	pool.Close()
	assert.Equal(t, 0, pool.Backlog())
}

func TestPool_CloseBeforeStartDrainsBacklog(t *testing.T) {
	runner := newBlockingRunner()
	close(runner.release)

	pool := NewPool(2, runner, logging.Discard())
	for _, job := range testJobs(3) {
		require.NoError(t, pool.Submit(job))
	}

	got := make(chan []string, 1)
	go func() {
		var ids []string
		for c := range pool.Results() {
			ids = append(ids, c.Job.ID)
		}
		got <- ids
	}()

	pool.Close()

	select {
	case ids := <-got:
		assert.ElementsMatch(t, []string{"job-0", "job-1", "job-2"}, ids)
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for results")
	}
	assert.Equal(t, 0, pool.Backlog())
}

func TestPool_ShutdownDropsUnreadResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	runner := newBlockingRunner()
	pool := NewPool(1, runner, logging.Discard())
	pool.Start(ctx)
	require.NoError(t, pool.Submit(testJobs(1)[0]))
	<-runner.started

	// nobody reads Results; cancelling must still let Close return
	cancel()

	done := make(chan struct{})
	go func() {
		pool.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(testTimeout):
		t.Fatal("Close did not return after shutdown")
	}
}

func TestPool_DropBacklog(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	runner := newBlockingRunner()
	pool := NewPool(1, runner, logging.Discard())
	pool.Start(ctx)
	defer pool.Close()

	for _, job := range testJobs(4) {
		require.NoError(t, pool.Submit(job))
	}
	select {
	case <-runner.started:
	case <-ctx.Done():
		t.Fatal("timed out waiting for the worker")
	}

	dropped := pool.DropBacklog()
	require.Len(t, dropped, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{dropped[0].Index, dropped[1].Index, dropped[2].Index})
	assert.Equal(t, 0, pool.Backlog())
	assert.Empty(t, pool.DropBacklog())

	close(runner.release)
	select {
	case c := <-pool.Results():
		assert.Equal(t, 0, c.Job.Index)
	case <-ctx.Done():
		t.Fatal("timed out waiting for the running job")
	}
	assert.Equal(t, int32(1), runner.calls.Load())
}
