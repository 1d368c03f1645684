package batch

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ytget/puller/internal/logging"
	"github.com/ytget/puller/internal/model"
)

const testTimeout = 5 * time.Second

// recordingView captures every call the controller makes
type recordingView struct {
	mu           sync.Mutex
	blocks       []model.LogBlock
	enabledCalls []bool
	statuses     []model.BatchStatus
	counters     []int
	validation   []error
	logClears    int
	inputClears  int
}

func (v *recordingView) AppendLog(block model.LogBlock) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.blocks = append(v.blocks, block)
}

func (v *recordingView) ClearLog() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.logClears++
	v.blocks = nil
}

func (v *recordingView) ClearInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inputClears++
}

func (v *recordingView) SetInputsEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enabledCalls = append(v.enabledCalls, enabled)
}

func (v *recordingView) SetStatus(status model.BatchStatus) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, status)
}

func (v *recordingView) SetCounter(next int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.counters = append(v.counters, next)
}

func (v *recordingView) ShowValidationError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.validation = append(v.validation, err)
}

// inputsEnabled reports the last enabled state, true if never changed
func (v *recordingView) inputsEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.enabledCalls) == 0 {
		return true
	}
	return v.enabledCalls[len(v.enabledCalls)-1]
}

func (v *recordingView) lastStatus() model.BatchStatus {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.statuses) == 0 {
		return model.BatchStatusIdle
	}
	return v.statuses[len(v.statuses)-1]
}

func (v *recordingView) blocksOf(kind model.BlockKind) []model.LogBlock {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []model.LogBlock
	for _, b := range v.blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// scriptedRunner returns canned outcomes keyed by a substring of the URL
type scriptedRunner struct {
	mu       sync.Mutex
	outcomes map[string]model.Outcome
	jobs     []model.Job
	gate     chan struct{}
}

func (r *scriptedRunner) Run(ctx context.Context, job model.Job) model.Outcome {
	r.mu.Lock()
	r.jobs = append(r.jobs, job)
	gate := r.gate
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return model.Outcome{ExitCode: -1, Stderr: ctx.Err().Error()}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for key, outcome := range r.outcomes {
		if strings.Contains(job.URL, key) {
			return outcome
		}
	}
	return model.Outcome{Stdout: "[download] 100% of 1.00MiB"}
}

func (r *scriptedRunner) seen() []model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Job(nil), r.jobs...)
}

type harness struct {
	ctx    context.Context
	ctrl   *Controller
	pool   *Pool
	view   *recordingView
	runner *scriptedRunner
}

func newHarness(t *testing.T, runner *scriptedRunner, workers int) *harness {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	logger := logging.Discard()

	pool := NewPool(workers, runner, logger)
	pool.Start(ctx)

	view := &recordingView{}
	template := CommandTemplate{Binary: "yt-dlp", SortSpec: "res,ext:mp4:m4a", OutputExt: "mp4"}
	ctrl := NewController(pool, view, template, logger)

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = ctrl.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-runDone
		pool.Close()
	})

	return &harness{ctx: ctx, ctrl: ctrl, pool: pool, view: view, runner: runner}
}

func (h *harness) wait(t *testing.T) model.Summary {
	t.Helper()
	summary, err := h.ctrl.Wait(h.ctx)
	require.NoError(t, err)
	return summary
}
