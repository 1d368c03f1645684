package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/puller/internal/logging"
	"github.com/ytget/puller/internal/model"
)

func TestController_SubmitCreatesSequentialJobs(t *testing.T) {
	h := newHarness(t, &scriptedRunner{}, 4)

	text := "https://tt.example/a\n\n   https://tt.example/b  \r\n\t\nhttps://tt.example/c\n"
	jobs, err := h.ctrl.Submit(h.ctx, SubmitRequest{Text: text, Start: "7"})
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	ids := make(map[string]bool)
	for i, job := range jobs {
		assert.Equal(t, 7+i, job.Index)
		assert.False(t, ids[job.ID], "duplicate job id")
		ids[job.ID] = true
	}
	assert.Equal(t, `yt-dlp -S res,ext:mp4:m4a -o "8.mp4" "https://tt.example/b"`, jobs[1].Command)

	summary := h.wait(t)
	assert.Equal(t, model.Summary{Submitted: 3, Succeeded: 3}, summary)

	indices := make(map[int]int)
	for _, job := range h.runner.seen() {
		indices[job.Index]++
	}
	assert.Equal(t, map[int]int{7: 1, 8: 1, 9: 1}, indices)

	commands := h.view.blocksOf(model.BlockCommand)
	require.Len(t, commands, 3)
	assert.Equal(t, "https://tt.example/a", commands[0].URL)
	assert.Len(t, h.view.blocksOf(model.BlockOutput), 3)

	assert.True(t, h.view.inputsEnabled())
	assert.Equal(t, model.BatchStatusIdle, h.view.lastStatus())
	assert.Empty(t, h.view.counters, "counter must not move without sync")

	st, err := h.ctrl.Snapshot(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Active)
	assert.Equal(t, 10, st.Next)
}

func TestController_SyncRollsCounterForward(t *testing.T) {
	h := newHarness(t, &scriptedRunner{}, 2)
	require.NoError(t, h.ctrl.SetSync(h.ctx, true))

	_, err := h.ctrl.Submit(h.ctx, SubmitRequest{Text: "u1\nu2\nu3\nu4\nu5", Start: "20"})
	require.NoError(t, err)
	h.wait(t)

	require.NotEmpty(t, h.view.counters)
	assert.Equal(t, 25, h.view.counters[len(h.view.counters)-1])

	// the next batch continues from the synced index
	jobs, err := h.ctrl.Submit(h.ctx, SubmitRequest{Text: "u6", Start: "25"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 25, jobs[0].Index)
	h.wait(t)
	assert.Equal(t, 26, h.view.counters[len(h.view.counters)-1])
}

func TestController_InvalidStartCreatesNoJobs(t *testing.T) {
	h := newHarness(t, &scriptedRunner{}, 2)

	jobs, err := h.ctrl.Submit(h.ctx, SubmitRequest{Text: "https://tt.example/a", Start: "ten"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "ten", verr.Input)
	assert.Empty(t, jobs)

	st, err := h.ctrl.Snapshot(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Active)
	assert.Equal(t, model.BatchStatusIdle, st.Status)

	assert.Empty(t, h.runner.seen())
	assert.Len(t, h.view.validation, 1)
	assert.Empty(t, h.view.enabledCalls, "inputs must not be disabled")

	notices := h.view.blocksOf(model.BlockNotice)
	require.Len(t, notices, 1)
	assert.Equal(t, ValidationNotice, notices[0].Text)
	assert.True(t, notices[0].IsAlert())
}

func TestController_ClassifiesOutcomes(t *testing.T) {
	runner := &scriptedRunner{outcomes: map[string]model.Outcome{
		"ok":  {Stdout: "[download] Destination: 1.mp4", ExitCode: 0},
		"dup": {Stdout: "[download] 2.mp4 has already been downloaded", ExitCode: 0},
		"bad": {Stdout: "[generic] partial", Stderr: "ERROR: Unsupported URL", ExitCode: 1},
	}}
	h := newHarness(t, runner, 3)

	_, err := h.ctrl.Submit(h.ctx, SubmitRequest{Text: "https://x/ok\nhttps://x/dup\nhttps://x/bad", Start: "1"})
	require.NoError(t, err)

	summary := h.wait(t)
	assert.Equal(t, model.Summary{Submitted: 3, Succeeded: 1, Skipped: 1, Failed: 1}, summary)
	assert.True(t, summary.HasFailures())

	styles := make(map[string]model.BlockStyle)
	for _, b := range h.view.blocksOf(model.BlockOutput) {
		styles[b.Text] = b.Style
	}
	assert.Equal(t, map[string]model.BlockStyle{
		"[download] Destination: 1.mp4":                model.StyleNormal,
		"[download] 2.mp4 has already been downloaded": model.StyleAlert,
		"ERROR: Unsupported URL":                       model.StyleAlert,
	}, styles, "failures show stderr, not stdout")
}

func TestController_ResetWhileRunningKeepsInputsDisabled(t *testing.T) {
	runner := &scriptedRunner{gate: make(chan struct{})}
	h := newHarness(t, runner, 2)
	require.NoError(t, h.ctrl.SetSync(h.ctx, true))

	_, err := h.ctrl.Submit(h.ctx, SubmitRequest{Text: "a\nb", Start: "1"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(runner.seen()) == 2 }, testTimeout, 5*time.Millisecond)

	require.NoError(t, h.ctrl.Reset(h.ctx))

	assert.Equal(t, 1, h.view.inputClears)
	assert.Equal(t, 1, h.view.logClears)
	assert.Empty(t, h.view.blocks, "log should be empty after reset")
	assert.False(t, h.view.inputsEnabled())

	st, err := h.ctrl.Snapshot(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Active)
	assert.Equal(t, model.BatchStatusRunning, st.Status)

	// a new batch cannot start while the old one runs
	_, err = h.ctrl.Submit(h.ctx, SubmitRequest{Text: "c", Start: "3"})
	require.ErrorIs(t, err, ErrBatchRunning)

	close(runner.gate)
	h.wait(t)

	assert.True(t, h.view.inputsEnabled())
	assert.Equal(t, []int{3}, h.view.counters)
	assert.Len(t, h.view.blocksOf(model.BlockOutput), 2)
}

func TestController_ResetWhenIdle(t *testing.T) {
	h := newHarness(t, &scriptedRunner{}, 1)

	require.NoError(t, h.ctrl.Reset(h.ctx))

	assert.Equal(t, 1, h.view.inputClears)
	assert.Equal(t, 1, h.view.logClears)
	assert.True(t, h.view.inputsEnabled())
	assert.Empty(t, h.view.enabledCalls)
}

func TestController_EmptyInputStaysIdle(t *testing.T) {
	h := newHarness(t, &scriptedRunner{}, 1)

	jobs, err := h.ctrl.Submit(h.ctx, SubmitRequest{Text: "\n  \n\t", Start: "1"})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	assert.True(t, h.view.inputsEnabled())
	assert.Equal(t, model.BatchStatusIdle, h.view.lastStatus())

	summary := h.wait(t)
	assert.Equal(t, 0, summary.Submitted)
}

func TestController_BacklogBeyondWorkerBound(t *testing.T) {
	h := newHarness(t, &scriptedRunner{}, 2)

	text := ""
	for range 25 {
		text += "https://tt.example/v\n"
	}
	jobs, err := h.ctrl.Submit(h.ctx, SubmitRequest{Text: text, Start: "0"})
	require.NoError(t, err)
	require.Len(t, jobs, 25)

	summary := h.wait(t)
	assert.Equal(t, 25, summary.Succeeded)
	assert.LessOrEqual(t, h.pool.Peak(), 2)
}

// closedQueue rejects every job
type closedQueue struct{}

func (closedQueue) Submit(model.Job) error { return ErrPoolClosed }

func (closedQueue) Results() <-chan Completion { return nil }

func (closedQueue) DropBacklog() []model.Job { return nil }

func TestController_SubmitToClosedQueue(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	view := &recordingView{}
	ctrl := NewController(closedQueue{}, view, CommandTemplate{Binary: "yt-dlp", SortSpec: "res", OutputExt: "mp4"}, logging.Discard())
	go ctrl.Run(ctx)

	jobs, err := ctrl.Submit(ctx, SubmitRequest{Text: "a\nb", Start: "1"})
	require.ErrorIs(t, err, ErrPoolClosed)
	assert.Empty(t, jobs)
	assert.True(t, view.inputsEnabled())
	assert.Equal(t, model.BatchStatusIdle, view.lastStatus())
}

func TestController_StoppedLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ctrl := NewController(closedQueue{}, &recordingView{}, CommandTemplate{}, logging.Discard())

	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(testTimeout):
		t.Fatal("Run did not stop")
	}

	err := ctrl.Reset(context.Background())
	require.ErrorIs(t, err, ErrControllerStopped)
}

// panickyView blows up on the first log append
type panickyView struct {
	recordingView
	exploded bool
}

func (v *panickyView) AppendLog(block model.LogBlock) {
	v.mu.Lock()
	first := !v.exploded
	v.exploded = true
	v.mu.Unlock()
	if first {
		panic("view failure")
	}
	v.recordingView.AppendLog(block)
}

func TestController_RecoversFromPanicInLoop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	view := &panickyView{}
	ctrl := NewController(closedQueue{}, view, CommandTemplate{}, logging.Discard())
	go ctrl.Run(ctx)

	// the first request panics inside the loop and is reported as handled
	_, _ = ctrl.Submit(ctx, SubmitRequest{Text: "a", Start: "x"})

	// the loop is still alive and serving requests
	st, err := ctrl.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.BatchStatusIdle, st.Status)
}

func TestController_ResetDropsBacklog(t *testing.T) {
	runner := &scriptedRunner{gate: make(chan struct{})}
	h := newHarness(t, runner, 1)
	require.NoError(t, h.ctrl.SetSync(h.ctx, true))

	_, err := h.ctrl.Submit(h.ctx, SubmitRequest{Text: "a\nb\nc", Start: "10"})
	require.NoError(t, err)

	// the single worker holds job 10, jobs 11 and 12 wait in the backlog
	require.Eventually(t, func() bool { return len(runner.seen()) == 1 }, testTimeout, 5*time.Millisecond)

	require.NoError(t, h.ctrl.Reset(h.ctx))

	st, err := h.ctrl.Snapshot(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Active)
	assert.Equal(t, 11, st.Next)
	assert.Equal(t, 0, h.pool.Backlog())
	assert.False(t, h.view.inputsEnabled())

	close(runner.gate)
	summary := h.wait(t)

	assert.Equal(t, model.Summary{Submitted: 3, Succeeded: 1, Dropped: 2}, summary)
	assert.Equal(t, []int{11}, h.view.counters)
	assert.True(t, h.view.inputsEnabled())
	assert.Len(t, runner.seen(), 1)
}

func TestController_ResetDroppingEverythingFinishes(t *testing.T) {
	queue := &holdingQueue{}
	view := &recordingView{}
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	ctrl := NewController(queue, view, CommandTemplate{Binary: "yt-dlp", SortSpec: "res", OutputExt: "mp4"}, logging.Discard())
	go ctrl.Run(ctx)

	_, err := ctrl.Submit(ctx, SubmitRequest{Text: "a\nb", Start: "3"})
	require.NoError(t, err)
	assert.False(t, view.inputsEnabled())

	require.NoError(t, ctrl.Reset(ctx))

	summary, err := ctrl.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Summary{Submitted: 2, Dropped: 2}, summary)
	assert.True(t, view.inputsEnabled())
	assert.Equal(t, model.BatchStatusIdle, view.lastStatus())
}

// holdingQueue accepts jobs and never runs them
type holdingQueue struct {
	jobs []model.Job
}

func (q *holdingQueue) Submit(job model.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *holdingQueue) Results() <-chan Completion { return nil }

func (q *holdingQueue) DropBacklog() []model.Job {
	jobs := q.jobs
	q.jobs = nil
	return jobs
}

func TestController_SetTemplateAppliesToNextBatch(t *testing.T) {
	h := newHarness(t, &scriptedRunner{}, 2)

	first, err := h.ctrl.Submit(h.ctx, SubmitRequest{Text: "https://tt.example/a", Start: "1"})
	require.NoError(t, err)
	h.wait(t)

	require.NoError(t, h.ctrl.SetTemplate(h.ctx, CommandTemplate{Binary: "/opt/yt-dlp", SortSpec: "res:720", OutputExt: "mkv"}))

	second, err := h.ctrl.Submit(h.ctx, SubmitRequest{Text: "https://tt.example/b", Start: "2"})
	require.NoError(t, err)
	h.wait(t)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, `yt-dlp -S res,ext:mp4:m4a -o "1.mp4" "https://tt.example/a"`, first[0].Command)
	assert.Equal(t, `/opt/yt-dlp -S res:720 -o "2.mkv" "https://tt.example/b"`, second[0].Command)
}
