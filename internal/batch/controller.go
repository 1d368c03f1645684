package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/ytget/puller/internal/model"
)

// ValidationNotice is logged when the starting index cannot be parsed
const ValidationNotice = "ERROR: file count must be an integer."

// SubmitRequest is the raw user input of one batch
type SubmitRequest struct {
	Text  string // newline separated URLs
	Start string // starting file counter
}

// State is a snapshot of the controller-owned batch state
type State struct {
	Status  model.BatchStatus
	Active  int
	Next    int
	Sync    bool
	Summary model.Summary
}

// Controller is the completion sink. Run owns every piece of batch state;
// the other methods hand work to it over a channel and wait for the result.
type Controller struct {
	queue    JobQueue
	view     View
	template CommandTemplate
	logger   *slog.Logger

	requests chan func()
	stopped  chan struct{}

	// owned by the Run goroutine
	status  model.BatchStatus
	active  int
	next    int
	sync    bool
	summary model.Summary
	waiters []chan model.Summary
}

// NewController creates a controller submitting jobs to queue and reporting to view
func NewController(queue JobQueue, view View, template CommandTemplate, logger *slog.Logger) *Controller {
	return &Controller{
		queue:    queue,
		view:     view,
		template: template,
		logger:   logger,
		requests: make(chan func()),
		stopped:  make(chan struct{}),
		status:   model.BatchStatusIdle,
	}
}

// Run processes requests and completions until ctx is cancelled
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.stopped)

	results := c.queue.Results()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-c.requests:
			c.safely("request", fn)
		case done, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			c.safely("completion", func() { c.complete(done) })
		}
	}
}

// Submit starts a batch from raw input and returns the jobs it created.
// A malformed start index yields a *ValidationError and no jobs.
func (c *Controller) Submit(ctx context.Context, req SubmitRequest) ([]model.Job, error) {
	var (
		jobs []model.Job
		err  error
	)
	if execErr := c.exec(ctx, func() { jobs, err = c.submit(req) }); execErr != nil {
		return nil, execErr
	}
	return jobs, err
}

// Reset clears input and log and drops jobs that have not started yet.
// Running jobs keep running and inputs stay disabled until they finish.
func (c *Controller) Reset(ctx context.Context) error {
	return c.exec(ctx, c.reset)
}

// SetSync sets whether the counter rolls forward when a batch finishes
func (c *Controller) SetSync(ctx context.Context, sync bool) error {
	return c.exec(ctx, func() { c.sync = sync })
}

// SetTemplate replaces the command template used by later batches.
// Jobs already submitted keep the command they were built with.
func (c *Controller) SetTemplate(ctx context.Context, template CommandTemplate) error {
	return c.exec(ctx, func() { c.template = template })
}

// Snapshot returns a copy of the current batch state
func (c *Controller) Snapshot(ctx context.Context) (State, error) {
	var st State
	err := c.exec(ctx, func() {
		st = State{Status: c.status, Active: c.active, Next: c.next, Sync: c.sync, Summary: c.summary}
	})
	return st, err
}

// Wait blocks until no job is in flight and returns the summary of the last batch
func (c *Controller) Wait(ctx context.Context) (model.Summary, error) {
	ch := make(chan model.Summary, 1)
	err := c.exec(ctx, func() {
		if c.active == 0 {
			ch <- c.summary
			return
		}
		c.waiters = append(c.waiters, ch)
	})
	if err != nil {
		return model.Summary{}, err
	}

	select {
	case s := <-ch:
		return s, nil
	case <-ctx.Done():
		return model.Summary{}, ctx.Err()
	case <-c.stopped:
		return model.Summary{}, ErrControllerStopped
	}
}

// exec runs fn on the Run goroutine and waits for it to return
func (c *Controller) exec(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	req := func() {
		defer close(done)
		fn()
	}

	select {
	case c.requests <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.stopped:
		return ErrControllerStopped
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// safely keeps the loop alive when handling one message panics
func (c *Controller) safely(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic in controller loop", "while", what, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

func (c *Controller) submit(req SubmitRequest) ([]model.Job, error) {
	if c.status.IsBusy() {
		return nil, ErrBatchRunning
	}

	start, err := ParseStartIndex(req.Start)
	if err != nil {
		c.view.AppendLog(model.NewNoticeBlock(ValidationNotice, model.StyleAlert))
		c.view.ShowValidationError(err)
		return nil, err
	}

	urls := SplitURLs(req.Text)
	if len(urls) == 0 {
		c.view.SetStatus(model.BatchStatusIdle)
		return nil, nil
	}

	c.status = model.BatchStatusSubmitting
	c.summary = model.Summary{}
	c.view.SetInputsEnabled(false)
	c.view.SetStatus(c.status)

	jobs := make([]model.Job, 0, len(urls))
	counter := start
	var submitErr error
	for _, url := range urls {
		job := model.Job{
			ID:      model.NewJobID(),
			URL:     url,
			Index:   counter,
			Command: c.template.Build(counter, url),
		}
		if err := c.queue.Submit(job); err != nil {
			submitErr = fmt.Errorf("failed to submit %s: %w", url, err)
			c.view.AppendLog(model.NewNoticeBlock(submitErr.Error(), model.StyleAlert))
			break
		}

		c.view.AppendLog(model.NewCommandBlock(job))
		c.active++
		c.summary.Submitted++
		counter++
		jobs = append(jobs, job)
	}
	c.next = counter

	c.logger.Info("batch submitted", "jobs", len(jobs), "first_index", start, "next_index", c.next)

	if c.active == 0 {
		c.finish()
		return jobs, submitErr
	}

	c.status = model.BatchStatusRunning
	c.view.SetStatus(c.status)
	return jobs, submitErr
}

func (c *Controller) complete(done Completion) {
	class := done.Class()
	c.view.AppendLog(OutputBlock(done.Outcome, class))

	switch class {
	case model.ClassSuccess:
		c.summary.Succeeded++
	case model.ClassSoftFailure:
		c.summary.Skipped++
	default:
		c.summary.Failed++
	}

	if err := done.Err(); err != nil {
		c.logger.Warn("job not downloaded", "job", done.Job.ID, "error", err)
	} else {
		c.logger.Debug("job completed", "job", done.Job.ID, "index", done.Job.Index, "duration", done.Outcome.Duration())
	}

	if c.active > 0 {
		c.active--
	}
	if c.active == 0 {
		c.finish()
	}
}

// finish returns the controls to the ready state once nothing is in flight
func (c *Controller) finish() {
	c.status = model.BatchStatusIdle
	c.view.SetInputsEnabled(true)
	c.view.SetStatus(c.status)
	if c.sync {
		c.view.SetCounter(c.next)
	}

	c.logger.Info("batch finished",
		"succeeded", c.summary.Succeeded,
		"skipped", c.summary.Skipped,
		"failed", c.summary.Failed,
		"dropped", c.summary.Dropped,
		"next_index", c.next)

	for _, w := range c.waiters {
		w <- c.summary
	}
	c.waiters = nil
}

func (c *Controller) reset() {
	c.view.ClearInput()
	c.view.ClearLog()

	if dropped := c.queue.DropBacklog(); len(dropped) > 0 {
		c.active -= len(dropped)
		c.summary.Dropped += len(dropped)
		c.next = dropped[0].Index
		c.logger.Info("dropped jobs that had not started", "jobs", len(dropped), "next_index", c.next)
	}

	if c.active > 0 {
		c.view.SetInputsEnabled(false)
		return
	}
	if c.status.IsBusy() {
		c.finish()
	}
}
