package batch

import (
	"context"

	"github.com/ytget/puller/internal/model"
)

// Runner executes one job and reports its outcome. Run blocks until the
// process exits.
type Runner interface {
	Run(ctx context.Context, job model.Job) model.Outcome
}

// JobQueue accepts jobs and delivers exactly one completion per job.
type JobQueue interface {
	Submit(job model.Job) error
	Results() <-chan Completion
	DropBacklog() []model.Job
}

// View receives display updates from the controller loop. Implementations
// must be safe to call from the loop goroutine.
type View interface {
	AppendLog(block model.LogBlock)
	ClearLog()
	ClearInput()
	SetInputsEnabled(enabled bool)
	SetStatus(status model.BatchStatus)
	SetCounter(next int)
	ShowValidationError(err error)
}

// Expander resolves a pasted URL into the URLs that should be downloaded.
type Expander interface {
	Expand(ctx context.Context, url string) ([]string, error)
}
