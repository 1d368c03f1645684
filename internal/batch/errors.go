package batch

import (
	"errors"
	"fmt"

	"github.com/ytget/puller/internal/model"
)

var (
	// ErrBatchRunning is returned when a batch is submitted while another runs
	ErrBatchRunning = errors.New("a batch is already running")

	// ErrPoolClosed is returned when submitting to a closed pool
	ErrPoolClosed = errors.New("pool is closed")

	// ErrControllerStopped is returned when the controller loop is not running
	ErrControllerStopped = errors.New("controller is not running")
)

// ValidationError reports a starting index that is not an integer
type ValidationError struct {
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("file count must be an integer: %q", e.Input)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// SoftFailureError reports a job whose process exited 0 without downloading
type SoftFailureError struct {
	Job model.Job
}

func (e *SoftFailureError) Error() string {
	return fmt.Sprintf("job %d (%s): already downloaded", e.Job.Index, e.Job.URL)
}

// ProcessFailureError reports a job whose process exited with a non-zero code
type ProcessFailureError struct {
	Job      model.Job
	ExitCode int
	Stderr   string
}

func (e *ProcessFailureError) Error() string {
	return fmt.Sprintf("job %d (%s): exit code %d", e.Job.Index, e.Job.URL, e.ExitCode)
}
