package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobIDPrefix prefixes every generated job ID
const JobIDPrefix = "job-"

// Job is one URL-to-file download bound to a unique numeric filename.
// It is created at submit time and never modified afterwards.
type Job struct {
	ID      string
	URL     string
	Index   int    // target filename index
	Command string // shell command line built from URL and Index
}

// Outcome is the captured result of running one job's external process
type Outcome struct {
	Stdout     string
	Stderr     string
	ExitCode   int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the process ran, or zero if timestamps are unset
func (o Outcome) Duration() time.Duration {
	if o.StartedAt.IsZero() || o.FinishedAt.IsZero() {
		return 0
	}
	return o.FinishedAt.Sub(o.StartedAt)
}

// Summary tallies the outcomes of one batch
type Summary struct {
	Submitted int
	Succeeded int
	Skipped   int
	Failed    int
	Dropped   int // removed from the backlog by a reset before starting
}

// Completed returns the number of jobs whose outcome has been delivered
func (s Summary) Completed() int {
	return s.Succeeded + s.Skipped + s.Failed
}

// HasFailures returns true if any job was skipped or failed
func (s Summary) HasFailures() bool {
	return s.Skipped > 0 || s.Failed > 0
}

// NewJobID generates a unique, time-ordered job ID using UUID v7
func NewJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
