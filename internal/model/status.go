package model

// BatchStatus represents the state of the current batch
type BatchStatus string

const (
	// BatchStatusIdle means no job is in flight and inputs accept a new batch
	BatchStatusIdle BatchStatus = "Idle"

	// BatchStatusSubmitting means jobs of a new batch are being enqueued
	BatchStatusSubmitting BatchStatus = "Submitting"

	// BatchStatusRunning means at least one job is still in flight
	BatchStatusRunning BatchStatus = "Running"
)

// String returns the string representation of BatchStatus
func (bs BatchStatus) String() string {
	return string(bs)
}

// IsBusy returns true if a batch is being submitted or is running
func (bs BatchStatus) IsBusy() bool {
	return bs == BatchStatusSubmitting || bs == BatchStatusRunning
}

// Classification is the verdict the completion sink gives a finished job
type Classification int

const (
	// ClassSuccess means the tool exited 0 and did the work
	ClassSuccess Classification = iota

	// ClassSoftFailure means the tool exited 0 but skipped the download
	ClassSoftFailure

	// ClassFailure means the tool exited with a non-zero code
	ClassFailure
)

// String returns a human-friendly name for the classification
func (c Classification) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassSoftFailure:
		return "soft-failure"
	case ClassFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// IsAlert returns true if the outcome must be rendered in alert style
func (c Classification) IsAlert() bool {
	return c == ClassSoftFailure || c == ClassFailure
}
