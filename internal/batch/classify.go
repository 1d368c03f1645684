package batch

import (
	"strings"

	"github.com/ytget/puller/internal/model"
)

// SkipMarker is printed by yt-dlp when the target file already exists.
// yt-dlp exits 0 in that case, so the marker takes precedence over the code.
const SkipMarker = "has already been downloaded"

// Classify decides how an outcome is reported
func Classify(outcome model.Outcome) model.Classification {
	if strings.Contains(outcome.Stdout, SkipMarker) {
		return model.ClassSoftFailure
	}
	if outcome.ExitCode == 0 {
		return model.ClassSuccess
	}
	return model.ClassFailure
}

// OutputBlock renders a classified outcome as a log block. Failures show
// stderr, everything else shows stdout.
func OutputBlock(outcome model.Outcome, class model.Classification) model.LogBlock {
	switch class {
	case model.ClassSuccess:
		return model.LogBlock{Kind: model.BlockOutput, Style: model.StyleNormal, Text: outcome.Stdout}
	case model.ClassSoftFailure:
		return model.LogBlock{Kind: model.BlockOutput, Style: model.StyleAlert, Text: outcome.Stdout}
	default:
		return model.LogBlock{Kind: model.BlockOutput, Style: model.StyleAlert, Text: outcome.Stderr}
	}
}

// Completion pairs a job with the outcome of its process
type Completion struct {
	Job     model.Job
	Outcome model.Outcome
}

// Class returns the classification of the outcome
func (c Completion) Class() model.Classification {
	return Classify(c.Outcome)
}

// Err returns a typed error for soft and process failures, nil on success
func (c Completion) Err() error {
	switch c.Class() {
	case model.ClassSuccess:
		return nil
	case model.ClassSoftFailure:
		return &SoftFailureError{Job: c.Job}
	default:
		return &ProcessFailureError{Job: c.Job, ExitCode: c.Outcome.ExitCode, Stderr: c.Outcome.Stderr}
	}
}
