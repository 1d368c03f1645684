package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ytget/puller/internal/model"
	"github.com/ytget/puller/internal/platform"
)

// StartFailureExitCode is reported when the shell could not be started
const StartFailureExitCode = -1

// DefaultWaitDelay bounds how long Run waits for output pipes after the
// shell exits or is killed. A grandchild outside the process group can
// hold them open.
const DefaultWaitDelay = 5 * time.Second

// ShellRunner runs job commands through the system shell
type ShellRunner struct {
	dir       string
	shell     string
	flag      string
	waitDelay time.Duration
}

// NewShellRunner creates a runner executing commands in dir.
// An empty dir means the current working directory.
func NewShellRunner(dir string) *ShellRunner {
	shell, flag := platform.Shell()
	return &ShellRunner{dir: dir, shell: shell, flag: flag, waitDelay: DefaultWaitDelay}
}

// SetWaitDelay sets how long to wait for output pipes once the shell is gone
func (r *ShellRunner) SetWaitDelay(d time.Duration) {
	r.waitDelay = d
}

// Run executes the job command and waits for it to exit. The process runs
// in its own group, which is killed as a whole when ctx is cancelled.
func (r *ShellRunner) Run(ctx context.Context, job model.Job) model.Outcome {
	outcome := model.Outcome{StartedAt: time.Now()}

	cmd := exec.CommandContext(ctx, r.shell, r.flag, job.Command)
	cmd.Dir = r.dir
	platform.SetProcessGroup(cmd)
	cmd.Cancel = func() error {
		return platform.KillProcessGroup(cmd)
	}
	cmd.WaitDelay = r.waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	outcome.FinishedAt = time.Now()
	outcome.Stdout = stdout.String()
	outcome.Stderr = stderr.String()

	if err == nil {
		return outcome
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(err, exec.ErrWaitDelay):
		// the shell exited cleanly; only the pipes were left open
		outcome.Stderr = appendLine(outcome.Stderr, "output closed after wait delay: a child process kept running")
	case errors.As(err, &exitErr):
		outcome.ExitCode = exitErr.ExitCode()
	default:
		outcome.ExitCode = StartFailureExitCode
		outcome.Stderr = appendLine(outcome.Stderr, fmt.Sprintf("failed to run command: %v", err))
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if outcome.ExitCode == 0 {
			outcome.ExitCode = StartFailureExitCode
		}
		outcome.Stderr = appendLine(outcome.Stderr, fmt.Sprintf("download cancelled: %v", ctxErr))
	}
	return outcome
}

func appendLine(text, line string) string {
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text + line
}
