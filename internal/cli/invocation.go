package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/ytget/puller/internal/logging"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsage        = 1
	ExitBatchFailure = 2
)

// Invocation is a parsed command line
type Invocation struct {
	ConfigPath string
	Start      string
	Workers    int
	Dir        string
	HTMLLog    string
	LogLevel   slog.Level
	Expand     bool
	NoColor    bool
	Inputs     []string
}

// InvocationError reports a command line that cannot be run
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func usageErrorf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

// Usage is printed for malformed command lines
const Usage = "usage: puller-cli [flags] <url-file|glob|->..."

// ParseInvocation parses flags and positional URL list arguments
func ParseInvocation(args []string) (Invocation, error) {
	fs := flag.NewFlagSet("puller-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // parsing errors are returned, not printed

	var inv Invocation
	var level string

	fs.StringVar(&inv.ConfigPath, "config", "", "YAML config file (optional).")
	fs.StringVar(&inv.Start, "start", "1", "File counter of the first URL.")
	fs.IntVar(&inv.Workers, "workers", 0, "Max concurrent downloads; 0 keeps the configured value.")
	fs.StringVar(&inv.Dir, "dir", "", "Output directory; defaults to the configured one or the current directory.")
	fs.StringVar(&inv.HTMLLog, "html-log", "", "Write an HTML transcript of the log to this file.")
	fs.StringVar(&level, "log-level", "warn", "Log level: debug|info|warn|error")
	fs.BoolVar(&inv.Expand, "expand", false, "Expand playlist URLs into their videos before downloading.")
	fs.BoolVar(&inv.NoColor, "no-color", false, "Do not colour failed downloads.")

	if err := fs.Parse(args); err != nil {
		return Invocation{}, usageErrorf("%v\n%s", err, Usage)
	}

	parsed, err := logging.ParseLevel(level)
	if err != nil {
		return Invocation{}, usageErrorf("%v", err)
	}
	inv.LogLevel = parsed

	if inv.Workers < 0 {
		return Invocation{}, usageErrorf("-workers must not be negative (got %d)", inv.Workers)
	}

	inv.Inputs = fs.Args()
	if len(inv.Inputs) == 0 {
		return Invocation{}, usageErrorf("no URL list given\n%s", Usage)
	}
	return inv, nil
}
