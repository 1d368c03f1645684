package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ytget/puller/internal/batch"
	"github.com/ytget/puller/internal/config"
	"github.com/ytget/puller/internal/logging"
	"github.com/ytget/puller/internal/model"
	"github.com/ytget/puller/internal/platform"
)

// Run is the CLI entrypoint. args excludes argv[0]; the returned value is
// the process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	inv, err := ParseInvocation(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCode(err)
	}

	logger := logging.New(inv.LogLevel, logging.FormatText, stderr)

	opts, err := loadOptions(inv)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	if err := platform.CreateDirectoryIfNotExists(opts.OutputDir); err != nil {
		fmt.Fprintf(stderr, "failed to create output directory: %v\n", err)
		return ExitUsage
	}

	text, err := ReadURLLists(inv.Inputs, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	if inv.Expand {
		text = batch.ExpandText(ctx, platform.NewPlaylistExpander(), text, logger)
	}
	if len(batch.SplitURLs(text)) == 0 {
		fmt.Fprintln(stderr, "no URLs to download")
		return ExitUsage
	}

	var html *HTMLLog
	if inv.HTMLLog != "" {
		html, err = CreateHTMLLog(inv.HTMLLog)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		defer func() {
			if err := html.Close(); err != nil {
				logger.Error("failed to write html log", "path", inv.HTMLLog, "error", err)
			}
		}()
	}

	view := newConsoleView(stdout, !inv.NoColor, html, logger)
	summary, err := runBatch(ctx, opts, inv.Start, text, view, logger)

	var verr *batch.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintln(stderr, verr)
		return ExitUsage
	case err != nil:
		fmt.Fprintf(stderr, "batch interrupted: %v\n", err)
		return ExitBatchFailure
	}

	fmt.Fprintf(stderr, "done: %d succeeded, %d skipped, %d failed; next file count %d\n",
		summary.Succeeded, summary.Skipped, summary.Failed, view.next)
	if summary.HasFailures() {
		return ExitBatchFailure
	}
	return ExitSuccess
}

// runBatch submits one batch and waits for it. Cancelling ctx kills the
// running processes.
func runBatch(ctx context.Context, opts config.Options, start, text string, view batch.View, logger *slog.Logger) (model.Summary, error) {
	pool := batch.NewPool(opts.MaxWorkers, batch.NewShellRunner(opts.OutputDir), logger)
	pool.Start(ctx)
	defer pool.Close()

	ctrl := batch.NewController(pool, view, batch.NewCommandTemplate(opts), logger)

	loopCtx, stop := context.WithCancel(ctx)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = ctrl.Run(loopCtx)
	}()
	defer func() {
		stop()
		<-loopDone
	}()

	// counter sync keeps the last index in the view for the summary line
	if err := ctrl.SetSync(ctx, true); err != nil {
		return model.Summary{}, err
	}
	if _, err := ctrl.Submit(ctx, batch.SubmitRequest{Text: text, Start: start}); err != nil {
		return model.Summary{}, err
	}
	return ctrl.Wait(ctx)
}

func loadOptions(inv Invocation) (config.Options, error) {
	opts := config.DefaultOptions()
	if inv.ConfigPath != "" {
		loaded, err := config.LoadFile(inv.ConfigPath)
		if err != nil {
			return config.Options{}, err
		}
		opts = loaded
	}

	if inv.Workers > 0 {
		opts.MaxWorkers = inv.Workers
	}
	if inv.Dir != "" {
		opts.OutputDir = inv.Dir
	}
	if opts.OutputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return config.Options{}, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		opts.OutputDir = wd
	}

	opts.Normalize()
	if err := opts.Validate(); err != nil {
		return config.Options{}, err
	}
	return opts, nil
}

func exitCode(err error) int {
	var invErr *InvocationError
	if errors.As(err, &invErr) {
		return invErr.ExitCode
	}
	return ExitUsage
}
