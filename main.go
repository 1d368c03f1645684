package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/puller/internal/batch"
	"github.com/ytget/puller/internal/config"
	"github.com/ytget/puller/internal/logging"
	"github.com/ytget/puller/internal/platform"
	"github.com/ytget/puller/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.puller"
	AppName = "Puller"

	WindowWidth  = 800
	WindowHeight = 600
)

func main() {
	logger := logging.New(slog.LevelInfo, logging.FormatText, os.Stderr)
	slog.SetDefault(logger)
	logger.Info("starting", "app", AppName, "version", version)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	if icon, err := ui.LoadLogoResource(); err == nil {
		myWindow.SetIcon(icon)
	}

	settings := config.NewSettings(myApp)
	opts := settings.Options()
	if err := platform.CreateDirectoryIfNotExists(opts.OutputDir); err != nil {
		logger.Error("failed to ensure output dir", "dir", opts.OutputDir, "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	pool := batch.NewPool(opts.MaxWorkers, batch.NewShellRunner(opts.OutputDir), logger)
	pool.Start(ctx)

	root := ui.NewRootUI(myWindow, settings, logger)
	root.SetOutputDir(opts.OutputDir)
	ctrl := batch.NewController(pool, root, batch.NewCommandTemplate(opts), logger)

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = ctrl.Run(ctx)
	}()

	root.Bind(ctx, ctrl, platform.NewPlaylistExpander())

	myWindow.ShowAndRun()

	// Kill running downloads on exit
	cancel()
	<-loopDone
	pool.Close()
	logger.Info("stopped", "peak_concurrency", pool.Peak())
}
