package ui

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/puller/internal/batch"
	"github.com/ytget/puller/internal/config"
	"github.com/ytget/puller/internal/model"
	"github.com/ytget/puller/internal/platform"
)

// Batcher is the part of the batch controller the UI drives
type Batcher interface {
	Submit(ctx context.Context, req batch.SubmitRequest) ([]model.Job, error)
	Reset(ctx context.Context) error
	SetSync(ctx context.Context, sync bool) error
	SetTemplate(ctx context.Context, template batch.CommandTemplate) error
}

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	settings     *config.Settings
	localization *Localization
	logger       *slog.Logger

	ctx      context.Context
	batcher  Batcher
	expander batch.Expander

	// outputDir is where the running downloads write; it only changes on restart
	outputDir string
	// clears counts Clear clicks so an expansion can tell it was discarded
	clears atomic.Uint64

	// post runs fn on the Fyne goroutine; spawn runs fn off it
	post  func(fn func())
	spawn func(fn func())

	urlEntry     *widget.Entry
	urlLabel     *widget.Label
	counterEntry *widget.Entry
	counterLabel *widget.Label
	syncCheck    *widget.Check
	expandCheck  *widget.Check
	downloadBtn  *widget.Button
	clearBtn     *widget.Button
	openBtn      *widget.Button
	statusLabel  *widget.Label
	logView      *LogView
}

var _ batch.View = (*RootUI)(nil)

// NewRootUI creates the main window content. The UI is inert until Bind
// connects it to a batch controller.
func NewRootUI(window fyne.Window, settings *config.Settings, logger *slog.Logger) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		settings:     settings,
		localization: localization,
		logger:       logger,
		ctx:          context.Background(),
		outputDir:    settings.GetOutputDirectory(),
		post:         fyne.Do,
		spawn:        func(fn func()) { go fn() },
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.setupUI()
	return ui
}

// Bind connects the UI to the controller. expander may be nil, which
// disables playlist expansion.
func (ui *RootUI) Bind(ctx context.Context, batcher Batcher, expander batch.Expander) {
	ui.ctx = ctx
	ui.batcher = batcher
	ui.expander = expander
	if expander == nil {
		ui.expandCheck.Disable()
	}

	if err := batcher.SetSync(ctx, ui.syncCheck.Checked); err != nil {
		ui.logger.Warn("failed to apply counter sync", "error", err)
	}
}

// SetOutputDir sets the directory Open folder shows. It should match the
// directory the downloads run in.
func (ui *RootUI) SetOutputDir(dir string) {
	ui.outputDir = dir
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()
	t := ui.localization.GetText

	ui.urlLabel = widget.NewLabel(t(KeyURLs))
	ui.urlEntry = widget.NewMultiLineEntry()
	ui.urlEntry.SetPlaceHolder(t(KeyURLsPlaceholder))
	ui.urlEntry.SetMinRowsVisible(URLEntryRows)
	ui.urlEntry.Wrapping = fyne.TextWrapOff

	ui.counterLabel = widget.NewLabel(t(KeyFileCount))
	ui.counterEntry = widget.NewEntry()
	ui.counterEntry.SetText(DefaultStartIndex)
	ui.counterEntry.Validator = ui.validateCounter
	ui.counterEntry.OnSubmitted = func(string) { ui.onDownloadClick() }

	ui.syncCheck = widget.NewCheck(t(KeyFileCountSync), ui.onSyncChanged)
	ui.syncCheck.SetChecked(ui.settings.GetSyncCounter())

	ui.expandCheck = widget.NewCheck(t(KeyExpandPlaylists), func(checked bool) {
		ui.settings.SetExpandPlaylists(checked)
	})
	ui.expandCheck.SetChecked(ui.settings.GetExpandPlaylists())

	ui.downloadBtn = widget.NewButton(t(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance

	// Clear stays enabled while a batch runs
	ui.clearBtn = widget.NewButton(t(KeyClear), ui.onClearClick)

	ui.openBtn = widget.NewButton(IconFolder+" "+t(KeyOpenFolder), ui.onOpenFolder)
	ui.openBtn.Importance = widget.LowImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	ui.statusLabel = widget.NewLabel(ui.localization.StatusText(model.BatchStatusIdle))
	ui.logView = NewLogView()

	header := []fyne.CanvasObject{settingsBtn}
	if logo, err := LoadLogoResource(); err == nil {
		img := canvas.NewImageFromResource(logo)
		img.SetMinSize(fyne.NewSize(32, 32))
		img.FillMode = canvas.ImageFillContain
		header = append([]fyne.CanvasObject{img}, header...)
	}

	counterRow := container.NewHBox(ui.counterLabel, fixedWidth(ui.counterEntry, CounterEntryWidth))
	controls := controlsRow(counterRow, ui.syncCheck, ui.expandCheck, ui.downloadBtn, ui.clearBtn)
	statusRow := container.NewBorder(nil, nil, ui.statusLabel, ui.openBtn)

	top := container.NewVBox(
		container.NewBorder(nil, nil, ui.urlLabel, container.NewHBox(header...)),
		ui.urlEntry,
		controls,
		statusRow,
		widget.NewSeparator(),
	)

	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, ui.logView.Container()))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(IconLanguage + " " + ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(code)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	t := ui.localization.GetText

	ui.window.SetTitle(t(KeyAppTitle))
	ui.urlLabel.SetText(t(KeyURLs))
	ui.urlEntry.SetPlaceHolder(t(KeyURLsPlaceholder))
	ui.counterLabel.SetText(t(KeyFileCount))
	ui.syncCheck.Text = t(KeyFileCountSync)
	ui.syncCheck.Refresh()
	ui.expandCheck.Text = t(KeyExpandPlaylists)
	ui.expandCheck.Refresh()
	ui.downloadBtn.SetText(t(KeyDownload))
	ui.clearBtn.SetText(t(KeyClear))
	ui.openBtn.SetText(IconFolder + " " + t(KeyOpenFolder))
}

func (ui *RootUI) validateCounter(text string) error {
	if _, err := batch.ParseStartIndex(text); err != nil {
		return errors.New(ui.localization.GetText(KeyInvalidFileCount))
	}
	return nil
}

func (ui *RootUI) onSyncChanged(checked bool) {
	ui.settings.SetSyncCounter(checked)
	if ui.batcher == nil {
		return
	}
	ui.spawn(func() {
		if err := ui.batcher.SetSync(ui.ctx, checked); err != nil {
			ui.logger.Warn("failed to apply counter sync", "error", err)
		}
	})
}

// onDownloadClick reads the form and submits it off the UI goroutine.
// Playlist expansion, when enabled, happens before submission with the
// inputs disabled.
func (ui *RootUI) onDownloadClick() {
	if ui.batcher == nil || ui.downloadBtn.Disabled() {
		return
	}

	text := ui.urlEntry.Text
	req := batch.SubmitRequest{Text: text, Start: ui.counterEntry.Text}
	expand := ui.expandCheck.Checked && ui.expander != nil
	clears := ui.clears.Load()

	if expand {
		ui.SetInputsEnabled(false)
		ui.statusLabel.SetText(ui.localization.GetText(KeyStatusExpanding))
	}

	ui.spawn(func() {
		if expand {
			req.Text = batch.ExpandText(ui.ctx, ui.expander, text, ui.logger)
			ui.post(func() { ui.statusLabel.SetText(ui.localization.StatusText(model.BatchStatusIdle)) })
			if ui.clears.Load() != clears {
				ui.logger.Info("discarding expanded URLs after clear")
				ui.SetInputsEnabled(true)
				return
			}
		}

		jobs, err := ui.batcher.Submit(ui.ctx, req)
		var verr *batch.ValidationError
		switch {
		case errors.Is(err, batch.ErrBatchRunning):
			ui.post(func() { ui.statusLabel.SetText(ui.localization.GetText(KeyBatchRunning)) })
			return
		case err == nil, errors.As(err, &verr):
			// validation errors are reported through ShowValidationError
		default:
			ui.logger.Error("failed to submit batch", "error", err)
			ui.post(func() {
				dialog.ShowError(errors.New(ui.localization.GetText(KeyErrorSubmitting)+": "+err.Error()), ui.window)
			})
		}
		if expand && len(jobs) == 0 {
			ui.SetInputsEnabled(true)
		}
	})
}

func (ui *RootUI) onClearClick() {
	ui.clears.Add(1)
	if ui.batcher == nil {
		ui.ClearInput()
		ui.ClearLog()
		return
	}
	ui.spawn(func() {
		if err := ui.batcher.Reset(ui.ctx); err != nil {
			ui.logger.Warn("failed to reset batch", "error", err)
		}
	})
}

func (ui *RootUI) onOpenFolder() {
	dir := ui.outputDir
	if err := platform.OpenDirectory(dir); err != nil {
		ui.logger.Warn("failed to open output directory", "dir", dir, "error", err)
		dialog.ShowError(errors.New(ui.localization.GetText(KeyErrorOpeningDir)+": "+err.Error()), ui.window)
	}
}

func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, func() {
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
		ui.applyCommandSettings()
	}).Show()
}

// applyCommandSettings hands the saved downloader settings to the controller
// so the next batch uses them
func (ui *RootUI) applyCommandSettings() {
	if ui.batcher == nil {
		return
	}
	template := batch.NewCommandTemplate(ui.settings.Options())
	ui.spawn(func() {
		if err := ui.batcher.SetTemplate(ui.ctx, template); err != nil {
			ui.logger.Warn("failed to apply downloader settings", "error", err)
		}
	})
}

// AppendLog adds a block to the process log
func (ui *RootUI) AppendLog(block model.LogBlock) {
	ui.post(func() { ui.logView.Append(block) })
}

// ClearLog empties the process log
func (ui *RootUI) ClearLog() {
	ui.post(ui.logView.Clear)
}

// ClearInput empties the URL list
func (ui *RootUI) ClearInput() {
	ui.post(func() { ui.urlEntry.SetText("") })
}

// SetInputsEnabled toggles every control that can start a batch.
// The Clear button is left alone.
func (ui *RootUI) SetInputsEnabled(enabled bool) {
	ui.post(func() {
		for _, w := range ui.inputs() {
			if enabled {
				w.Enable()
			} else {
				w.Disable()
			}
		}
		if enabled && ui.expander == nil {
			ui.expandCheck.Disable()
		}
	})
}

// SetStatus shows the batch status
func (ui *RootUI) SetStatus(status model.BatchStatus) {
	ui.post(func() { ui.statusLabel.SetText(ui.localization.StatusText(status)) })
}

// SetCounter replaces the starting index with next
func (ui *RootUI) SetCounter(next int) {
	ui.post(func() { ui.counterEntry.SetText(strconv.Itoa(next)) })
}

// ShowValidationError marks the counter entry invalid
func (ui *RootUI) ShowValidationError(err error) {
	ui.post(func() {
		ui.counterEntry.SetValidationError(err)
		ui.statusLabel.SetText(ui.localization.GetText(KeyInvalidFileCount))
	})
}

type disableable interface {
	Enable()
	Disable()
}

func (ui *RootUI) inputs() []disableable {
	return []disableable{ui.urlEntry, ui.counterEntry, ui.syncCheck, ui.expandCheck, ui.downloadBtn}
}

// LogText returns the log as plain text
func (ui *RootUI) LogText() string {
	return strings.TrimSpace(ui.logView.PlainText())
}
