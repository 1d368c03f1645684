package ui

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/puller/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	outputDirEntry  *widget.Entry
	maxWorkersEntry *widget.Entry
	binaryEntry     *widget.Entry
	sortSpecEntry   *widget.Entry
	outputExtEntry  *widget.Entry
	languageSelect  *widget.Select

	// display name -> language code
	languageCodes map[string]string
}

// NewSettingsDialog creates a new settings dialog. onSaved may be nil.
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.outputDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseDirectory)
	outputDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.outputDirEntry)

	sd.maxWorkersEntry = widget.NewEntry()
	sd.maxWorkersEntry.SetPlaceHolder(strconv.Itoa(config.MinWorkers) + "-" + strconv.Itoa(config.MaxWorkers))

	sd.binaryEntry = widget.NewEntry()
	sd.binaryEntry.SetPlaceHolder(config.DefaultDownloaderBinary)

	sd.sortSpecEntry = widget.NewEntry()
	sd.sortSpecEntry.SetPlaceHolder(config.DefaultSortSpec)

	sd.outputExtEntry = widget.NewEntry()
	sd.outputExtEntry.SetPlaceHolder(config.DefaultOutputExt)

	sd.languageCodes = make(map[string]string)
	var languageNames []string
	labels := sd.settings.GetLanguageOptions()
	for _, code := range slices.Sorted(maps.Keys(labels)) {
		name := labels[code]
		if code == config.DefaultLanguage {
			name = t(KeySystemLanguage)
		}
		sd.languageCodes[name] = code
		languageNames = append(languageNames, name)
	}
	sd.languageSelect = widget.NewSelect(languageNames, nil)

	form := container.NewVBox(
		widget.NewLabel(t(KeyDownloadSettings)),
		widget.NewSeparator(),

		widget.NewLabel(t(KeyOutputDirectory)+":"),
		outputDirRow,

		widget.NewLabel(t(KeyMaxWorkers)+":"),
		sd.maxWorkersEntry,

		widget.NewLabel(t(KeyDownloaderBinary)+":"),
		sd.binaryEntry,

		widget.NewLabel(t(KeySortSpec)+":"),
		sd.sortSpecEntry,

		widget.NewLabel(t(KeyOutputExt)+":"),
		sd.outputExtEntry,

		widget.NewSeparator(),
		widget.NewLabel(t(KeyInterfaceSettings)),
		widget.NewSeparator(),

		widget.NewLabel(t(KeyLanguage)+":"),
		sd.languageSelect,

		widget.NewLabel(t(KeyRestartRequired)),
	)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.outputDirEntry.SetText(sd.settings.GetOutputDirectory())
	sd.maxWorkersEntry.SetText(strconv.Itoa(sd.settings.GetMaxWorkers()))
	sd.binaryEntry.SetText(sd.settings.GetDownloaderBinary())
	sd.sortSpecEntry.SetText(sd.settings.GetSortSpec())
	sd.outputExtEntry.SetText(sd.settings.GetOutputExt())

	current := sd.settings.GetLanguage()
	for name, code := range sd.languageCodes {
		if code == current {
			sd.languageSelect.SetSelected(name)
			break
		}
	}
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.outputDirEntry.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()

	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// apply writes the dialog fields to preferences. Blank fields reset to defaults.
func (sd *SettingsDialog) apply() {
	if dir := strings.TrimSpace(sd.outputDirEntry.Text); dir != "" {
		sd.settings.SetOutputDirectory(dir)
	}

	if workers, err := strconv.Atoi(strings.TrimSpace(sd.maxWorkersEntry.Text)); err == nil {
		sd.settings.SetMaxWorkers(workers)
	}

	sd.settings.SetDownloaderBinary(sd.binaryEntry.Text)
	sd.settings.SetSortSpec(sd.sortSpecEntry.Text)
	sd.settings.SetOutputExt(sd.outputExtEntry.Text)

	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}
}
