package config

import (
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"

	"github.com/ytget/puller/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloaderBinary = "downloader_binary"
	KeySortSpec         = "sort_spec"
	KeyOutputExt        = "output_ext"
	KeyMaxWorkers       = "max_workers"
	KeyOutputDir        = "output_directory"
	KeySyncCounter      = "sync_counter"
	KeyExpandPlaylists  = "expand_playlists"
	KeyLanguage         = "app_language"
)

// FallbackOutputDir is used when the Downloads directory cannot be resolved
const FallbackOutputDir = "/tmp/downloads"

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloaderBinary returns the downloader executable name or path
func (s *Settings) GetDownloaderBinary() string {
	return s.app.Preferences().StringWithFallback(KeyDownloaderBinary, DefaultDownloaderBinary)
}

// SetDownloaderBinary sets the downloader executable; blank resets the default
func (s *Settings) SetDownloaderBinary(binary string) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultDownloaderBinary
	}
	s.app.Preferences().SetString(KeyDownloaderBinary, binary)
}

// GetSortSpec returns the format sort passed to -S
func (s *Settings) GetSortSpec() string {
	return s.app.Preferences().StringWithFallback(KeySortSpec, DefaultSortSpec)
}

// SetSortSpec sets the format sort; blank resets the default
func (s *Settings) SetSortSpec(spec string) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		spec = DefaultSortSpec
	}
	s.app.Preferences().SetString(KeySortSpec, spec)
}

// GetOutputExt returns the extension of output files
func (s *Settings) GetOutputExt() string {
	return s.app.Preferences().StringWithFallback(KeyOutputExt, DefaultOutputExt)
}

// SetOutputExt sets the output extension; blank resets the default
func (s *Settings) SetOutputExt(ext string) {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = DefaultOutputExt
	}
	s.app.Preferences().SetString(KeyOutputExt, ext)
}

// GetMaxWorkers returns the maximum number of concurrent downloads
func (s *Settings) GetMaxWorkers() int {
	value := s.app.Preferences().Int(KeyMaxWorkers)
	if value <= 0 {
		s.SetMaxWorkers(DefaultMaxWorkers)
		return DefaultMaxWorkers
	}
	return value
}

// SetMaxWorkers sets the maximum number of concurrent downloads
func (s *Settings) SetMaxWorkers(count int) {
	s.app.Preferences().SetInt(KeyMaxWorkers, ClampWorkers(count))
}

// GetOutputDirectory returns the directory downloads are written to
func (s *Settings) GetOutputDirectory() string {
	dir := s.app.Preferences().String(KeyOutputDir)
	if dir == "" {
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			slog.Warn("failed to resolve downloads dir", "error", err)
			defaultDir = FallbackOutputDir
		}
		s.SetOutputDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetOutputDirectory sets the directory downloads are written to
func (s *Settings) SetOutputDirectory(dir string) {
	s.app.Preferences().SetString(KeyOutputDir, dir)
}

// GetSyncCounter returns whether the counter rolls forward after a batch
func (s *Settings) GetSyncCounter() bool {
	return s.app.Preferences().BoolWithFallback(KeySyncCounter, DefaultSyncCounter)
}

// SetSyncCounter sets whether the counter rolls forward after a batch
func (s *Settings) SetSyncCounter(sync bool) {
	s.app.Preferences().SetBool(KeySyncCounter, sync)
}

// GetExpandPlaylists returns whether playlist URLs are expanded before submit
func (s *Settings) GetExpandPlaylists() bool {
	return s.app.Preferences().BoolWithFallback(KeyExpandPlaylists, DefaultExpandPlaylists)
}

// SetExpandPlaylists sets whether playlist URLs are expanded before submit
func (s *Settings) SetExpandPlaylists(expand bool) {
	s.app.Preferences().SetBool(KeyExpandPlaylists, expand)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// Options returns the current settings as batch pipeline options
func (s *Settings) Options() Options {
	opts := Options{
		DownloaderBinary: s.GetDownloaderBinary(),
		SortSpec:         s.GetSortSpec(),
		OutputExt:        s.GetOutputExt(),
		MaxWorkers:       s.GetMaxWorkers(),
		OutputDir:        s.GetOutputDirectory(),
		SyncCounter:      s.GetSyncCounter(),
		ExpandPlaylists:  s.GetExpandPlaylists(),
	}
	opts.Normalize()
	return opts
}
