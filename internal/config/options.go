package config

import (
	"errors"
	"strings"
)

// Default values
const (
	DefaultDownloaderBinary = "yt-dlp"
	DefaultSortSpec         = "res,ext:mp4:m4a"
	DefaultOutputExt        = "mp4"
	DefaultMaxWorkers       = 1000
	DefaultSyncCounter      = false
	DefaultExpandPlaylists  = false
	DefaultLanguage         = "system"
)

// Worker bounds
const (
	MinWorkers = 1
	MaxWorkers = 1000
)

// ErrEmptyBinary is returned when no downloader binary is configured
var ErrEmptyBinary = errors.New("downloader binary must not be empty")

// Options is the resolved configuration consumed by the batch pipeline
type Options struct {
	DownloaderBinary string `yaml:"downloader_binary"`
	SortSpec         string `yaml:"sort_spec"`
	OutputExt        string `yaml:"output_ext"`
	MaxWorkers       int    `yaml:"max_workers"`
	OutputDir        string `yaml:"output_directory"`
	SyncCounter      bool   `yaml:"sync_counter"`
	ExpandPlaylists  bool   `yaml:"expand_playlists"`
}

// DefaultOptions returns options with every field set to its default.
// OutputDir is left empty, meaning the current working directory.
func DefaultOptions() Options {
	return Options{
		DownloaderBinary: DefaultDownloaderBinary,
		SortSpec:         DefaultSortSpec,
		OutputExt:        DefaultOutputExt,
		MaxWorkers:       DefaultMaxWorkers,
		SyncCounter:      DefaultSyncCounter,
		ExpandPlaylists:  DefaultExpandPlaylists,
	}
}

// Normalize fills blank fields with defaults and clamps the worker count
func (o *Options) Normalize() {
	o.DownloaderBinary = strings.TrimSpace(o.DownloaderBinary)
	if o.DownloaderBinary == "" {
		o.DownloaderBinary = DefaultDownloaderBinary
	}
	if strings.TrimSpace(o.SortSpec) == "" {
		o.SortSpec = DefaultSortSpec
	}
	o.OutputExt = strings.TrimPrefix(strings.TrimSpace(o.OutputExt), ".")
	if o.OutputExt == "" {
		o.OutputExt = DefaultOutputExt
	}
	if o.MaxWorkers == 0 {
		o.MaxWorkers = DefaultMaxWorkers
	}
	o.MaxWorkers = ClampWorkers(o.MaxWorkers)
}

// Validate reports configuration errors that cannot be defaulted
func (o Options) Validate() error {
	if strings.TrimSpace(o.DownloaderBinary) == "" {
		return ErrEmptyBinary
	}
	return nil
}

// ClampWorkers bounds a worker count to [MinWorkers, MaxWorkers]
func ClampWorkers(count int) int {
	if count < MinWorkers {
		return MinWorkers
	}
	if count > MaxWorkers {
		return MaxWorkers
	}
	return count
}
