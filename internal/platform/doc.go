package platform

// Package platform contains OS integration and external tooling glue:
// filesystem helpers, the shell used to run downloader commands, process
// group handling, playlist expansion via ytdlp, and opening folders.
