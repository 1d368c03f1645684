// Package ui contains the Fyne-based desktop user interface for the application.
// RootUI renders the batch form and the process log, and implements the
// batch.View port so the controller can drive it from any goroutine.
// All UI strings are localized via Localization.
package ui
