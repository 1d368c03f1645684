package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// isMobileDevice checks if the app is running on a mobile device
func isMobileDevice() bool {
	dev := fyne.CurrentDevice()
	return dev != nil && dev.IsMobile()
}

// controlsRow lays the batch controls out in one row on desktop.
// Mobile screens get a two column grid with finger-sized buttons.
func controlsRow(objects ...fyne.CanvasObject) *fyne.Container {
	if !isMobileDevice() {
		return container.NewHBox(objects...)
	}

	for _, obj := range objects {
		if btn, ok := obj.(*widget.Button); ok {
			btn.Resize(fyne.NewSize(btn.MinSize().Width, MobileButtonMinHeight))
		}
	}
	return container.NewAdaptiveGrid(2, objects...)
}

// fixedWidth wraps obj so it keeps at least width regardless of its content
func fixedWidth(obj fyne.CanvasObject, width float32) fyne.CanvasObject {
	return container.New(layout.NewGridWrapLayout(fyne.NewSize(width, obj.MinSize().Height)), obj)
}
