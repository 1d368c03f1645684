package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/puller/internal/model"
)

// LogView is the read-only process log. Each LogBlock becomes one
// monospace paragraph; alert blocks use the theme error colour.
type LogView struct {
	text   *widget.RichText
	scroll *container.Scroll
	blocks []model.LogBlock
}

// NewLogView creates an empty log
func NewLogView() *LogView {
	text := widget.NewRichText()
	text.Wrapping = fyne.TextWrapBreak

	scroll := container.NewVScroll(text)
	scroll.SetMinSize(fyne.NewSize(0, LogMinHeight))

	return &LogView{text: text, scroll: scroll}
}

// Container returns the scrollable log widget
func (l *LogView) Container() fyne.CanvasObject {
	return l.scroll
}

// Append adds a block at the end and scrolls to it
func (l *LogView) Append(block model.LogBlock) {
	l.blocks = append(l.blocks, block)
	l.text.Segments = append(l.text.Segments, blockSegment(block))
	l.text.Refresh()
	l.scroll.ScrollToBottom()
}

// Clear removes every block
func (l *LogView) Clear() {
	l.blocks = nil
	l.text.Segments = nil
	l.text.Refresh()
	l.scroll.ScrollToTop()
}

// Blocks returns the blocks currently shown
func (l *LogView) Blocks() []model.LogBlock {
	return append([]model.LogBlock(nil), l.blocks...)
}

// PlainText returns the log as it reads on screen
func (l *LogView) PlainText() string {
	parts := make([]string, 0, len(l.blocks))
	for _, b := range l.blocks {
		parts = append(parts, b.PlainText())
	}
	return strings.Join(parts, "\n")
}

func blockSegment(block model.LogBlock) *widget.TextSegment {
	style := widget.RichTextStyle{
		ColorName: theme.ColorNameForeground,
		TextStyle: fyne.TextStyle{Monospace: true},
		SizeName:  theme.SizeNameText,
	}
	if block.Kind == model.BlockCommand {
		style.TextStyle.Bold = true
	}
	if block.IsAlert() {
		style.ColorName = theme.ColorNameError
	}
	return &widget.TextSegment{Style: style, Text: block.PlainText()}
}
