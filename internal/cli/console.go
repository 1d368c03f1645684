package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ytget/puller/internal/batch"
	"github.com/ytget/puller/internal/model"
)

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// consoleView prints the batch log to a terminal. The controller calls it
// from its loop goroutine only.
type consoleView struct {
	out    io.Writer
	color  bool
	html   *HTMLLog
	logger *slog.Logger

	next int
}

var _ batch.View = (*consoleView)(nil)

func newConsoleView(out io.Writer, color bool, html *HTMLLog, logger *slog.Logger) *consoleView {
	return &consoleView{out: out, color: color, html: html, logger: logger}
}

func (v *consoleView) AppendLog(block model.LogBlock) {
	text := block.PlainText()
	if v.color && block.IsAlert() {
		text = ansiRed + text + ansiReset
	}
	fmt.Fprintln(v.out, text)

	if v.html != nil {
		v.html.Write(block)
	}
}

// There is no input or log to clear on a terminal
func (v *consoleView) ClearLog() {}
func (v *consoleView) ClearInput() {}

func (v *consoleView) SetInputsEnabled(bool) {}

func (v *consoleView) SetStatus(status model.BatchStatus) {
	v.logger.Debug("batch status", "status", status.String())
}

func (v *consoleView) SetCounter(next int) {
	v.next = next
}

func (v *consoleView) ShowValidationError(err error) {
	v.logger.Debug("validation failed", "error", err)
}
