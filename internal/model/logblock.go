package model

import (
	"html"
	"strings"
)

// BlockKind identifies what a log block shows
type BlockKind int

const (
	// BlockCommand echoes the URL and the command line of a submitted job
	BlockCommand BlockKind = iota

	// BlockOutput holds the captured process output of a finished job
	BlockOutput

	// BlockNotice holds a message produced by the application itself
	BlockNotice
)

// BlockStyle selects how a block is rendered
type BlockStyle int

const (
	StyleNormal BlockStyle = iota
	StyleAlert
)

// HTML fragments understood by rich-text log views
const (
	commandPrefix  = "<p><br>>>> Working with "
	commandSuffix  = "<br></p>"
	preOpen        = "<pre>"
	preOpenAlert   = `<pre style="color: red">`
	preClose       = "</pre><br>"
	lineBreakTag   = "<br>"
	commandEchoFmt = ">>> Working with "
)

// LogBlock is one entry appended to the batch log
type LogBlock struct {
	Kind  BlockKind
	Style BlockStyle
	URL   string // set for command blocks
	Text  string
}

// NewCommandBlock creates the block announcing a submitted job
func NewCommandBlock(job Job) LogBlock {
	return LogBlock{Kind: BlockCommand, Style: StyleNormal, URL: job.URL, Text: job.Command}
}

// NewNoticeBlock creates an application message block
func NewNoticeBlock(text string, style BlockStyle) LogBlock {
	return LogBlock{Kind: BlockNotice, Style: style, Text: text}
}

// IsAlert reports whether the block is rendered in alert style
func (b LogBlock) IsAlert() bool {
	return b.Style == StyleAlert
}

// PlainText returns the block as plain text, as shown by console views
func (b LogBlock) PlainText() string {
	if b.Kind == BlockCommand {
		return commandEchoFmt + b.URL + "\n" + b.Text
	}
	return strings.TrimRight(b.Text, "\n")
}

// HTML renders the block as a styled HTML fragment
func (b LogBlock) HTML() string {
	if b.Kind == BlockCommand {
		return commandPrefix + html.EscapeString(b.URL) + lineBreakTag + html.EscapeString(b.Text) + commandSuffix
	}

	open := preOpen
	if b.IsAlert() {
		open = preOpenAlert
	}
	return open + html.EscapeString(b.Text) + preClose
}
