package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ytget/puller/internal/model"
)

const (
	htmlHeader = "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>puller log</title></head>\n<body style=\"font-family: monospace\">\n"
	htmlFooter = "</body>\n</html>\n"
)

// HTMLLog records log blocks as an HTML document
type HTMLLog struct {
	w      io.Writer
	closer io.Closer
	err    error
}

// NewHTMLLog starts a transcript on w
func NewHTMLLog(w io.Writer) *HTMLLog {
	h := &HTMLLog{w: w}
	h.write(htmlHeader)
	return h
}

// CreateHTMLLog creates or truncates path and starts a transcript in it
func CreateHTMLLog(path string) (*HTMLLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create html log: %w", err)
	}
	h := NewHTMLLog(f)
	h.closer = f
	return h, nil
}

// Write appends one block. Write errors are kept and reported by Close.
func (h *HTMLLog) Write(block model.LogBlock) {
	h.write(block.HTML() + "\n")
}

// Close finishes the document and returns the first write error
func (h *HTMLLog) Close() error {
	h.write(htmlFooter)
	if h.closer != nil {
		if err := h.closer.Close(); err != nil && h.err == nil {
			h.err = err
		}
		h.closer = nil
	}
	return h.err
}

func (h *HTMLLog) write(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}
