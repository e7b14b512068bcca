package tui

import (
	"github.com/charmbracelet/glamour"
)

// Renderer turns markdown into terminal output.
type Renderer func(markdown string) (string, error)

// NewRenderer returns a Renderer using glamour. An empty style detects a
// light or dark background; "notty" produces plain text.
func NewRenderer(style string) (Renderer, error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(80))
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// Plain is the Renderer used when output is not a terminal.
func Plain(markdown string) (string, error) {
	return markdown, nil
}
