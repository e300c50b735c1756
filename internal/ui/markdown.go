package ui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer wraps Glamour for rendering markdown to styled terminal output.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a MarkdownRenderer with the given word wrap
// width. styled selects the dark terminal style; otherwise the plain
// "notty" style is used so that piped output carries no escape codes.
func NewMarkdownRenderer(width int, styled bool) (*MarkdownRenderer, error) {
	style := "notty"
	if styled {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating glamour renderer: %w", err)
	}
	return &MarkdownRenderer{renderer: r}, nil
}

// Render processes markdown text into styled terminal output.
func (m *MarkdownRenderer) Render(md string) (string, error) {
	if md == "" {
		return "", nil
	}
	if m == nil || m.renderer == nil {
		return md, nil
	}
	return m.renderer.Render(md)
}
