// Package ui renders seox's terminal output and prompts.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions shared by every command.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#006B8F", Dark: "#5FD7FF"})
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#56D364"})
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#FF7B72"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#006B8F", Dark: "#5FD7FF"})
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"})
	sectionStyle = lipgloss.NewStyle().Bold(true)
)

// Printer writes styled lines to a writer.
type Printer struct {
	out io.Writer
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.out }

// Header prints a command banner followed by a blank line.
func (p *Printer) Header(title string) {
	fmt.Fprintf(p.out, "\n%s\n\n", headerStyle.Render(title))
}

// Section prints a bold section title.
func (p *Printer) Section(title string, style ...Tone) {
	s := sectionStyle
	if len(style) > 0 {
		s = style[0].style().Bold(true)
	}
	fmt.Fprintf(p.out, "\n%s\n", s.Render(title))
}

// Success prints a success line.
func (p *Printer) Success(format string, args ...any) {
	p.line(successStyle, "✓ ", format, args...)
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	p.line(warnStyle, "! ", format, args...)
}

// Error prints an error line.
func (p *Printer) Error(format string, args ...any) {
	p.line(errorStyle, "✗ ", format, args...)
}

// Info prints an informational line.
func (p *Printer) Info(format string, args ...any) {
	p.line(infoStyle, "", format, args...)
}

// Muted prints a dimmed line.
func (p *Printer) Muted(format string, args ...any) {
	p.line(mutedStyle, "", format, args...)
}

// Bullet prints an indented list item in the given tone.
func (p *Printer) Bullet(tone Tone, format string, args ...any) {
	p.line(tone.style(), "   • ", format, args...)
}

// Plain prints an unstyled line.
func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) line(s lipgloss.Style, prefix, format string, args ...any) {
	fmt.Fprintln(p.out, s.Render(prefix+fmt.Sprintf(format, args...)))
}

// Tone selects the color of a line.
type Tone int

const (
	ToneMuted Tone = iota
	ToneSuccess
	ToneWarn
	ToneError
	ToneInfo
)

func (t Tone) style() lipgloss.Style {
	switch t {
	case ToneSuccess:
		return successStyle
	case ToneWarn:
		return warnStyle
	case ToneError:
		return errorStyle
	case ToneInfo:
		return infoStyle
	default:
		return mutedStyle
	}
}
