package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"batterytext/internal/indicator"
)

// TerminalView prints the battery text as a styled line whenever what it
// would show changes. Nothing is printed while the text is gone. Colour output follows the writer's terminal profile.
type TerminalView struct {
	out      io.Writer
	renderer *lipgloss.Renderer

	text       string
	color      indicator.Color
	visibility indicator.Visibility
	size       float32
	last       string
	printed    bool
}

var _ indicator.View = (*TerminalView)(nil)

// NewTerminalView writes to out.
func NewTerminalView(out io.Writer) *TerminalView {
	return &TerminalView{
		out:      out,
		renderer: lipgloss.NewRenderer(out),
		color:    indicator.Color(0xFFFFFFFF),
	}
}

func (v *TerminalView) SetText(text string) {
	v.text = text
	v.flush()
}

func (v *TerminalView) SetTextColor(c indicator.Color) {
	v.color = c
	v.flush()
}

func (v *TerminalView) SetVisibility(vis indicator.Visibility) {
	v.visibility = vis
	v.flush()
}

// SetTextSize is recorded only; a terminal has one text size.
func (v *TerminalView) SetTextSize(size float32) { v.size = size }

// Render returns the current line without printing it.
func (v *TerminalView) Render() string {
	switch v.visibility {
	case indicator.Gone:
		return ""
	case indicator.Invisible:
		return strings.Repeat(" ", lipgloss.Width(v.text))
	}
	_, r, g, b := v.color.ARGB()
	style := v.renderer.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, b)))
	return style.Render(v.text)
}

func (v *TerminalView) flush() {
	line := v.Render()
	if v.printed && line == v.last {
		return
	}
	v.last, v.printed = line, true
	if line == "" {
		return
	}
	fmt.Fprintln(v.out, line)
}
