package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"batterytext/internal/indicator"
)

// TextView renders the battery text on a fyne canvas. It must be driven from
// the fyne goroutine.
type TextView struct {
	text       *canvas.Text
	color      indicator.Color
	visibility indicator.Visibility
}

var _ indicator.View = (*TextView)(nil)

// NewTextView returns an empty, visible text.
func NewTextView() *TextView {
	t := canvas.NewText("", color.White)
	t.Alignment = fyne.TextAlignCenter
	t.TextStyle = fyne.TextStyle{Bold: true}
	return &TextView{text: t, color: indicator.Color(0xFFFFFFFF)}
}

// CanvasObject returns the object to place in a container.
func (v *TextView) CanvasObject() fyne.CanvasObject { return v.text }

func (v *TextView) SetText(text string) {
	v.text.Text = text
	v.text.Refresh()
}

func (v *TextView) SetTextColor(c indicator.Color) {
	v.color = c
	v.paint()
}

func (v *TextView) SetTextSize(size float32) {
	v.text.TextSize = size
	v.text.Refresh()
}

// SetVisibility hides the text for Gone. Invisible keeps its place in the
// layout and paints it transparent.
func (v *TextView) SetVisibility(vis indicator.Visibility) {
	v.visibility = vis
	if vis == indicator.Gone {
		v.text.Hide()
		return
	}
	v.text.Show()
	v.paint()
}

func (v *TextView) paint() {
	if v.visibility == indicator.Invisible {
		v.text.Color = color.Transparent
	} else {
		v.text.Color = v.color
	}
	v.text.Refresh()
}

// Text returns the displayed text.
func (v *TextView) Text() string { return v.text.Text }

// Visibility returns the applied visibility.
func (v *TextView) Visibility() indicator.Visibility { return v.visibility }

// Color returns the colour last applied.
func (v *TextView) Color() indicator.Color { return v.color }
