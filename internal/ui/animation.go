package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"batterytext/internal/indicator"
)

// Scheduler runs transitions on fyne's animation loop, which ticks on the
// fyne goroutine.
type Scheduler struct{}

func (Scheduler) NewAnimation(d time.Duration, tick func(float32), done func()) indicator.Animation {
	a := &animation{}
	a.anim = fyne.NewAnimation(d, func(fraction float32) {
		tick(fraction)
		if fraction >= 1 {
			done()
		}
	})
	a.anim.Curve = fyne.AnimationLinear
	return a
}

type animation struct {
	anim *fyne.Animation
}

// Start restarts the transition from the beginning.
func (a *animation) Start() {
	a.anim.Stop()
	a.anim.Start()
}

func (a *animation) Stop() { a.anim.Stop() }

// ThemeResources reads the text size from the current fyne theme, scaled.
type ThemeResources struct {
	Scale float32
}

func (r ThemeResources) TextSize() float32 {
	scale := r.Scale
	if scale <= 0 {
		scale = 1
	}
	return theme.Size(theme.SizeNameText) * scale
}
