package indicator

import (
	"time"

	"batterytext/internal/settings"
)

// Color is a packed 0xAARRGGBB colour.
type Color uint32

// ARGB unpacks the channels.
func (c Color) ARGB() (a, r, g, b uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// RGBA implements color.Color with alpha-premultiplied 16-bit channels.
func (c Color) RGBA() (r, g, b, a uint32) {
	ca, cr, cg, cb := c.ARGB()
	a = uint32(ca) * 0x101
	r = uint32(cr) * 0x101 * a / 0xffff
	g = uint32(cg) * 0x101 * a / 0xffff
	b = uint32(cb) * 0x101 * a / 0xffff
	return r, g, b, a
}

func argb(a, r, g, b uint8) Color {
	return Color(a)<<24 | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// Blend interpolates each channel linearly from `from` towards `to` by ratio,
// truncating toward zero. Ratio is clamped to [0, 1].
func Blend(from, to Color, ratio float32) Color {
	switch {
	case ratio <= 0:
		return from
	case ratio >= 1:
		return to
	}
	inverse := 1 - ratio
	fa, fr, fg, fb := from.ARGB()
	ta, tr, tg, tb := to.ARGB()
	mix := func(f, t uint8) uint8 {
		return uint8(float32(t)*ratio + float32(f)*inverse)
	}
	return argb(mix(fa, ta), mix(fr, tr), mix(fg, tg), mix(fb, tb))
}

// Colour transition constants.
const (
	TransitionDuration = 500 * time.Millisecond
	// LowBatteryLevel is the level at or below which colour changes snap.
	LowBatteryLevel = 16
)

// Animation is a restartable timed transition. Start while running restarts
// it from fraction 0.
type Animation interface {
	Start()
	Stop()
}

// Scheduler creates animations that call tick with the fractional progress
// (0..1) on the widget's event context and done once the last tick ran.
type Scheduler interface {
	NewAnimation(d time.Duration, tick func(fraction float32), done func()) Animation
}

// setTextColor implements the colour half of SetTextColor.
func (w *Widget) setTextColor(header bool) {
	if header {
		c := Color(w.store.Int(settings.KeyHeaderTextColor, settings.DefaultTextColor, w.users.CurrentUserID()))
		w.transition.Stop()
		w.applyColor(c)
		return
	}

	w.newColor = Color(w.store.Int(settings.KeyTextColor, settings.DefaultTextColor, w.users.CurrentUserID()))
	if !w.batteryCharging && w.batteryLevel > LowBatteryLevel {
		if w.oldColor != w.newColor {
			w.log.Debug().
				Str("from", hexColor(w.oldColor)).
				Str("to", hexColor(w.newColor)).
				Msg("starting colour transition")
			w.transition.Start()
			return
		}
		if w.applied != w.newColor {
			w.applyColor(w.newColor)
		}
		return
	}

	// Charging or low battery: no animation.
	w.transition.Stop()
	w.oldColor = w.newColor
	if w.applied != w.newColor {
		w.applyColor(w.newColor)
	}
}

func (w *Widget) applyColor(c Color) {
	w.applied = c
	w.view.SetTextColor(c)
}

func (w *Widget) onTransitionTick(fraction float32) {
	w.applyColor(Blend(w.oldColor, w.newColor, fraction))
}

func (w *Widget) onTransitionEnd() {
	w.oldColor = w.newColor
}
