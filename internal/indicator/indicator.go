// Package indicator implements the battery percentage text: which text and
// colour it shows, and whether it is visible at all.
//
// A Widget is driven by three kinds of events: settings-change notifications,
// battery-state callbacks and calls from its owner. All of them, including
// animation ticks, must be delivered on one serialised context (the UI
// thread); the Widget does no locking of its own.
package indicator

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"batterytext/internal/service/battery"
	"batterytext/internal/settings"
)

// Visibility of the underlying view.
type Visibility int

const (
	Visible Visibility = iota
	Invisible
	Gone
)

func (v Visibility) String() string {
	switch v {
	case Visible:
		return "visible"
	case Invisible:
		return "invisible"
	case Gone:
		return "gone"
	default:
		return fmt.Sprintf("Visibility(%d)", int(v))
	}
}

// View is the text element the Widget drives.
type View interface {
	SetText(text string)
	SetTextColor(c Color)
	SetVisibility(v Visibility)
	SetTextSize(size float32)
}

// UserResolver returns the user whose settings apply.
type UserResolver interface {
	CurrentUserID() int
}

// Resources supplies host-dependent dimensions.
type Resources interface {
	TextSize() float32
}

// Option configures a Widget.
type Option func(*Widget)

// WithLogger sets the debug logger.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Widget) { w.log = log }
}

// WithLocale selects the locale used to format the percentage.
func WithLocale(tag language.Tag) Option {
	return func(w *Widget) { w.printer = message.NewPrinter(tag) }
}

// WithResources sets the text size source applied on configuration changes.
func WithResources(r Resources) Option {
	return func(w *Widget) { w.resources = r }
}

// WithVisibility sets the initially requested visibility (Visible by default).
func WithVisibility(v Visibility) Option {
	return func(w *Widget) { w.requested = v }
}

// Widget is the battery level text.
type Widget struct {
	view      View
	store     settings.Store
	users     UserResolver
	resources Resources
	printer   *message.Printer
	log       zerolog.Logger

	registrar battery.StateRegistrar

	batteryPresent  bool
	batteryCharging bool
	batteryLevel    int
	text            string

	show      bool
	forceShow bool
	requested Visibility
	attached  bool
	cancels   []func()

	// At rest oldColor == newColor. applied is the colour last set on the view.
	oldColor   Color
	newColor   Color
	applied    Color
	transition Animation
}

var _ battery.StateChangeCallback = (*Widget)(nil)

// New builds a Widget over view. The colour transition is created here once
// and restarted for every later colour change.
func New(view View, store settings.Store, users UserResolver, sched Scheduler, opts ...Option) *Widget {
	w := &Widget{
		view:      view,
		store:     store,
		users:     users,
		printer:   message.NewPrinter(language.English),
		log:       zerolog.Nop(),
		requested: Visible,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.newColor = Color(store.Int(settings.KeyTextColor, settings.DefaultTextColor, users.CurrentUserID()))
	w.oldColor = w.newColor
	w.applyColor(w.newColor)
	w.transition = sched.NewAnimation(TransitionDuration, w.onTransitionTick, w.onTransitionEnd)

	if w.resources != nil {
		w.view.SetTextSize(w.resources.TextSize())
	}
	w.reloadShowSetting()
	return w
}

// SetForceShown shows the text regardless of the settings, as long as a
// battery source is bound.
func (w *Widget) SetForceShown(force bool) {
	w.forceShow = force
	w.updateVisibility()
}

// SetBatteryStateRegistrar binds the battery source. When the widget is
// already attached the callback is registered immediately.
func (w *Widget) SetBatteryStateRegistrar(r battery.StateRegistrar) {
	if w.attached && w.registrar != nil && w.registrar != r {
		w.registrar.RemoveStateChangedCallback(w)
	}
	prev := w.registrar
	w.registrar = r
	if w.attached && r != nil && r != prev {
		w.registrar.AddStateChangedCallback(w)
	}
	w.updateVisibility()
}

// SetVisibility records the visibility the owner wants. It is applied only
// while the text is allowed to show and is otherwise kept for later.
func (w *Widget) SetVisibility(v Visibility) {
	w.requested = v
	w.updateVisibility()
}

// SetTextColor applies the header colour immediately when header is true,
// otherwise moves towards the battery text colour setting.
func (w *Widget) SetTextColor(header bool) {
	w.setTextColor(header)
}

// OnAttached subscribes to the battery source and to the settings that
// decide visibility. Repeated calls without OnDetached are ignored.
func (w *Widget) OnAttached() {
	if w.attached {
		return
	}
	w.attached = true
	if w.registrar != nil {
		w.registrar.AddStateChangedCallback(w)
	}
	for _, key := range []string{settings.KeyMeterStyle, settings.KeyPercentStyle} {
		w.cancels = append(w.cancels, w.store.Watch(settings.URIFor(key), w.onSettingChanged))
	}
}

// OnDetached undoes OnAttached.
func (w *Widget) OnDetached() {
	if !w.attached {
		return
	}
	w.attached = false
	for _, cancel := range w.cancels {
		cancel()
	}
	w.cancels = nil
	if w.registrar != nil {
		w.registrar.RemoveStateChangedCallback(w)
	}
}

// OnConfigurationChanged re-applies the text size after a host
// configuration change.
func (w *Widget) OnConfigurationChanged() {
	if w.resources != nil {
		w.view.SetTextSize(w.resources.TextSize())
	}
}

// OnBatteryLevelChanged updates the text on every call. The show setting is
// reloaded only when presence or charging flipped.
func (w *Widget) OnBatteryLevelChanged(present bool, level int, pluggedIn, charging bool) {
	w.batteryLevel = level
	w.setText(w.printer.Sprint(number.Percent(float64(level) / 100)))

	if w.batteryPresent != present || w.batteryCharging != charging {
		w.log.Debug().
			Bool("present", present).
			Bool("charging", charging).
			Bool("plugged", pluggedIn).
			Msg("battery state changed")
		w.batteryPresent = present
		w.batteryCharging = charging
		w.reloadShowSetting()
	}
}

// OnPowerSaveChanged is part of the callback contract; power saving does not
// affect the text.
func (w *Widget) OnPowerSaveChanged() {}

func (w *Widget) setText(text string) {
	w.text = text
	w.view.SetText(text)
}

func (w *Widget) onSettingChanged(uri settings.URI) {
	w.log.Debug().Str("key", uri.Key()).Msg("setting changed")
	w.reloadShowSetting()
}

// showPercent reports whether the settings and battery facts call for the
// percentage text.
func showPercent(present, charging bool, mode, meterStyle int) bool {
	show := present && (mode == settings.PercentageModeOutside ||
		(charging && mode == settings.PercentageModeInside))

	switch meterStyle {
	case settings.MeterStyleText:
		show = true
	case settings.MeterStyleGone:
		show = false
	}
	return show
}

func (w *Widget) reloadShowSetting() {
	user := w.users.CurrentUserID()
	mode := w.store.Int(settings.KeyPercentStyle, settings.DefaultPercentStyle, user)
	style := w.store.Int(settings.KeyMeterStyle, settings.DefaultMeterStyle, user)

	w.show = showPercent(w.batteryPresent, w.batteryCharging, mode, style)
	w.updateVisibility()
}

func (w *Widget) updateVisibility() {
	if w.registrar != nil && (w.show || w.forceShow) {
		w.view.SetVisibility(w.requested)
	} else {
		w.view.SetVisibility(Gone)
	}
}

// Snapshot is a read-only copy of the widget state.
type Snapshot struct {
	Present   bool
	Charging  bool
	Level     int
	Text      string
	Show      bool
	ForceShow bool
	Requested Visibility
	Attached  bool
	Bound     bool
	OldColor  Color
	NewColor  Color
}

// Snapshot returns the current state.
func (w *Widget) Snapshot() Snapshot {
	return Snapshot{
		Present:   w.batteryPresent,
		Charging:  w.batteryCharging,
		Level:     w.batteryLevel,
		Text:      w.text,
		Show:      w.show,
		ForceShow: w.forceShow,
		Requested: w.requested,
		Attached:  w.attached,
		Bound:     w.registrar != nil,
		OldColor:  w.oldColor,
		NewColor:  w.newColor,
	}
}

func hexColor(c Color) string { return fmt.Sprintf("#%08X", uint32(c)) }
