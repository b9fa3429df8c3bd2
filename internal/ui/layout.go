package ui

import (
	"image/color"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"batterytext/internal/config"
	"batterytext/internal/indicator"
	"batterytext/internal/service/battery"
	"batterytext/internal/settings"
)

// SettingsStore is a settings.Store that can also persist values.
type SettingsStore interface {
	settings.Store
	Put(user int, key string, value int) error
}

// AppState holds the bindings shown next to the battery text.
type AppState struct {
	StatusText   binding.String
	BatteryValue binding.Float
}

var _ battery.StateChangeCallback = (*AppState)(nil)

// NewAppState returns unset bindings.
func NewAppState() *AppState {
	s := &AppState{
		StatusText:   binding.NewString(),
		BatteryValue: binding.NewFloat(),
	}
	_ = s.StatusText.Set("Waiting for battery...")
	return s
}

func (s *AppState) OnBatteryLevelChanged(present bool, level int, pluggedIn, charging bool) {
	status := "On battery"
	switch {
	case !present:
		status = "No battery"
	case charging:
		status = "Charging"
	case pluggedIn:
		status = "Plugged in"
	}
	_ = s.StatusText.Set(status)
	_ = s.BatteryValue.Set(float64(level) / 100.0)
}

func (s *AppState) OnPowerSaveChanged() {}

var percentOptions = map[int]string{
	settings.PercentageModeOff:     "Off",
	settings.PercentageModeInside:  "While charging",
	settings.PercentageModeOutside: "Always",
}

var meterOptions = map[int]string{
	settings.MeterStylePortrait:  "Portrait",
	settings.MeterStyleLandscape: "Landscape",
	settings.MeterStyleCircle:    "Circle",
	settings.MeterStyleText:      "Text only",
	settings.MeterStyleGone:      "Hidden",
}

var visibilityOptions = map[indicator.Visibility]string{
	indicator.Visible:   "Visible",
	indicator.Invisible: "Invisible",
	indicator.Gone:      "Gone",
}

// Panel is the settings window around the battery text.
type Panel struct {
	Widget   *indicator.Widget
	View     *TextView
	State    *AppState
	Store    SettingsStore
	Users    indicator.UserResolver
	Conf     *config.Config
	ConfPath string
	Log      zerolog.Logger

	percentSelect    *widget.Select
	meterSelect      *widget.Select
	visibilitySelect *widget.Select
	colorEntry       *widget.Entry
	forceCheck       *widget.Check
	headerCheck      *widget.Check
}

func (p *Panel) saveConf() {
	if p.ConfPath == "" {
		return
	}
	if err := config.Save(p.ConfPath, p.Conf); err != nil {
		p.Log.Error().Err(err).Msg("Error saving configuration")
	}
}

func (p *Panel) put(key string, value int) {
	if err := p.Store.Put(p.Users.CurrentUserID(), key, value); err != nil {
		p.Log.Error().Err(err).Str("key", key).Msg("Error saving setting")
	}
}

func optionNames[K comparable](options map[K]string, order []K) []string {
	names := make([]string, 0, len(order))
	for _, k := range order {
		names = append(names, options[k])
	}
	return names
}

func optionKey[K comparable](options map[K]string, name string) (K, bool) {
	for k, v := range options {
		if v == name {
			return k, true
		}
	}
	var zero K
	return zero, false
}

// CreateContent builds the window content. header tracks the colour context
// chosen with the header checkbox.
func (p *Panel) CreateContent(header *Header) fyne.CanvasObject {
	user := p.Users.CurrentUserID()

	p.percentSelect = widget.NewSelect(optionNames(percentOptions, []int{
		settings.PercentageModeOff, settings.PercentageModeInside, settings.PercentageModeOutside,
	}), nil)
	p.percentSelect.SetSelected(percentOptions[p.Store.Int(settings.KeyPercentStyle, settings.DefaultPercentStyle, user)])
	p.percentSelect.OnChanged = func(selected string) {
		if mode, ok := optionKey(percentOptions, selected); ok {
			p.put(settings.KeyPercentStyle, mode)
		}
	}

	p.meterSelect = widget.NewSelect(optionNames(meterOptions, []int{
		settings.MeterStylePortrait, settings.MeterStyleLandscape, settings.MeterStyleCircle,
		settings.MeterStyleText, settings.MeterStyleGone,
	}), nil)
	p.meterSelect.SetSelected(meterOptions[p.Store.Int(settings.KeyMeterStyle, settings.DefaultMeterStyle, user)])
	p.meterSelect.OnChanged = func(selected string) {
		if style, ok := optionKey(meterOptions, selected); ok {
			p.put(settings.KeyMeterStyle, style)
		}
	}

	p.visibilitySelect = widget.NewSelect(optionNames(visibilityOptions, []indicator.Visibility{
		indicator.Visible, indicator.Invisible, indicator.Gone,
	}), func(selected string) {
		if v, ok := optionKey(visibilityOptions, selected); ok {
			p.Widget.SetVisibility(v)
		}
	})
	p.visibilitySelect.SetSelected(visibilityOptions[p.Widget.Snapshot().Requested])

	p.colorEntry = widget.NewEntry()
	p.colorEntry.SetPlaceHolder("#FFFFFFFF")
	p.colorEntry.SetText(settings.FormatValue(settings.KeyTextColor,
		p.Store.Int(settings.KeyTextColor, settings.DefaultTextColor, user)))

	validationLabel := canvas.NewText("Invalid colour (#RRGGBB or #AARRGGBB)", color.RGBA{R: 0xFF, A: 0xFF})
	validationLabel.TextSize = 12
	validationLabel.Hide()

	var saveTimer *time.Timer
	const saveDebounce = 800 * time.Millisecond
	p.colorEntry.OnChanged = func(s string) {
		norm := strings.ToUpper(strings.TrimSpace(s))
		value, err := settings.ParseValue(norm)
		if err != nil || !strings.HasPrefix(norm, "#") {
			validationLabel.Show()
			if saveTimer != nil {
				saveTimer.Stop()
				saveTimer = nil
			}
			return
		}
		validationLabel.Hide()

		if saveTimer != nil {
			saveTimer.Stop()
		}
		saveTimer = time.AfterFunc(saveDebounce, func() {
			p.put(settings.KeyTextColor, value)
		})
	}

	p.forceCheck = widget.NewCheck("Always show the percentage", nil)
	p.forceCheck.SetChecked(p.Conf.ForceShow)
	p.forceCheck.OnChanged = func(checked bool) {
		p.Widget.SetForceShown(checked)
		p.Conf.ForceShow = checked
		p.saveConf()
	}

	p.headerCheck = widget.NewCheck("Use header colour", nil)
	p.headerCheck.SetChecked(header.Get())
	p.headerCheck.OnChanged = func(checked bool) {
		header.Set(checked)
		p.Widget.SetTextColor(checked)
		p.Conf.Header = checked
		p.saveConf()
	}

	// The backdrop keeps the text readable whatever colour it takes.
	backdrop := canvas.NewRectangle(color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF})
	backdrop.SetMinSize(fyne.NewSize(120, 48))
	preview := container.NewStack(backdrop, container.NewCenter(p.View.CanvasObject()))

	return container.NewVBox(
		preview,
		widget.NewLabelWithData(p.State.StatusText),
		widget.NewProgressBarWithData(p.State.BatteryValue),
		widget.NewSeparator(),
		container.NewBorder(nil, nil, widget.NewLabel("Percentage :"), nil, p.percentSelect),
		container.NewBorder(nil, nil, widget.NewLabel("Meter :"), nil, p.meterSelect),
		container.NewBorder(nil, nil, widget.NewLabel("Visibility :"), nil, p.visibilitySelect),
		container.NewBorder(nil, nil, widget.NewLabel("Text colour :"), nil, container.NewVBox(p.colorEntry, validationLabel)),
		widget.NewSeparator(),
		p.forceCheck,
		p.headerCheck,
	)
}
