package ui

import (
	"bytes"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batterytext/internal/config"
	"batterytext/internal/indicator"
	"batterytext/internal/settings"
)

const testUser = 1000

type staticUser struct{}

func (staticUser) CurrentUserID() int { return testUser }

type idleAnimation struct{ starts int }

func (a *idleAnimation) Start() { a.starts++ }
func (a *idleAnimation) Stop()  {}

type idleScheduler struct{ anim *idleAnimation }

func (s *idleScheduler) NewAnimation(time.Duration, func(float32), func()) indicator.Animation {
	s.anim = &idleAnimation{}
	return s.anim
}

func TestTextViewVisibility(t *testing.T) {
	test.NewTempApp(t)
	v := NewTextView()
	v.SetText("42%")
	v.SetTextColor(indicator.Color(0xFF112233))

	assert.Equal(t, "42%", v.Text())
	assert.True(t, v.text.Visible())
	assert.Equal(t, indicator.Color(0xFF112233), v.text.Color)

	v.SetVisibility(indicator.Invisible)
	assert.True(t, v.text.Visible(), "invisible text keeps its place")
	assert.Equal(t, color.Transparent, v.text.Color)

	v.SetVisibility(indicator.Gone)
	assert.False(t, v.text.Visible())

	v.SetVisibility(indicator.Visible)
	assert.True(t, v.text.Visible())
	assert.Equal(t, indicator.Color(0xFF112233), v.text.Color)
	assert.Equal(t, indicator.Visible, v.Visibility())
}

func TestThemeResources(t *testing.T) {
	test.NewTempApp(t)
	base := theme.Size(theme.SizeNameText)

	assert.Equal(t, base, ThemeResources{}.TextSize())
	assert.Equal(t, base*2, ThemeResources{Scale: 2}.TextSize())
}

func TestTerminalView(t *testing.T) {
	var out bytes.Buffer
	v := NewTerminalView(&out)

	v.SetText("42%")
	v.SetTextColor(indicator.Color(0xFF00FF00))
	v.SetVisibility(indicator.Visible)
	assert.Equal(t, "42%\n", out.String(), "plain writers get no colour codes and no repeated lines")

	out.Reset()
	v.SetVisibility(indicator.Invisible)
	assert.Equal(t, "   \n", out.String())

	out.Reset()
	v.SetVisibility(indicator.Gone)
	v.SetText("43%")
	assert.Empty(t, out.String())
	assert.Empty(t, v.Render())
}

func TestAppStateStatus(t *testing.T) {
	tests := []struct {
		present, plugged, charging bool
		want                       string
	}{
		{true, true, true, "Charging"},
		{true, true, false, "Plugged in"},
		{true, false, false, "On battery"},
		{false, false, false, "No battery"},
	}

	for _, tt := range tests {
		s := NewAppState()
		s.OnBatteryLevelChanged(tt.present, 42, tt.plugged, tt.charging)
		got, err := s.StatusText.Get()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		level, err := s.BatteryValue.Get()
		require.NoError(t, err)
		assert.InDelta(t, 0.42, level, 1e-9)
	}
}

func TestFollowColors(t *testing.T) {
	test.NewTempApp(t)
	store := settings.NewMemory()
	view := NewTextView()
	w := indicator.New(view, store, staticUser{}, &idleScheduler{})
	header := NewHeader(true)

	cancel := FollowColors(store, w, header)
	store.Put(testUser, settings.KeyHeaderTextColor, 0xFF123456)
	assert.Equal(t, indicator.Color(0xFF123456), view.Color())

	header.Set(false)
	store.Put(testUser, settings.KeyTextColor, 0xFF000000)
	assert.Equal(t, indicator.Color(0xFF000000), view.Color(), "no battery level yet, so the colour snaps")

	cancel()
	assert.Zero(t, store.Watchers(settings.URIFor(settings.KeyTextColor)))
	assert.Zero(t, store.Watchers(settings.URIFor(settings.KeyHeaderTextColor)))
}

func newTestPanel(t *testing.T) (*Panel, *settings.File, string) {
	t.Helper()
	test.NewTempApp(t)
	dir := t.TempDir()
	store, err := settings.OpenFile(filepath.Join(dir, "settings.yaml"))
	require.NoError(t, err)

	confPath := filepath.Join(dir, "config.yaml")
	conf := config.Default()
	view := NewTextView()
	w := indicator.New(view, store, staticUser{}, &idleScheduler{})

	return &Panel{
		Widget:   w,
		View:     view,
		State:    NewAppState(),
		Store:    store,
		Users:    staticUser{},
		Conf:     conf,
		ConfPath: confPath,
		Log:      zerolog.Nop(),
	}, store, confPath
}

func TestPanelControlsDriveWidget(t *testing.T) {
	p, store, confPath := newTestPanel(t)
	header := NewHeader(false)
	w := test.NewWindow(p.CreateContent(header))
	defer w.Close()

	assert.Equal(t, "Always", p.percentSelect.Selected)
	assert.Equal(t, "Portrait", p.meterSelect.Selected)
	assert.Equal(t, "Visible", p.visibilitySelect.Selected)
	assert.Equal(t, "#FFFFFFFF", p.colorEntry.Text)

	p.forceCheck.SetChecked(true)
	assert.True(t, p.Widget.Snapshot().ForceShow)
	saved, err := config.Load(confPath)
	require.NoError(t, err)
	assert.True(t, saved.ForceShow)

	p.visibilitySelect.SetSelected("Invisible")
	assert.Equal(t, indicator.Invisible, p.Widget.Snapshot().Requested)

	p.percentSelect.SetSelected("While charging")
	assert.Equal(t, settings.PercentageModeInside, store.Int(settings.KeyPercentStyle, -1, testUser))

	p.meterSelect.SetSelected("Text only")
	assert.Equal(t, settings.MeterStyleText, store.Int(settings.KeyMeterStyle, -1, testUser))
}

func TestPanelHeaderCheck(t *testing.T) {
	p, store, _ := newTestPanel(t)
	require.NoError(t, store.Put(testUser, settings.KeyHeaderTextColor, 0xFF0000FF))
	header := NewHeader(false)
	w := test.NewWindow(p.CreateContent(header))
	defer w.Close()

	p.headerCheck.SetChecked(true)
	assert.True(t, header.Get())
	assert.True(t, p.Conf.Header)
	assert.Equal(t, indicator.Color(0xFF0000FF), p.View.Color())
}
