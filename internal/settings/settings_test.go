package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURIRoundTrip(t *testing.T) {
	uri := URIFor(KeyMeterStyle)
	assert.Equal(t, URI("settings://system/status_bar_battery_status_style"), uri)
	assert.Equal(t, KeyMeterStyle, uri.Key())
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2", 2, true},
		{" 4 ", 4, true},
		{"#FF0000", 0xFFFF0000, true},
		{"#80FF0000", 0x80FF0000, true},
		{"0xFFFFFFFF", 0xFFFFFFFF, true},
		{"#ff00ff00", 0xFF00FF00, true},
		{"#FFF", 0, false},
		{"GARBAGE", 0, false},
		{"#GGGGGG", 0, false},
	}

	for _, tt := range tests {
		got, err := ParseValue(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "#FF00FF00", FormatValue(KeyTextColor, 0xFF00FF00))
	assert.Equal(t, "3", FormatValue(KeyMeterStyle, 3))
}

func TestKnown(t *testing.T) {
	for _, k := range Keys() {
		assert.True(t, Known(k), k)
	}
	assert.False(t, Known("status_bar_clock"))
}

func TestMemoryDefaultsAndPut(t *testing.T) {
	m := NewMemory()
	assert.Equal(t, DefaultPercentStyle, m.Int(KeyPercentStyle, DefaultPercentStyle, 0))

	m.Put(10, KeyPercentStyle, PercentageModeInside)
	assert.Equal(t, PercentageModeInside, m.Int(KeyPercentStyle, DefaultPercentStyle, 10))
	assert.Equal(t, DefaultPercentStyle, m.Int(KeyPercentStyle, DefaultPercentStyle, 11), "other users keep the default")
}

func TestMemoryWatchAndCancel(t *testing.T) {
	m := NewMemory()
	var got []URI
	cancel := m.Watch(URIFor(KeyMeterStyle), func(u URI) { got = append(got, u) })

	m.Put(0, KeyMeterStyle, MeterStyleText)
	m.Put(0, KeyTextColor, 0xFF000000)
	require.Equal(t, []URI{URIFor(KeyMeterStyle)}, got)

	cancel()
	cancel()
	m.Put(0, KeyMeterStyle, MeterStyleGone)
	assert.Len(t, got, 1)
	assert.Equal(t, 0, m.Watchers(URIFor(KeyMeterStyle)))
}

func TestObserverMayCancelDuringNotify(t *testing.T) {
	m := NewMemory()
	calls := 0
	var cancel func()
	cancel = m.Watch(URIFor(KeyPercentStyle), func(URI) {
		calls++
		cancel()
	})

	m.Put(0, KeyPercentStyle, 1)
	m.Put(0, KeyPercentStyle, 2)
	assert.Equal(t, 1, calls)
}

func TestDefaultFor(t *testing.T) {
	tests := []struct {
		key  string
		want int
	}{
		{KeyPercentStyle, PercentageModeOutside},
		{KeyMeterStyle, MeterStylePortrait},
		{KeyTextColor, 0xFFFFFFFF},
		{KeyHeaderTextColor, 0xFFFFFFFF},
	}
	for _, tt := range tests {
		got, err := DefaultFor(tt.key)
		require.NoError(t, err, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}

	_, err := DefaultFor("status_bar_clock")
	assert.ErrorIs(t, err, ErrUnknownKey)
}
