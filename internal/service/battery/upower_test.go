package battery

import (
	"context"
	"fmt"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestUPowerState(t *testing.T) {
	tests := []struct {
		name     string
		present  bool
		percent  float64
		devState uint32
		want     State
	}{
		{"charging", true, 41.6, upowerCharging, State{Present: true, Level: 42, PluggedIn: true, Charging: true}},
		{"discharging", true, 80, 2, State{Present: true, Level: 80}},
		{"full", true, 100, upowerFullyCharged, State{Present: true, Level: 100, PluggedIn: true}},
		{"pending charge", true, 60, upowerPendingCharge, State{Present: true, Level: 60, PluggedIn: true}},
		{"no battery", false, 0, 0, State{}},
		{"clamped", true, 130, 2, State{Present: true, Level: 100}},
	}

	for _, tt := range tests {
		if got := upowerState(tt.present, tt.percent, tt.devState); got != tt.want {
			t.Errorf("%s: got %+v want %+v", tt.name, got, tt.want)
		}
	}
}

func TestUPowerReaderBusError(t *testing.T) {
	old := ConnectSystemBus
	// override to return an error (avoid calling system bus in tests)
	ConnectSystemBus = func(_ ...dbus.ConnOption) (*dbus.Conn, error) { return nil, fmt.Errorf("no bus available") }
	defer func() { ConnectSystemBus = old }()

	r := &UPowerReader{}
	if _, err := r.Read(context.Background()); err == nil {
		t.Fatalf("expected error from Read when bus unavailable")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close without connection: %v", err)
	}
}
