package battery

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	upowerDest        = "org.freedesktop.UPower"
	upowerPath        = "/org/freedesktop/UPower"
	upowerDevicePath  = "/org/freedesktop/UPower/devices/DisplayDevice"
	upowerDeviceIface = "org.freedesktop.UPower.Device"

	powerProfilesDest = "net.hadess.PowerProfiles"
	powerProfilesPath = "/net/hadess/PowerProfiles"
)

// UPower device states.
const (
	upowerCharging      = 1
	upowerFullyCharged  = 4
	upowerPendingCharge = 5
)

// ConnectSystemBus is a hook for tests to override D-Bus connection behavior.
var ConnectSystemBus = dbus.ConnectSystemBus

// UPowerReader reads the UPower display device over the system bus. The
// power-saver flag comes from power-profiles-daemon when it is running.
type UPowerReader struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

func (r *UPowerReader) connection() (*dbus.Conn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn != nil && r.conn.Connected() {
		return r.conn, nil
	}
	conn, err := ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}
	r.conn = conn
	return conn, nil
}

// Close releases the bus connection.
func (r *UPowerReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	return err
}

func getProperty(ctx context.Context, obj dbus.BusObject, iface, prop string) (any, error) {
	var v dbus.Variant
	if err := obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, iface, prop).Store(&v); err != nil {
		return nil, fmt.Errorf("get %s.%s: %w", iface, prop, err)
	}
	return v.Value(), nil
}

func (r *UPowerReader) Read(ctx context.Context) (State, error) {
	conn, err := r.connection()
	if err != nil {
		return State{}, err
	}

	dev := conn.Object(upowerDest, upowerDevicePath)
	presentV, err := getProperty(ctx, dev, upowerDeviceIface, "IsPresent")
	if err != nil {
		return State{}, err
	}
	percentV, err := getProperty(ctx, dev, upowerDeviceIface, "Percentage")
	if err != nil {
		return State{}, err
	}
	stateV, err := getProperty(ctx, dev, upowerDeviceIface, "State")
	if err != nil {
		return State{}, err
	}

	present, _ := presentV.(bool)
	percent, _ := percentV.(float64)
	devState, _ := stateV.(uint32)

	st := upowerState(present, percent, devState)

	// OnBattery and the power profile are optional extras.
	if v, err := getProperty(ctx, conn.Object(upowerDest, upowerPath), upowerDest, "OnBattery"); err == nil {
		if onBattery, ok := v.(bool); ok && !onBattery {
			st.PluggedIn = true
		}
	}
	if v, err := getProperty(ctx, conn.Object(powerProfilesDest, powerProfilesPath), powerProfilesDest, "ActiveProfile"); err == nil {
		if profile, ok := v.(string); ok {
			st.PowerSave = profile == "power-saver"
		}
	}
	return st, nil
}

func upowerState(present bool, percent float64, devState uint32) State {
	charging := devState == upowerCharging
	return State{
		Present:   present,
		Level:     int(math.Round(max(0, min(100, percent)))),
		PluggedIn: charging || devState == upowerFullyCharged || devState == upowerPendingCharge,
		Charging:  charging,
	}
}
