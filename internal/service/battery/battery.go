// Package battery reads the system battery and notifies registered callbacks
// of changes.
package battery

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"batterytext/internal/service/discovery"
	"batterytext/internal/sysfs"
)

// ErrNoBattery is returned when no system battery can be found.
var ErrNoBattery = errors.New("battery not found")

// State is one battery reading.
type State struct {
	Present   bool
	Level     int
	PluggedIn bool
	Charging  bool
	PowerSave bool
}

// Reader produces battery readings.
type Reader interface {
	Read(ctx context.Context) (State, error)
}

// SysfsReader reads /sys/class/power_supply. Battery pins a supply
// directory; when empty the first discovered system battery is used.
type SysfsReader struct {
	Battery string
}

func (r SysfsReader) Read(_ context.Context) (State, error) {
	basePath, err := r.batteryPath()
	if err != nil {
		return State{}, err
	}

	present := true
	if p, err := sysfs.ReadBool(filepath.Join(basePath, "present")); err == nil {
		present = p
	}

	level, err := sysfs.ReadInt(filepath.Join(basePath, "capacity"))
	if err != nil {
		return State{}, fmt.Errorf("read capacity: %w", err)
	}
	level = max(0, min(100, level))

	status, _ := sysfs.ReadString(filepath.Join(basePath, "status"))
	charging := status == "Charging"
	plugged := charging || status == "Full" || status == "Not charging"
	if !plugged {
		plugged = chargerOnline()
	}

	return State{
		Present:   present,
		Level:     level,
		PluggedIn: plugged,
		Charging:  charging,
	}, nil
}

func (r SysfsReader) batteryPath() (string, error) {
	if r.Battery != "" {
		return r.Battery, nil
	}
	matches, err := discovery.FindBatteries()
	if err != nil {
		return "", err
	}
	if len(matches) > 0 {
		return matches[0], nil
	}
	return "", ErrNoBattery
}

func chargerOnline() bool {
	chargers, err := discovery.FindChargers()
	if err != nil {
		return false
	}
	for _, dir := range chargers {
		if online, err := sysfs.ReadBool(filepath.Join(dir, "online")); err == nil && online {
			return true
		}
	}
	return false
}
