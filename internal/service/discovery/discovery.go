// Package discovery finds the power supplies exposed under /sys/class/power_supply.
package discovery

import (
	"path/filepath"
	"sort"

	"batterytext/internal/sysfs"
)

// PowerSupplyRoot is where the kernel lists power supplies.
const PowerSupplyRoot = "/sys/class/power_supply"

// FindBatteries returns the system batteries, sorted. Batteries with
// scope "Device" belong to peripherals (game controllers, mice) and are
// skipped.
func FindBatteries() ([]string, error) {
	return find(func(dir, kind string) bool {
		if kind != "Battery" {
			return false
		}
		scope, err := sysfs.ReadString(filepath.Join(dir, "scope"))
		return err != nil || scope != "Device"
	})
}

// FindChargers returns the mains and USB supplies, sorted.
func FindChargers() ([]string, error) {
	return find(func(_, kind string) bool {
		return kind == "Mains" || kind == "USB"
	})
}

func find(keep func(dir, kind string) bool) ([]string, error) {
	var found []string
	matches, err := sysfs.FS.Glob(filepath.Join(PowerSupplyRoot, "*"))
	if err != nil {
		return found, err
	}
	for _, dir := range matches {
		kind, err := sysfs.ReadString(filepath.Join(dir, "type"))
		if err != nil {
			continue
		}
		if keep(dir, kind) {
			found = append(found, dir)
		}
	}
	sort.Strings(found)
	return found, nil
}
