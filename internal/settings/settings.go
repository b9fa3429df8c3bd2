// Package settings holds the per-user integer settings the battery text
// reacts to, and the stores that serve and observe them.
package settings

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ErrUnknownKey is returned for keys outside the known setting set.
var ErrUnknownKey = errors.New("unknown setting key")

// Setting keys.
const (
	KeyPercentStyle    = "status_bar_battery_status_percent_style"
	KeyMeterStyle      = "status_bar_battery_status_style"
	KeyTextColor       = "status_bar_battery_status_text_color"
	KeyHeaderTextColor = "status_bar_expanded_header_text_color"
)

// Percent text modes stored under KeyPercentStyle.
const (
	PercentageModeOff     = 0
	PercentageModeInside  = 1
	PercentageModeOutside = 2
)

// Battery meter styles stored under KeyMeterStyle. Only Text and Gone
// change whether the percentage is shown.
const (
	MeterStylePortrait  = 0
	MeterStyleLandscape = 1
	MeterStyleCircle    = 2
	MeterStyleText      = 3
	MeterStyleGone      = 4
)

// Fallbacks used when a key has no stored value.
const (
	DefaultPercentStyle = PercentageModeOutside
	DefaultMeterStyle   = MeterStylePortrait
	DefaultTextColor    = 0xFFFFFFFF
)

var colorKeys = map[string]bool{
	KeyTextColor:       true,
	KeyHeaderTextColor: true,
}

// Keys lists every known setting key, sorted.
func Keys() []string {
	return []string{KeyPercentStyle, KeyMeterStyle, KeyTextColor, KeyHeaderTextColor}
}

// Known reports whether key is one of Keys.
func Known(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// DefaultFor returns the fallback of key.
func DefaultFor(key string) (int, error) {
	switch key {
	case KeyPercentStyle:
		return DefaultPercentStyle, nil
	case KeyMeterStyle:
		return DefaultMeterStyle, nil
	case KeyTextColor, KeyHeaderTextColor:
		return DefaultTextColor, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// IsColor reports whether key holds an ARGB colour.
func IsColor(key string) bool { return colorKeys[key] }

const uriPrefix = "settings://system/"

// URI identifies an observable setting.
type URI string

// URIFor returns the observation handle for key.
func URIFor(key string) URI { return URI(uriPrefix + key) }

// Key returns the setting key named by u.
func (u URI) Key() string { return strings.TrimPrefix(string(u), uriPrefix) }

// Store serves integer settings per user and notifies on change.
// Notifications carry no ordering guarantee relative to other event sources.
type Store interface {
	Int(key string, def int, user int) int
	Watch(uri URI, fn func(URI)) (cancel func())
}

// CurrentUser resolves the user whose settings apply.
type CurrentUser struct{}

// CurrentUserID returns the uid of the running process.
func (CurrentUser) CurrentUserID() int { return os.Getuid() }

// ParseValue parses a decimal integer or a hex colour (#AARRGGBB, #RRGGBB,
// 0xAARRGGBB). Six-digit colours are made opaque.
func ParseValue(s string) (int, error) {
	s = strings.TrimSpace(s)
	hex := ""
	switch {
	case strings.HasPrefix(s, "#"):
		hex = s[1:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		hex = s[2:]
	}
	if hex == "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", s, err)
		}
		return v, nil
	}
	if len(hex) != 6 && len(hex) != 8 {
		return 0, fmt.Errorf("parse %q: want RRGGBB or AARRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	if len(hex) == 6 {
		v |= 0xFF000000
	}
	return int(v), nil
}

// FormatValue renders v the way ParseValue reads it back for key.
func FormatValue(key string, v int) string {
	if IsColor(key) {
		return fmt.Sprintf("#%08X", uint32(v))
	}
	return strconv.Itoa(v)
}

// observers is the URI -> callback registry shared by the stores.
type observers struct {
	mu    sync.Mutex
	next  int
	byURI map[URI]map[int]func(URI)
}

func (o *observers) add(uri URI, fn func(URI)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.byURI == nil {
		o.byURI = make(map[URI]map[int]func(URI))
	}
	if o.byURI[uri] == nil {
		o.byURI[uri] = make(map[int]func(URI))
	}
	id := o.next
	o.next++
	o.byURI[uri][id] = fn

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.byURI[uri], id)
	}
}

func (o *observers) count(uri URI) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.byURI[uri])
}

// notify calls the callbacks registered for uri outside the lock so they may
// add or cancel registrations.
func (o *observers) notify(uri URI) {
	o.mu.Lock()
	ids := make([]int, 0, len(o.byURI[uri]))
	for id := range o.byURI[uri] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(URI), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, o.byURI[uri][id])
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(uri)
	}
}
