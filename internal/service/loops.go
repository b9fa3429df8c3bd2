// Package service runs the background loops feeding the battery text: the
// battery poller and the settings file watcher.
package service

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"batterytext/internal/config"
	"batterytext/internal/logging"
	"batterytext/internal/service/battery"
	"batterytext/internal/service/discovery"
)

// Watcher is a loop that observes an external resource until ctx is done.
type Watcher interface {
	Run(ctx context.Context) error
}

// NewReader returns the battery reader selected by conf.Source.
func NewReader(ctx context.Context, conf *config.Config) (battery.Reader, error) {
	log := logging.FromContext(ctx)

	switch conf.Source {
	case config.SourceSysfs, "":
		batteries, err := discovery.FindBatteries()
		if err != nil {
			return nil, fmt.Errorf("find batteries: %w", err)
		}
		if len(batteries) == 0 {
			log.Warn().Msg("no battery found in sysfs, the text stays hidden until one appears")
			return battery.SysfsReader{}, nil
		}
		log.Debug().Str("battery", batteries[0]).Msg("using sysfs battery")
		return battery.SysfsReader{Battery: batteries[0]}, nil
	case config.SourceUPower:
		return &battery.UPowerReader{}, nil
	case config.SourceSimulator:
		return battery.NewSimulator(50, false), nil
	default:
		return nil, fmt.Errorf("%w: unknown source %q", config.ErrInvalid, conf.Source)
	}
}

// CloseReader releases readers holding a connection.
func CloseReader(r battery.Reader) error {
	if c, ok := r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Run polls the battery through ctl and, when store is not nil, watches the
// settings store. It returns when ctx is done or either loop fails.
func Run(ctx context.Context, ctl *battery.Controller, store Watcher) error {
	log := logging.FromContext(ctx)
	log.Debug().Msg("starting service loops")
	defer log.Debug().Msg("service loops stopped")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ctl.Run(ctx)
	})
	if store != nil {
		g.Go(func() error {
			if err := store.Run(ctx); err != nil {
				return fmt.Errorf("settings watcher: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// EventLoop serialises callbacks onto the goroutine running Run. It stands
// in for the UI thread in CLI mode.
type EventLoop struct {
	events chan func()
	done   chan struct{}
}

// NewEventLoop returns a loop buffering up to size pending callbacks.
func NewEventLoop(size int) *EventLoop {
	return &EventLoop{
		events: make(chan func(), size),
		done:   make(chan struct{}),
	}
}

// Dispatch queues fn. Callbacks queued after Run returned are dropped.
func (l *EventLoop) Dispatch(fn func()) {
	select {
	case l.events <- fn:
	case <-l.done:
	}
}

// Run executes queued callbacks in order until ctx is done.
func (l *EventLoop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.events:
			fn()
		}
	}
}
