package battery

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Controller polls a Reader and notifies callbacks when the reading changes.
// Callbacks are invoked through the dispatcher, never from the polling
// goroutine directly.
type Controller struct {
	reader   Reader
	interval time.Duration
	dispatch func(func())
	log      zerolog.Logger

	mu        sync.Mutex
	callbacks []StateChangeCallback
	last      State
	known     bool
}

var _ StateRegistrar = (*Controller)(nil)

// Option configures a Controller.
type Option func(*Controller)

// WithInterval sets the poll interval (default 2s).
func WithInterval(d time.Duration) Option {
	return func(c *Controller) { c.interval = d }
}

// WithDispatcher routes callback invocations, typically onto the UI thread.
func WithDispatcher(dispatch func(func())) Option {
	return func(c *Controller) { c.dispatch = dispatch }
}

// WithLogger sets the controller logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// NewController returns a controller over r.
func NewController(r Reader, opts ...Option) *Controller {
	c := &Controller{
		reader:   r,
		interval: 2 * time.Second,
		dispatch: func(fn func()) { fn() },
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddStateChangedCallback registers cb once and replays the last reading to it.
func (c *Controller) AddStateChangedCallback(cb StateChangeCallback) {
	c.mu.Lock()
	if slices.Contains(c.callbacks, cb) {
		c.mu.Unlock()
		return
	}
	c.callbacks = append(c.callbacks, cb)
	st, known := c.last, c.known
	c.mu.Unlock()

	if known {
		c.dispatch(func() {
			cb.OnBatteryLevelChanged(st.Present, st.Level, st.PluggedIn, st.Charging)
		})
	}
}

// RemoveStateChangedCallback unregisters cb.
func (c *Controller) RemoveStateChangedCallback(cb StateChangeCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = slices.DeleteFunc(c.callbacks, func(x StateChangeCallback) bool { return x == cb })
}

// Callbacks returns the number of registered callbacks.
func (c *Controller) Callbacks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.callbacks)
}

// Last returns the latest reading, if any.
func (c *Controller) Last() (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.known
}

// Poll takes one reading and notifies callbacks if it changed. A failed
// read is reported as an absent battery at the last known level.
func (c *Controller) Poll(ctx context.Context) {
	st, err := c.reader.Read(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("battery read failed")
		c.mu.Lock()
		st = State{Level: c.last.Level}
		c.mu.Unlock()
	}
	c.update(st)
}

func (c *Controller) update(st State) {
	c.mu.Lock()
	changed := !c.known || st != c.last
	powerSave := c.known && st.PowerSave != c.last.PowerSave
	c.last, c.known = st, true
	cbs := slices.Clone(c.callbacks)
	c.mu.Unlock()

	if !changed || len(cbs) == 0 {
		return
	}
	c.log.Debug().
		Bool("present", st.Present).
		Int("level", st.Level).
		Bool("plugged", st.PluggedIn).
		Bool("charging", st.Charging).
		Msg("battery state")

	c.dispatch(func() {
		for _, cb := range cbs {
			cb.OnBatteryLevelChanged(st.Present, st.Level, st.PluggedIn, st.Charging)
			if powerSave {
				cb.OnPowerSaveChanged()
			}
		}
	})
}

// Run polls until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	c.log.Debug().Dur("interval", c.interval).Msg("starting battery loop")
	defer c.log.Debug().Msg("stopping battery loop")

	c.Poll(ctx)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.Poll(ctx)
		}
	}
}
