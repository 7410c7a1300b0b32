// Package command maps key identifiers to robot commands. A Dispatcher holds an
// immutable binding table, invokes the handler bound to a key against a robot
// Controller and reports the Effect of the invocation.
package command

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/mfulz/pigeist/interfaces"
	"github.com/mfulz/pigeist/internal/logging"
)

// HandlerFunc is the shape shared by every key handler.
type HandlerFunc func(ctx context.Context) (Effect, error)

// Speeds are the two speed tiers, in degrees per second.
type Speeds struct {
	Straight int `mapstructure:"straight" yaml:"straight"`
	Turn     int `mapstructure:"turn" yaml:"turn"`
}

// DefaultSpeeds returns the stock speed tiers.
func DefaultSpeeds() Speeds {
	return Speeds{Straight: 10000, Turn: 300}
}

// Options tune a Dispatcher. Zero values select defaults.
type Options struct {
	Speeds Speeds
	// Rand drives eye color sampling.
	Rand *rand.Rand
	// Sleep pauses choreography between steps. It must return ctx.Err()
	// when ctx is done before d elapses.
	Sleep func(ctx context.Context, d time.Duration) error
}

type entry struct {
	binding Binding
	handler HandlerFunc // nil when the handler name is unknown
}

// Dispatcher resolves keys to handlers and runs them. It is not safe for
// concurrent use; callers serving several clients must serialize Dispatch.
type Dispatcher struct {
	ctrl   interfaces.Controller
	keymap Keymap
	table  map[string]entry
	speeds Speeds
	rng    *rand.Rand
	sleep  func(ctx context.Context, d time.Duration) error
	state  State
}

// New builds a Dispatcher for the keymap. The keymap must validate; bindings
// naming an unknown handler are kept but dispatch as EffectNothing.
func New(ctrl interfaces.Controller, km Keymap, opts Options) (*Dispatcher, error) {
	if ctrl == nil {
		return nil, ErrNoController
	}
	if err := km.Validate(); err != nil {
		return nil, err
	}

	d := &Dispatcher{
		ctrl:   ctrl,
		keymap: km,
		table:  make(map[string]entry, len(km.Bindings)),
		speeds: opts.Speeds,
		rng:    opts.Rand,
		sleep:  opts.Sleep,
	}
	defaults := DefaultSpeeds()
	if d.speeds.Straight == 0 {
		d.speeds.Straight = defaults.Straight
	}
	if d.speeds.Turn == 0 {
		d.speeds.Turn = defaults.Turn
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	if d.sleep == nil {
		d.sleep = sleepContext
	}

	handlers := d.handlers()
	for _, b := range km.Bindings {
		fn, ok := handlers[b.Handler]
		if !ok {
			logging.Log.Warnf("[command] Key %q bound to unknown handler %q; it will be ignored (known: %s)",
				b.Key, b.Handler, strings.Join(HandlerNames(), ", "))
		}
		d.table[b.Key] = entry{binding: b, handler: fn}
	}

	return d, nil
}

// Dispatch runs the handler bound to key and returns its effect.
// Unbound keys and unknown handlers yield EffectNothing without error.
// Controller errors are returned unchanged.
func (d *Dispatcher) Dispatch(ctx context.Context, key string) (Effect, error) {
	e, ok := d.table[key]
	if !ok || e.handler == nil {
		logging.Log.Debugf("[command] Ignoring key %q", key)
		return EffectNothing, nil
	}

	logging.Log.Debugf("[command] Key %q -> %s", key, e.binding.Handler)
	effect, err := e.handler(ctx)
	if err != nil {
		return EffectNothing, err
	}
	return effect, nil
}

// Lookup returns the binding for key.
func (d *Dispatcher) Lookup(key string) (Binding, bool) {
	e, ok := d.table[key]
	return e.binding, ok
}

// Keymap returns the keymap the dispatcher was built from.
func (d *Dispatcher) Keymap() Keymap {
	return d.keymap
}

// State returns a snapshot of the toggle flags.
func (d *Dispatcher) State() State {
	return d.state
}

// HandlerNames returns the sorted names of all built-in handlers.
func HandlerNames() []string {
	var d Dispatcher
	handlers := d.handlers()
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *Dispatcher) randomColor() interfaces.RGB {
	return interfaces.RGB{
		R: uint8(d.rng.IntN(256)),
		G: uint8(d.rng.IntN(256)),
		B: uint8(d.rng.IntN(256)),
	}
}
