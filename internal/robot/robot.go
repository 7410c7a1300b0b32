// Package robot assembles a robot Controller and its key Dispatcher from
// configuration. Both pigeistd and the local mode of pigeistctl use it.
package robot

import (
	"fmt"

	"github.com/mfulz/pigeist/interfaces"
	"github.com/mfulz/pigeist/internal/command"
	"github.com/mfulz/pigeist/internal/logging"
)

// DefaultBackend is used when the config names no backend.
const DefaultBackend = "sim"

// Config selects and tunes the robot backend.
type Config struct {
	Backend string         `mapstructure:"backend"`
	Options map[string]any `mapstructure:"options"`
	Speeds  command.Speeds `mapstructure:"speeds"`
}

// KeymapConfig either points at a YAML keymap file or lists bindings inline.
// With neither, the built-in keymap is used.
type KeymapConfig struct {
	File     string            `mapstructure:"file"`
	Bindings []command.Binding `mapstructure:"bindings"`
	Order    []string          `mapstructure:"order"`
}

// Resolve returns the effective keymap.
func (k KeymapConfig) Resolve() (command.Keymap, error) {
	switch {
	case k.File != "":
		return command.LoadKeymapFile(k.File)
	case len(k.Bindings) > 0:
		km := command.Keymap{Bindings: k.Bindings, Order: k.Order}
		if len(km.Order) == 0 {
			for _, b := range km.Bindings {
				km.Order = append(km.Order, b.Key)
			}
		}
		return km, nil
	default:
		return command.DefaultKeymap(), nil
	}
}

// Robot bundles the controller with the dispatcher driving it.
type Robot struct {
	Backend    string
	Controller interfaces.Controller
	Dispatcher *command.Dispatcher
}

// New builds the controller named in cfg and a dispatcher over the resolved
// keymap. A keymap whose menu order lists unbound keys is rejected here.
func New(cfg Config, km KeymapConfig) (*Robot, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = DefaultBackend
	}

	ctrl, err := interfaces.NewController(backend, cfg.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to create robot backend '%s': %w", backend, err)
	}

	keymap, err := km.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to load keymap: %w", err)
	}

	d, err := command.New(ctrl, keymap, command.Options{Speeds: cfg.Speeds})
	if err != nil {
		return nil, fmt.Errorf("invalid keymap: %w", err)
	}

	logging.Log.Infof("[robot] Backend '%s' ready with %d key bindings", backend, len(keymap.Bindings))
	return &Robot{Backend: backend, Controller: ctrl, Dispatcher: d}, nil
}

// Shutdown stops the wheels and closes the eyes. Both calls are attempted;
// the first error is returned.
func (r *Robot) Shutdown() error {
	stopErr := r.Controller.Stop()
	eyesErr := r.Controller.CloseEyes()
	if stopErr != nil {
		return fmt.Errorf("failed to stop robot: %w", stopErr)
	}
	if eyesErr != nil {
		return fmt.Errorf("failed to close eyes: %w", eyesErr)
	}
	return nil
}
