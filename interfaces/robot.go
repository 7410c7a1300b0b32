// Package interfaces defines extensible interfaces for robot backend implementations.
// Each backend (e.g., simulator, vendor SDK bridge) must implement Controller and
// register a Factory under a unique name.
package interfaces

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownBackend is returned when no backend is registered under a requested name.
var ErrUnknownBackend = errors.New("unknown robot backend")

// LED indices of the two blinkers on the robot body.
const (
	LedRightBlinker = 0
	LedLeftBlinker  = 1
)

// RGB is an eye color. Each channel ranges over [0,255].
type RGB struct {
	R, G, B uint8
}

// Controller is the hardware-facing capability the command layer drives.
// Implementations own motor, LED and eye control; callers only issue commands.
type Controller interface {
	// SetSpeed sets the motor speed limit in degrees per second for subsequent moves.
	SetSpeed(dps int) error

	Forward() error
	Backward() error
	// Steer drives both wheels with the given power percentages (-100..100).
	Steer(left, right int) error
	Stop() error

	// DriveCm, DriveInches and DriveDegrees block until the bounded move completes
	// or ctx is done.
	DriveCm(ctx context.Context, cm float64) error
	DriveInches(ctx context.Context, inches float64) error
	DriveDegrees(ctx context.Context, degrees float64) error

	LedOn(index int) error
	LedOff(index int) error

	OpenLeftEye() error
	OpenRightEye() error
	OpenEyes() error
	CloseLeftEye() error
	CloseRightEye() error
	CloseEyes() error
	SetEyeColor(color RGB) error
}

// Factory builds a Controller from backend-specific options taken from the
// `robot.options` config section.
type Factory func(options map[string]any) (Controller, error)

var (
	backendsMu         sync.RWMutex
	registeredBackends = make(map[string]Factory)
)

// RegisterBackend adds a new backend factory to the global registry under a unique name.
func RegisterBackend(name string, factory Factory) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	if _, exists := registeredBackends[name]; exists {
		panic(fmt.Sprintf("robot backend already registered: %s", name))
	}
	registeredBackends[name] = factory
}

// NewController builds a Controller using the backend registered under name.
func NewController(name string, options map[string]any) (Controller, error) {
	backendsMu.RLock()
	factory, ok := registeredBackends[name]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
	return factory(options)
}

// Backends returns the sorted names of all registered backends.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(registeredBackends))
	for name := range registeredBackends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
