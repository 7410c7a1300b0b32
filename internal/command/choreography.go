package command

import (
	"context"
	"errors"
	"time"

	"github.com/mfulz/pigeist/interfaces"
	"github.com/mfulz/pigeist/internal/logging"
)

// Choreography timing and counts.
const (
	serpentineFlashes = 8
	pounceFlashes     = 6
	swerveDelay       = 200 * time.Millisecond
	flashDelay        = 50 * time.Millisecond
)

var (
	colorRed    = interfaces.RGB{R: 255}
	colorYellow = interfaces.RGB{R: 255, G: 255}
)

// step is one blocking action of a choreography routine.
type step func(ctx context.Context) error

// perform runs steps in order. It checks ctx before every step; once ctx is
// done the wheels are stopped and ctx.Err() is returned.
func (d *Dispatcher) perform(ctx context.Context, steps ...step) (Effect, error) {
	for _, s := range steps {
		err := ctx.Err()
		if err == nil {
			err = s(ctx)
		}
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			if stopErr := d.ctrl.Stop(); stopErr != nil {
				logging.Log.Warnf("[command] Failed to stop after interrupted choreography: %v", stopErr)
			}
		}
		return EffectNothing, err
	}
	return EffectMoving, nil
}

func (d *Dispatcher) speed(dps int) step {
	return func(context.Context) error { return d.ctrl.SetSpeed(dps) }
}

func (d *Dispatcher) steer(left, right int) step {
	return func(context.Context) error { return d.ctrl.Steer(left, right) }
}

func (d *Dispatcher) pause(dur time.Duration) step {
	return func(ctx context.Context) error { return d.sleep(ctx, dur) }
}

func (d *Dispatcher) flash(color interfaces.RGB) step {
	return func(context.Context) error { return d.lightColor(color) }
}

// flashRandom lights the eyes in n random colors, pausing after each.
func (d *Dispatcher) flashRandom(n int) step {
	return func(ctx context.Context) error {
		for i := 0; i < n; i++ {
			if err := d.lightColor(d.randomColor()); err != nil {
				return err
			}
			if err := d.sleep(ctx, flashDelay); err != nil {
				return err
			}
		}
		return nil
	}
}

func (d *Dispatcher) lightOn() error {
	if err := d.ctrl.OpenEyes(); err != nil {
		return err
	}
	d.state.EyesOn = true
	return nil
}

func (d *Dispatcher) lightOff() error {
	if err := d.ctrl.CloseEyes(); err != nil {
		return err
	}
	d.state.EyesOn = false
	return nil
}

func (d *Dispatcher) lightColor(color interfaces.RGB) error {
	if err := d.ctrl.SetEyeColor(color); err != nil {
		return err
	}
	return d.lightOn()
}

func (d *Dispatcher) serpentine(ctx context.Context) (Effect, error) {
	return d.perform(ctx,
		d.speed(500),
		d.flash(colorRed),
		d.steer(0, 100),
		d.pause(swerveDelay),
		d.flash(colorYellow),
		d.steer(100, 0),
		d.flashRandom(serpentineFlashes),
		d.flash(colorRed),
		d.steer(0, 100),
		d.pause(swerveDelay),
		d.speed(300),
		d.steer(100, 100),
	)
}

func (d *Dispatcher) pounce(ctx context.Context) (Effect, error) {
	return d.perform(ctx,
		d.speed(100),
		d.steer(-100, -100),
		d.flashRandom(pounceFlashes),
		d.speed(10000),
		d.steer(100, 100),
	)
}

func (d *Dispatcher) escapeLeft(ctx context.Context) (Effect, error) {
	return d.perform(ctx, d.speed(d.speeds.Straight), d.steer(-10, -100))
}

func (d *Dispatcher) escapeRight(ctx context.Context) (Effect, error) {
	return d.perform(ctx, d.speed(d.speeds.Straight), d.steer(-100, -10))
}
