package backend

import (
	"context"

	"github.com/mfulz/pigeist/interfaces"
	"github.com/mfulz/pigeist/internal/logging"
)

// noop implements Controller as a no-op for hosts without robot hardware.
type noop struct{}

func init() {
	interfaces.RegisterBackend("noop", func(map[string]any) (interfaces.Controller, error) {
		return noop{}, nil
	})
}

func (noop) log(call string, args ...any) error {
	logging.Log.Debugw("[noop] robot control not available", append([]any{"call", call}, args...)...)
	return nil
}

func (n noop) SetSpeed(dps int) error       { return n.log("set_speed", "dps", dps) }
func (n noop) Forward() error               { return n.log("forward") }
func (n noop) Backward() error              { return n.log("backward") }
func (n noop) Steer(left, right int) error  { return n.log("steer", "left", left, "right", right) }
func (n noop) Stop() error                  { return n.log("stop") }
func (n noop) LedOn(index int) error        { return n.log("led_on", "index", index) }
func (n noop) LedOff(index int) error       { return n.log("led_off", "index", index) }
func (n noop) OpenLeftEye() error           { return n.log("open_left_eye") }
func (n noop) OpenRightEye() error          { return n.log("open_right_eye") }
func (n noop) OpenEyes() error              { return n.log("open_eyes") }
func (n noop) CloseLeftEye() error          { return n.log("close_left_eye") }
func (n noop) CloseRightEye() error         { return n.log("close_right_eye") }
func (n noop) CloseEyes() error             { return n.log("close_eyes") }
func (n noop) SetEyeColor(c interfaces.RGB) error {
	return n.log("set_eye_color", "r", c.R, "g", c.G, "b", c.B)
}

func (n noop) DriveCm(_ context.Context, cm float64) error {
	return n.log("drive_cm", "cm", cm)
}

func (n noop) DriveInches(_ context.Context, inches float64) error {
	return n.log("drive_inches", "inches", inches)
}

func (n noop) DriveDegrees(_ context.Context, degrees float64) error {
	return n.log("drive_degrees", "degrees", degrees)
}
