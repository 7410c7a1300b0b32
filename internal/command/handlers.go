package command

import (
	"context"

	"github.com/mfulz/pigeist/interfaces"
)

// Handler names usable in a keymap.
const (
	HandlerForward      = "forward"
	HandlerBackward     = "backward"
	HandlerLeft         = "left"
	HandlerRight        = "right"
	HandlerStop         = "stop"
	HandlerForward10Cm  = "forward10cm"
	HandlerForward10In  = "forward10in"
	HandlerForwardTurn  = "forwardturn"
	HandlerLeftBlinker  = "leftblinker"
	HandlerRightBlinker = "rightblinker"
	HandlerBlinkers     = "blinkers"
	HandlerLeftEye      = "lefteye"
	HandlerRightEye     = "righteye"
	HandlerEyes         = "eyes"
	HandlerEyesColor    = "eyescolor"
	HandlerSerpentine   = "serpentine"
	HandlerPounce       = "pounce"
	HandlerEscapeLeft   = "escapeleft"
	HandlerEscapeRight  = "escaperight"
	HandlerExit         = "exit"
)

// Bounded path lengths.
const (
	pathCm      = 10
	pathInches  = 10
	pathDegrees = 360
)

func (d *Dispatcher) handlers() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		HandlerForward:      d.forward,
		HandlerBackward:     d.backward,
		HandlerLeft:         d.left,
		HandlerRight:        d.right,
		HandlerStop:         d.stop,
		HandlerForward10Cm:  d.forward10Cm,
		HandlerForward10In:  d.forward10In,
		HandlerForwardTurn:  d.forwardTurn,
		HandlerLeftBlinker:  d.leftBlinker,
		HandlerRightBlinker: d.rightBlinker,
		HandlerBlinkers:     d.blinkers,
		HandlerLeftEye:      d.leftEye,
		HandlerRightEye:     d.rightEye,
		HandlerEyes:         d.eyes,
		HandlerEyesColor:    d.eyesColor,
		HandlerSerpentine:   d.serpentine,
		HandlerPounce:       d.pounce,
		HandlerEscapeLeft:   d.escapeLeft,
		HandlerEscapeRight:  d.escapeRight,
		HandlerExit:         d.exit,
	}
}

// move sets the speed tier, then issues cmd.
func (d *Dispatcher) move(speed int, cmd func() error) (Effect, error) {
	if err := d.ctrl.SetSpeed(speed); err != nil {
		return EffectNothing, err
	}
	if err := cmd(); err != nil {
		return EffectNothing, err
	}
	return EffectMoving, nil
}

func (d *Dispatcher) forward(context.Context) (Effect, error) {
	return d.move(d.speeds.Straight, d.ctrl.Forward)
}

func (d *Dispatcher) backward(context.Context) (Effect, error) {
	return d.move(d.speeds.Straight, d.ctrl.Backward)
}

func (d *Dispatcher) left(context.Context) (Effect, error) {
	return d.move(d.speeds.Turn, func() error { return d.ctrl.Steer(-100, 100) })
}

func (d *Dispatcher) right(context.Context) (Effect, error) {
	return d.move(d.speeds.Turn, func() error { return d.ctrl.Steer(100, -100) })
}

func (d *Dispatcher) stop(context.Context) (Effect, error) {
	if err := d.ctrl.Stop(); err != nil {
		return EffectNothing, err
	}
	return EffectMoving, nil
}

func (d *Dispatcher) forward10Cm(ctx context.Context) (Effect, error) {
	if err := d.ctrl.DriveCm(ctx, pathCm); err != nil {
		return EffectNothing, err
	}
	return EffectPath, nil
}

func (d *Dispatcher) forward10In(ctx context.Context) (Effect, error) {
	if err := d.ctrl.DriveInches(ctx, pathInches); err != nil {
		return EffectNothing, err
	}
	return EffectPath, nil
}

func (d *Dispatcher) forwardTurn(ctx context.Context) (Effect, error) {
	if err := d.ctrl.DriveDegrees(ctx, pathDegrees); err != nil {
		return EffectNothing, err
	}
	return EffectPath, nil
}

// toggle flips *flag, calling on or off depending on its current value.
// The flag changes only when the hardware call succeeds.
func toggle(flag *bool, on, off func() error) (Effect, error) {
	call := on
	if *flag {
		call = off
	}
	if err := call(); err != nil {
		return EffectNothing, err
	}
	*flag = !*flag
	return EffectStatic, nil
}

// togglePair treats two flags as one binary state: both go on only when both
// were off, otherwise both go off.
func togglePair(a, b *bool, on, off func() error) (Effect, error) {
	turnOn := !*a && !*b
	call := off
	if turnOn {
		call = on
	}
	if err := call(); err != nil {
		return EffectNothing, err
	}
	*a, *b = turnOn, turnOn
	return EffectStatic, nil
}

func (d *Dispatcher) ledOn(index int) func() error {
	return func() error { return d.ctrl.LedOn(index) }
}

func (d *Dispatcher) ledOff(index int) func() error {
	return func() error { return d.ctrl.LedOff(index) }
}

func (d *Dispatcher) leftBlinker(context.Context) (Effect, error) {
	return toggle(&d.state.LeftBlinker, d.ledOn(interfaces.LedLeftBlinker), d.ledOff(interfaces.LedLeftBlinker))
}

func (d *Dispatcher) rightBlinker(context.Context) (Effect, error) {
	return toggle(&d.state.RightBlinker, d.ledOn(interfaces.LedRightBlinker), d.ledOff(interfaces.LedRightBlinker))
}

// blinkers switches both blinkers as one. Each flag follows its own LED, so a
// failure on the second LED leaves the first one recorded.
func (d *Dispatcher) blinkers(context.Context) (Effect, error) {
	turnOn := !d.state.LeftBlinker && !d.state.RightBlinker
	set := d.ctrl.LedOff
	if turnOn {
		set = d.ctrl.LedOn
	}
	if err := set(interfaces.LedRightBlinker); err != nil {
		return EffectNothing, err
	}
	d.state.RightBlinker = turnOn
	if err := set(interfaces.LedLeftBlinker); err != nil {
		return EffectNothing, err
	}
	d.state.LeftBlinker = turnOn
	return EffectStatic, nil
}

func (d *Dispatcher) leftEye(context.Context) (Effect, error) {
	return toggle(&d.state.LeftEye, d.ctrl.OpenLeftEye, d.ctrl.CloseLeftEye)
}

func (d *Dispatcher) rightEye(context.Context) (Effect, error) {
	return toggle(&d.state.RightEye, d.ctrl.OpenRightEye, d.ctrl.CloseRightEye)
}

func (d *Dispatcher) eyes(context.Context) (Effect, error) {
	return togglePair(&d.state.LeftEye, &d.state.RightEye, d.ctrl.OpenEyes, d.ctrl.CloseEyes)
}

// eyesColor picks a random color and re-opens the eyes flagged on so the new
// color shows.
func (d *Dispatcher) eyesColor(context.Context) (Effect, error) {
	if err := d.ctrl.SetEyeColor(d.randomColor()); err != nil {
		return EffectNothing, err
	}
	if d.state.LeftEye {
		if err := d.ctrl.OpenLeftEye(); err != nil {
			return EffectNothing, err
		}
	}
	if d.state.RightEye {
		if err := d.ctrl.OpenRightEye(); err != nil {
			return EffectNothing, err
		}
	}
	return EffectStatic, nil
}

func (d *Dispatcher) exit(context.Context) (Effect, error) {
	if err := d.lightOff(); err != nil {
		return EffectNothing, err
	}
	d.state.LeftEye, d.state.RightEye = false, false
	return EffectExit, nil
}
