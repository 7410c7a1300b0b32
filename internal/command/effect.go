package command

// Effect classifies what a dispatched key did. Callers use it for loop control:
// every effect except EffectExit means "keep polling".
type Effect string

const (
	// EffectNothing means the key is unbound or its handler is unknown.
	EffectNothing Effect = "nothing"
	// EffectMoving means the robot drives for an indefinite time.
	EffectMoving Effect = "moving"
	// EffectPath means the robot completed a bounded distance or rotation.
	EffectPath Effect = "path"
	// EffectStatic means only LEDs or eyes changed.
	EffectStatic Effect = "static"
	// EffectExit asks the caller to terminate its loop.
	EffectExit Effect = "exit"
)

// Valid reports whether e is one of the known effects.
func (e Effect) Valid() bool {
	switch e {
	case EffectNothing, EffectMoving, EffectPath, EffectStatic, EffectExit:
		return true
	}
	return false
}

// Terminal reports whether the caller should stop its input loop.
func (e Effect) Terminal() bool {
	return e == EffectExit
}
