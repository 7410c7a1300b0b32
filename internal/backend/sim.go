// Package backend provides concrete robot backend implementations.
// This file implements the simulator backend: an in-memory robot that tracks
// motor, LED and eye state and optionally spends real time on bounded moves.
package backend

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/mfulz/pigeist/interfaces"
	"github.com/mfulz/pigeist/internal/logging"
	"github.com/spf13/cast"
)

// Default wheel geometry of the robot, in millimetres.
const (
	defaultWheelDiameter = 66.5
	mmPerInch            = 25.4
)

// Motion describes what the simulated wheels are doing.
type Motion string

const (
	MotionStopped  Motion = "stopped"
	MotionForward  Motion = "forward"
	MotionBackward Motion = "backward"
	MotionSteering Motion = "steering"
)

// SimState is a snapshot of the simulated robot.
type SimState struct {
	Speed      int
	Motion     Motion
	LeftPower  int
	RightPower int
	Leds       map[int]bool
	LeftEye    bool
	RightEye   bool
	EyeColor   interfaces.RGB
	// Odometer accumulates bounded moves in wheel degrees.
	Odometer float64
}

// Sim is the simulated robot Controller.
type Sim struct {
	mu            sync.Mutex
	state         SimState
	wheelDiameter float64
	realtime      bool
}

func init() {
	interfaces.RegisterBackend("sim", func(options map[string]any) (interfaces.Controller, error) {
		return NewSim(options)
	})
}

// NewSim creates a simulator. Recognised options:
//
//	wheel_diameter_mm  float  wheel diameter used to convert distances (default 66.5)
//	realtime           bool   block bounded moves for their simulated duration
func NewSim(options map[string]any) (*Sim, error) {
	s := &Sim{
		wheelDiameter: defaultWheelDiameter,
		state: SimState{
			Motion: MotionStopped,
			Leds:   make(map[int]bool),
		},
	}
	if v, ok := options["wheel_diameter_mm"]; ok {
		d, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("sim: invalid wheel_diameter_mm: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("sim: wheel_diameter_mm must be positive, got %v", d)
		}
		s.wheelDiameter = d
	}
	if v, ok := options["realtime"]; ok {
		rt, err := cast.ToBoolE(v)
		if err != nil {
			return nil, fmt.Errorf("sim: invalid realtime: %w", err)
		}
		s.realtime = rt
	}
	return s, nil
}

// Snapshot returns a copy of the simulated state.
func (s *Sim) Snapshot() SimState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Leds = make(map[int]bool, len(s.state.Leds))
	for k, v := range s.state.Leds {
		st.Leds[k] = v
	}
	return st
}

func (s *Sim) update(call string, fn func(st *SimState)) error {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	logging.Log.Debugf("[sim] %s", call)
	return nil
}

func (s *Sim) SetSpeed(dps int) error {
	return s.update(fmt.Sprintf("set_speed(%d)", dps), func(st *SimState) { st.Speed = dps })
}

func (s *Sim) Forward() error {
	return s.update("forward", func(st *SimState) {
		st.Motion, st.LeftPower, st.RightPower = MotionForward, 100, 100
	})
}

func (s *Sim) Backward() error {
	return s.update("backward", func(st *SimState) {
		st.Motion, st.LeftPower, st.RightPower = MotionBackward, -100, -100
	})
}

func (s *Sim) Steer(left, right int) error {
	if left < -100 || left > 100 || right < -100 || right > 100 {
		return fmt.Errorf("sim: steer power out of range: %d, %d", left, right)
	}
	return s.update(fmt.Sprintf("steer(%d, %d)", left, right), func(st *SimState) {
		st.Motion, st.LeftPower, st.RightPower = MotionSteering, left, right
	})
}

func (s *Sim) Stop() error {
	return s.update("stop", func(st *SimState) {
		st.Motion, st.LeftPower, st.RightPower = MotionStopped, 0, 0
	})
}

func (s *Sim) DriveCm(ctx context.Context, cm float64) error {
	return s.drive(ctx, fmt.Sprintf("drive_cm(%g)", cm), s.mmToDegrees(cm*10))
}

func (s *Sim) DriveInches(ctx context.Context, inches float64) error {
	return s.drive(ctx, fmt.Sprintf("drive_inches(%g)", inches), s.mmToDegrees(inches*mmPerInch))
}

func (s *Sim) DriveDegrees(ctx context.Context, degrees float64) error {
	return s.drive(ctx, fmt.Sprintf("drive_degrees(%g)", degrees), degrees)
}

func (s *Sim) mmToDegrees(mm float64) float64 {
	return mm / (math.Pi * s.wheelDiameter) * 360
}

// drive simulates a bounded move of the given wheel rotation. In realtime mode
// it blocks for rotation/speed seconds or until ctx is done.
func (s *Sim) drive(ctx context.Context, call string, degrees float64) error {
	s.mu.Lock()
	speed := s.state.Speed
	s.state.Motion, s.state.LeftPower, s.state.RightPower = MotionForward, 100, 100
	s.mu.Unlock()
	logging.Log.Debugf("[sim] %s (%.1f wheel degrees)", call, degrees)

	var err error
	if s.realtime && speed > 0 {
		dur := time.Duration(math.Abs(degrees) / float64(speed) * float64(time.Second))
		t := time.NewTimer(dur)
		select {
		case <-ctx.Done():
			err = ctx.Err()
		case <-t.C:
		}
		t.Stop()
	}

	s.mu.Lock()
	if err == nil {
		s.state.Odometer += math.Abs(degrees)
	}
	s.state.Motion, s.state.LeftPower, s.state.RightPower = MotionStopped, 0, 0
	s.mu.Unlock()
	return err
}

func (s *Sim) LedOn(index int) error {
	return s.update(fmt.Sprintf("led_on(%d)", index), func(st *SimState) { st.Leds[index] = true })
}

func (s *Sim) LedOff(index int) error {
	return s.update(fmt.Sprintf("led_off(%d)", index), func(st *SimState) { st.Leds[index] = false })
}

func (s *Sim) OpenLeftEye() error {
	return s.update("open_left_eye", func(st *SimState) { st.LeftEye = true })
}

func (s *Sim) OpenRightEye() error {
	return s.update("open_right_eye", func(st *SimState) { st.RightEye = true })
}

func (s *Sim) OpenEyes() error {
	return s.update("open_eyes", func(st *SimState) { st.LeftEye, st.RightEye = true, true })
}

func (s *Sim) CloseLeftEye() error {
	return s.update("close_left_eye", func(st *SimState) { st.LeftEye = false })
}

func (s *Sim) CloseRightEye() error {
	return s.update("close_right_eye", func(st *SimState) { st.RightEye = false })
}

func (s *Sim) CloseEyes() error {
	return s.update("close_eyes", func(st *SimState) { st.LeftEye, st.RightEye = false, false })
}

func (s *Sim) SetEyeColor(color interfaces.RGB) error {
	return s.update(fmt.Sprintf("set_eye_color(%d, %d, %d)", color.R, color.G, color.B), func(st *SimState) {
		st.EyeColor = color
	})
}
