package command

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/mfulz/pigeist/interfaces"
)

// recorder is a Controller that records every call as a string.
type recorder struct {
	calls  []string
	colors []interfaces.RGB
	// failOn makes the named call return errFake.
	failOn string
}

var errFake = errors.New("i2c write failed")

func (r *recorder) record(call string) error {
	r.calls = append(r.calls, call)
	if call == r.failOn {
		return errFake
	}
	return nil
}

func (r *recorder) SetSpeed(dps int) error { return r.record(fmt.Sprintf("speed(%d)", dps)) }
func (r *recorder) Forward() error         { return r.record("forward") }
func (r *recorder) Backward() error        { return r.record("backward") }
func (r *recorder) Steer(left, right int) error {
	return r.record(fmt.Sprintf("steer(%d,%d)", left, right))
}
func (r *recorder) Stop() error { return r.record("stop") }
func (r *recorder) DriveCm(_ context.Context, cm float64) error {
	return r.record(fmt.Sprintf("drive_cm(%g)", cm))
}
func (r *recorder) DriveInches(_ context.Context, in float64) error {
	return r.record(fmt.Sprintf("drive_inches(%g)", in))
}
func (r *recorder) DriveDegrees(_ context.Context, deg float64) error {
	return r.record(fmt.Sprintf("drive_degrees(%g)", deg))
}
func (r *recorder) LedOn(i int) error      { return r.record(fmt.Sprintf("led_on(%d)", i)) }
func (r *recorder) LedOff(i int) error     { return r.record(fmt.Sprintf("led_off(%d)", i)) }
func (r *recorder) OpenLeftEye() error     { return r.record("open_left_eye") }
func (r *recorder) OpenRightEye() error    { return r.record("open_right_eye") }
func (r *recorder) OpenEyes() error        { return r.record("open_eyes") }
func (r *recorder) CloseLeftEye() error    { return r.record("close_left_eye") }
func (r *recorder) CloseRightEye() error   { return r.record("close_right_eye") }
func (r *recorder) CloseEyes() error       { return r.record("close_eyes") }
func (r *recorder) SetEyeColor(c interfaces.RGB) error {
	r.colors = append(r.colors, c)
	return r.record("eye_color")
}

func (r *recorder) reset() {
	r.calls = nil
	r.colors = nil
}

// sleepLog records requested pauses without waiting.
type sleepLog struct {
	pauses []time.Duration
}

func (s *sleepLog) sleep(ctx context.Context, d time.Duration) error {
	s.pauses = append(s.pauses, d)
	return ctx.Err()
}

func (s *sleepLog) total() time.Duration {
	var sum time.Duration
	for _, p := range s.pauses {
		sum += p
	}
	return sum
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *recorder, *sleepLog) {
	t.Helper()
	rec := &recorder{}
	sl := &sleepLog{}
	d, err := New(rec, DefaultKeymap(), Options{
		Rand:  rand.New(rand.NewPCG(1, 2)),
		Sleep: sl.sleep,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d, rec, sl
}

func equalCalls(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("calls = %v, want %v", got, want)
		}
	}
}
