// Package teleop runs the interactive drive loop: read a key, press it on a
// robot (local dispatcher or remote daemon) and report the effect, until an
// exit effect or an interrupt.
package teleop

import (
	"context"
	"errors"
	"fmt"

	"github.com/mfulz/pigeist/internal/command"
	"github.com/mfulz/pigeist/internal/controlcli"
	"github.com/mfulz/pigeist/internal/logging"
	"github.com/mfulz/pigeist/internal/terminal"
	"github.com/mfulz/pigeist/protocol"
)

// ErrKeyFailed marks a key press that failed without ending the session.
var ErrKeyFailed = errors.New("key failed")

// KeySource yields key identifiers.
type KeySource interface {
	NextKey(ctx context.Context) (string, error)
}

// Presser presses one key on a robot and returns the effect.
type Presser interface {
	Press(ctx context.Context, key string) (command.Effect, error)
}

// Run reads keys from src and presses them until an exit effect, an
// interrupt key or a fatal error. Errors wrapping ErrKeyFailed are shown via
// status and the loop continues.
func Run(ctx context.Context, src KeySource, p Presser, status func(string)) error {
	for {
		key, err := src.NextKey(ctx)
		if err != nil {
			return err
		}
		if key == terminal.KeyInterrupt {
			logging.Log.Infof("[teleop] Interrupted")
			return nil
		}

		effect, err := p.Press(ctx, key)
		if err != nil {
			if !errors.Is(err, ErrKeyFailed) {
				return err
			}
			logging.Log.Warnf("[teleop] Key %q failed: %v", key, err)
			status(fmt.Sprintf("%s -> error: %v", key, err))
			continue
		}

		status(fmt.Sprintf("%s -> %s", key, effect))
		if effect.Terminal() {
			return nil
		}
	}
}

// Local presses keys on an in-process dispatcher.
type Local struct {
	Dispatcher *command.Dispatcher
}

// Press dispatches key. Controller errors are reported as ErrKeyFailed.
func (l Local) Press(ctx context.Context, key string) (command.Effect, error) {
	effect, err := l.Dispatcher.Dispatch(ctx, key)
	if err != nil {
		if ctx.Err() != nil {
			return effect, err
		}
		return effect, fmt.Errorf("%w: %w", ErrKeyFailed, err)
	}
	return effect, nil
}

// Remote presses keys through a daemon session.
type Remote struct {
	Session *controlcli.Session
}

// Press sends key to the daemon. Rejected requests are reported as
// ErrKeyFailed; transport failures end the loop.
func (r Remote) Press(_ context.Context, key string) (command.Effect, error) {
	effect, err := r.Session.PressKey(key)
	if err != nil {
		if errors.Is(err, controlcli.ErrRejected) {
			return command.EffectNothing, fmt.Errorf("%w: %w", ErrKeyFailed, err)
		}
		return command.EffectNothing, err
	}
	e := command.Effect(effect)
	if !e.Valid() {
		return command.EffectNothing, fmt.Errorf("daemon reported unknown effect %q", effect)
	}
	return e, nil
}

// KeymapFromBindings rebuilds a keymap from a daemon's binding list, which
// arrives in menu order.
func KeymapFromBindings(bindings []protocol.Binding) command.Keymap {
	km := command.Keymap{
		Bindings: make([]command.Binding, 0, len(bindings)),
		Order:    make([]string, 0, len(bindings)),
	}
	for _, b := range bindings {
		km.Bindings = append(km.Bindings, command.Binding{Key: b.Key, Description: b.Description, Handler: b.Handler})
		km.Order = append(km.Order, b.Key)
	}
	return km
}

// ScreenLines returns the banner followed by the menu of km. Menu
// diagnostics are included as lines; the mismatch error is returned.
func ScreenLines(km command.Keymap) ([]string, error) {
	menu, err := km.MenuLines()
	return append(command.BannerLines(), menu...), err
}
