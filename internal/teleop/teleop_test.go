package teleop

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mfulz/pigeist/internal/backend"
	"github.com/mfulz/pigeist/internal/command"
	"github.com/mfulz/pigeist/internal/configd"
	"github.com/mfulz/pigeist/internal/control"
	"github.com/mfulz/pigeist/internal/controlcli"
	"github.com/mfulz/pigeist/internal/robot"
	"github.com/mfulz/pigeist/internal/terminal"
	"github.com/mfulz/pigeist/protocol"
)

type scriptedKeys []string

func (s *scriptedKeys) NextKey(context.Context) (string, error) {
	if len(*s) == 0 {
		return "", io.EOF
	}
	key := (*s)[0]
	*s = (*s)[1:]
	return key, nil
}

type presserFunc func(ctx context.Context, key string) (command.Effect, error)

func (f presserFunc) Press(ctx context.Context, key string) (command.Effect, error) {
	return f(ctx, key)
}

func TestRun(t *testing.T) {
	errLink := errors.New("link down")

	tests := []struct {
		name       string
		keys       []string
		press      presserFunc
		wantErr    error
		wantStatus []string
		wantLeft   int
	}{
		{
			name: "stops on exit effect",
			keys: []string{"w", "<ESC>", "s"},
			press: func(_ context.Context, key string) (command.Effect, error) {
				if key == "<ESC>" {
					return command.EffectExit, nil
				}
				return command.EffectMoving, nil
			},
			wantStatus: []string{"w -> moving", "<ESC> -> exit"},
			wantLeft:   1,
		},
		{
			name: "interrupt ends without pressing",
			keys: []string{terminal.KeyInterrupt, "w"},
			press: func(context.Context, string) (command.Effect, error) {
				t.Error("Press called after interrupt")
				return command.EffectNothing, nil
			},
			wantLeft: 1,
		},
		{
			name: "key failures continue",
			keys: []string{"w", "<ESC>"},
			press: func(_ context.Context, key string) (command.Effect, error) {
				if key == "w" {
					return command.EffectNothing, ErrKeyFailed
				}
				return command.EffectExit, nil
			},
			wantStatus: []string{"w -> error: key failed", "<ESC> -> exit"},
		},
		{
			name: "fatal errors end the loop",
			keys: []string{"w", "<ESC>"},
			press: func(context.Context, string) (command.Effect, error) {
				return command.EffectNothing, errLink
			},
			wantErr:  errLink,
			wantLeft: 1,
		},
		{
			name: "source errors are returned",
			keys: []string{"w"},
			press: func(context.Context, string) (command.Effect, error) {
				return command.EffectStatic, nil
			},
			wantErr:    io.EOF,
			wantStatus: []string{"w -> static"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := scriptedKeys(tt.keys)
			var status []string
			err := Run(context.Background(), &keys, tt.press, func(s string) { status = append(status, s) })
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}
			if strings.Join(status, "|") != strings.Join(tt.wantStatus, "|") {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if len(keys) != tt.wantLeft {
				t.Errorf("%d keys left unread, want %d", len(keys), tt.wantLeft)
			}
		})
	}
}

func TestLocal(t *testing.T) {
	r, err := robot.New(robot.Config{Backend: "sim"}, robot.KeymapConfig{})
	if err != nil {
		t.Fatal(err)
	}
	keys := scriptedKeys{"w", "x", "<ESC>"}
	var status []string
	if err := Run(context.Background(), &keys, Local{Dispatcher: r.Dispatcher}, func(s string) { status = append(status, s) }); err != nil {
		t.Fatal(err)
	}
	want := []string{"w -> moving", "x -> nothing", "<ESC> -> exit"}
	if strings.Join(status, "|") != strings.Join(want, "|") {
		t.Errorf("status = %q, want %q", status, want)
	}
}

func TestRemote(t *testing.T) {
	r, err := robot.New(robot.Config{Backend: "sim"}, robot.KeymapConfig{})
	if err != nil {
		t.Fatal(err)
	}
	sock := filepath.Join(t.TempDir(), "d.sock")
	srv, err := control.NewServer(&configd.Config{Control: configd.ControlMultiConfig{
		Instances: []configd.ControlInstance{{Name: "local", Enabled: true, Mode: "unix", Listen: sock}},
	}}, r)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		srv.Wait()
	}()
	if err := srv.Start(ctx); err != nil {
		t.Fatal(err)
	}

	s, err := controlcli.Dial(controlcli.Target{Network: "unix", Address: sock})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	keys := scriptedKeys{"1", "<ESC>"}
	var status []string
	if err := Run(ctx, &keys, Remote{Session: s}, func(msg string) { status = append(status, msg) }); err != nil {
		t.Fatal(err)
	}
	want := []string{"1 -> static", "<ESC> -> exit"}
	if strings.Join(status, "|") != strings.Join(want, "|") {
		t.Errorf("status = %q, want %q", status, want)
	}
}

func TestScreenLines(t *testing.T) {
	km := KeymapFromBindings([]protocol.Binding{
		{Key: "<ESC>", Description: "Exit", Handler: command.HandlerExit},
		{Key: "w", Description: "Forward", Handler: command.HandlerForward},
	})
	if km.Order[0] != "<ESC>" || km.Bindings[1].Handler != command.HandlerForward {
		t.Errorf("KeymapFromBindings() = %+v", km)
	}

	lines, err := ScreenLines(km)
	if err != nil {
		t.Fatal(err)
	}
	banner := command.BannerLines()
	if len(lines) != len(banner)+2 {
		t.Fatalf("got %d lines, want banner plus 2", len(lines))
	}
	if lines[len(banner)] != command.MenuLine(km.Bindings[0]) {
		t.Errorf("first menu line = %q", lines[len(banner)])
	}

	km.Order = append(km.Order, "q")
	if _, err := ScreenLines(km); !errors.Is(err, command.ErrMenuMismatch) {
		t.Errorf("ScreenLines() error = %v, want ErrMenuMismatch", err)
	}
}
