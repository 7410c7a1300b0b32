package terminal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestKeyName(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"letter", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), "w"},
		{"digit", tcell.NewEventKey(tcell.KeyRune, '8', tcell.ModNone), "8"},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "<SPACE>"},
		{"F1", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), "<F1>"},
		{"F12", tcell.NewEventKey(tcell.KeyF12, 0, tcell.ModNone), "<F12>"},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "<ESC>"},
		{"insert", tcell.NewEventKey(tcell.KeyInsert, 0, tcell.ModNone), "<INSERT>"},
		{"arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), "<UP>"},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), KeyInterrupt},
		{"unnamed", tcell.NewEventKey(tcell.KeyCtrlG, 0, tcell.ModCtrl), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyName(tt.ev); got != tt.want {
				t.Errorf("KeyName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func newSimScreen(t *testing.T) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	s, err := NewWithScreen(sim)
	if err != nil {
		t.Fatal(err)
	}
	sim.SetSize(40, 5)
	t.Cleanup(s.Close)
	return s, sim
}

func row(sim tcell.SimulationScreen, y int) string {
	cells, width, _ := sim.GetContents()
	var b strings.Builder
	for x := 0; x < width; x++ {
		c := cells[y*width+x]
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func TestDraw(t *testing.T) {
	s, sim := newSimScreen(t)
	s.SetLines([]string{"pigeist", "[key w       ] :  forward", "a", "b", "clipped"})
	s.SetStatus("w -> moving")

	if got := row(sim, 0); got != "pigeist" {
		t.Errorf("row 0 = %q", got)
	}
	if got := row(sim, 1); got != "[key w       ] :  forward" {
		t.Errorf("row 1 = %q", got)
	}
	if got := row(sim, 4); got != "w -> moving" {
		t.Errorf("status row = %q, want the status instead of the fifth body line", got)
	}
}

func TestNextKey(t *testing.T) {
	s, sim := newSimScreen(t)

	sim.InjectKey(tcell.KeyCtrlG, 0, tcell.ModCtrl)
	sim.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	sim.InjectKey(tcell.KeyF3, 0, tcell.ModNone)

	ctx := context.Background()
	for _, want := range []string{"w", "<F3>"} {
		got, err := s.NextKey(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("NextKey() = %q, want %q", got, want)
		}
	}
}

func TestNextKeyCancel(t *testing.T) {
	s, _ := newSimScreen(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.NextKey(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("NextKey() error = %v, want deadline exceeded", err)
	}
}
