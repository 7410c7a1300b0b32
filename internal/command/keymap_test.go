package command

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultKeymapConsistent(t *testing.T) {
	km := DefaultKeymap()
	if err := km.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(km.Order) != 20 {
		t.Errorf("len(Order) = %d, want 20", len(km.Order))
	}
	if km.Order[0] != "w" || km.Order[len(km.Order)-1] != "<ESC>" {
		t.Errorf("Order = %v, want w first and <ESC> last", km.Order)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		km   Keymap
		want error
	}{
		{
			name: "valid",
			km: Keymap{
				Bindings: []Binding{{"w", "fwd", HandlerForward}},
				Order:    []string{"w"},
			},
		},
		{
			name: "order lists unbound key",
			km: Keymap{
				Bindings: []Binding{{"w", "fwd", HandlerForward}},
				Order:    []string{"w", "s"},
			},
			want: ErrMenuMismatch,
		},
		{
			name: "duplicate key",
			km: Keymap{
				Bindings: []Binding{{"w", "fwd", HandlerForward}, {"w", "back", HandlerBackward}},
				Order:    []string{"w"},
			},
			want: ErrDuplicateKey,
		},
		{
			name: "empty key",
			km: Keymap{
				Bindings: []Binding{{"", "fwd", HandlerForward}},
			},
			want: ErrEmptyKey,
		},
		{
			name: "bound key missing from order is allowed",
			km: Keymap{
				Bindings: []Binding{{"w", "fwd", HandlerForward}, {"s", "back", HandlerBackward}},
				Order:    []string{"w"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.km.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRenderMenu(t *testing.T) {
	var buf bytes.Buffer
	if err := DefaultKeymap().RenderMenu(&buf); err != nil {
		t.Fatalf("RenderMenu() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 20 {
		t.Fatalf("menu has %d lines, want 20", len(lines))
	}
	if want := "[key w       ] :  Move the robot forward"; lines[0] != want {
		t.Errorf("lines[0] = %q, want %q", lines[0], want)
	}
	if want := "[key <F1>    ] :  Drive forward for 10 centimeters"; lines[9] != want {
		t.Errorf("lines[9] = %q, want %q", lines[9], want)
	}
}

func TestRenderMenuReportsMismatch(t *testing.T) {
	km := Keymap{
		Bindings: []Binding{{"w", "fwd", HandlerForward}},
		Order:    []string{"w", "<F7>", "x"},
	}

	var buf bytes.Buffer
	err := km.RenderMenu(&buf)
	if !errors.Is(err, ErrMenuMismatch) {
		t.Fatalf("RenderMenu() error = %v, want ErrMenuMismatch", err)
	}
	if !strings.Contains(err.Error(), "<F7>") || !strings.Contains(err.Error(), "x") {
		t.Errorf("error %q does not name the missing keys", err)
	}
	out := buf.String()
	if !strings.Contains(out, "[key w       ] :  fwd") {
		t.Errorf("menu dropped the bound key: %q", out)
	}
	if strings.Count(out, "has no key binding") != 2 {
		t.Errorf("menu = %q, want a diagnostic per missing key", out)
	}
}

func TestRenderBanner(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderBanner(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), Description[0]) {
		t.Errorf("banner missing description: %q", buf.String())
	}
}

func TestKeymapYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keymap.yaml")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := DefaultKeymap().WriteYAML(f); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}
	f.Close()

	km, err := LoadKeymapFile(path)
	if err != nil {
		t.Fatalf("LoadKeymapFile() error = %v", err)
	}
	if err := km.Validate(); err != nil {
		t.Errorf("loaded keymap invalid: %v", err)
	}
	if b, ok := km.Index()["<F3>"]; !ok || b.Handler != HandlerForwardTurn {
		t.Errorf("loaded <F3> = %+v, %v", b, ok)
	}
}

func TestLoadKeymapFileDefaultsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keymap.yaml")
	data := "bindings:\n  - key: \"<F1>\"\n    description: short hop\n    handler: forward10cm\n  - key: x\n    description: quit\n    handler: exit\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	km, err := LoadKeymapFile(path)
	if err != nil {
		t.Fatalf("LoadKeymapFile() error = %v", err)
	}
	if len(km.Order) != 2 || km.Order[0] != "<F1>" || km.Order[1] != "x" {
		t.Errorf("Order = %v, want [<F1> x]", km.Order)
	}
}

func TestLoadKeymapFileErrors(t *testing.T) {
	if _, err := LoadKeymapFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadKeymapFile() on a missing file returned nil error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("bindings: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadKeymapFile(path); err == nil {
		t.Error("LoadKeymapFile() on malformed yaml returned nil error")
	}
}

func TestEffect(t *testing.T) {
	for _, e := range []Effect{EffectNothing, EffectMoving, EffectPath, EffectStatic, EffectExit} {
		if !e.Valid() {
			t.Errorf("%s.Valid() = false", e)
		}
		if e.Terminal() != (e == EffectExit) {
			t.Errorf("%s.Terminal() = %v", e, e.Terminal())
		}
	}
	if Effect("teleport").Valid() {
		t.Error("unknown effect reported valid")
	}
}
