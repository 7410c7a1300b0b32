package command

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Binding ties a key identifier to a menu description and a handler name.
type Binding struct {
	Key         string `mapstructure:"key" yaml:"key"`
	Description string `mapstructure:"description" yaml:"description"`
	Handler     string `mapstructure:"handler" yaml:"handler"`
}

// Keymap is the binding table plus the order in which the menu lists keys.
// The two are kept separately; Validate checks they agree.
type Keymap struct {
	Bindings []Binding `mapstructure:"bindings" yaml:"bindings"`
	Order    []string  `mapstructure:"order" yaml:"order"`
}

// DefaultKeymap returns the built-in key table.
func DefaultKeymap() Keymap {
	bindings := []Binding{
		{"w", "Move the robot forward", HandlerForward},
		{"s", "Move the robot backward", HandlerBackward},
		{"a", "Turn the robot to the left", HandlerLeft},
		{"d", "Turn the robot to the right", HandlerRight},
		{"z", "Escape Left!", HandlerEscapeLeft},
		{"c", "Escape Right!", HandlerEscapeRight},
		{"q", "SERPENTINE DESTRUCTION!!!", HandlerSerpentine},
		{"e", "Venomous Pounce!", HandlerPounce},
		{"<SPACE>", "Stop the robot from moving", HandlerStop},

		{"<F1>", "Drive forward for 10 centimeters", HandlerForward10Cm},
		{"<F2>", "Drive forward for 10 inches", HandlerForward10In},
		{"<F3>", "Drive forward for 360 degrees (aka 1 wheel rotation)", HandlerForwardTurn},

		{"1", "Turn ON/OFF left blinker", HandlerLeftBlinker},
		{"2", "Turn ON/OFF right blinker", HandlerRightBlinker},
		{"3", "Turn ON/OFF both blinkers", HandlerBlinkers},

		{"8", "Turn ON/OFF left eye", HandlerLeftEye},
		{"9", "Turn ON/OFF right eye", HandlerRightEye},
		{"0", "Turn ON/OFF both eyes", HandlerEyes},

		{"<INSERT>", "Change the eyes' color on the go", HandlerEyesColor},

		{"<ESC>", "Exit", HandlerExit},
	}

	order := make([]string, len(bindings))
	for i, b := range bindings {
		order[i] = b.Key
	}
	return Keymap{Bindings: bindings, Order: order}
}

// Index returns the bindings keyed by key identifier.
// Later duplicates are ignored; Validate reports them.
func (k Keymap) Index() map[string]Binding {
	idx := make(map[string]Binding, len(k.Bindings))
	for _, b := range k.Bindings {
		if _, ok := idx[b.Key]; !ok {
			idx[b.Key] = b
		}
	}
	return idx
}

// Missing returns the keys listed in Order that have no binding, in order.
func (k Keymap) Missing() []string {
	idx := k.Index()
	var missing []string
	for _, key := range k.Order {
		if _, ok := idx[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Validate checks that every binding has a unique non-empty key and that every
// key in the menu order is bound.
func (k Keymap) Validate() error {
	seen := make(map[string]struct{}, len(k.Bindings))
	for i, b := range k.Bindings {
		if b.Key == "" {
			return fmt.Errorf("binding %d (%s): %w", i, b.Handler, ErrEmptyKey)
		}
		if _, ok := seen[b.Key]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, b.Key)
		}
		seen[b.Key] = struct{}{}
	}
	if missing := k.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMenuMismatch, missing)
	}
	return nil
}

// LoadKeymapFile reads a YAML keymap file. An empty order defaults to the
// binding order.
func LoadKeymapFile(path string) (Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Keymap{}, fmt.Errorf("failed to read keymap: %w", err)
	}
	var km Keymap
	if err := yaml.Unmarshal(data, &km); err != nil {
		return Keymap{}, fmt.Errorf("failed to parse keymap yaml: %w", err)
	}
	if len(km.Order) == 0 {
		for _, b := range km.Bindings {
			km.Order = append(km.Order, b.Key)
		}
	}
	return km, nil
}

// WriteYAML encodes the keymap as YAML.
func (k Keymap) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(k); err != nil {
		return fmt.Errorf("failed to encode keymap: %w", err)
	}
	return enc.Close()
}
