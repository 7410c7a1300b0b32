package command

import (
	"fmt"
	"io"
	"strings"
)

// Logo is the banner shown above the menu.
var Logo = []string{
	`        _            _     _   `,
	`  _ __ (_) __ _  ___(_)___| |_ `,
	` | '_ \| |/ _' |/ _ \ / __| __|`,
	` | |_) | | (_| |  __/ \__ \ |_ `,
	` | .__/|_|\__, |\___|_|___/\__|`,
	` |_|      |___/                `,
	``,
}

// Description explains how to operate the robot.
var Description = []string{
	"Press the following keys to run the features of the robot.",
	"To move the motors, make sure you have a fresh set of batteries powering the robot.",
}

// MenuLine formats one menu entry.
func MenuLine(b Binding) string {
	return fmt.Sprintf("[key %-8s] :  %s", b.Key, b.Description)
}

// MenuLines returns the menu entries in menu order. Keys listed in the order
// but missing from the bindings produce a diagnostic line in their place and
// an ErrMenuMismatch naming them.
func (k Keymap) MenuLines() ([]string, error) {
	idx := k.Index()
	lines := make([]string, 0, len(k.Order))
	var missing []string
	for _, key := range k.Order {
		b, ok := idx[key]
		if !ok {
			missing = append(missing, key)
			lines = append(lines, fmt.Sprintf("Error: menu key %q has no key binding", key))
			continue
		}
		lines = append(lines, MenuLine(b))
	}
	if len(missing) > 0 {
		return lines, fmt.Errorf("%w: %s", ErrMenuMismatch, strings.Join(missing, ", "))
	}
	return lines, nil
}

// RenderMenu writes the menu to w, one entry per line, including any
// diagnostic lines. It returns ErrMenuMismatch when the order and the
// bindings have drifted apart.
func (k Keymap) RenderMenu(w io.Writer) error {
	lines, menuErr := k.MenuLines()
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return menuErr
}

// BannerLines returns the logo followed by the description.
func BannerLines() []string {
	lines := append([]string(nil), Logo...)
	lines = append(lines, "")
	lines = append(lines, Description...)
	return append(lines, "")
}

// RenderBanner writes the logo and the description.
func RenderBanner(w io.Writer) error {
	for _, l := range BannerLines() {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
