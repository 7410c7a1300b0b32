// Package terminal runs the interactive drive screen on top of tcell. It
// draws the banner and menu, turns key events into the key identifiers used
// by keymaps and shows the outcome of the last key on a status line.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// KeyInterrupt is reported for Ctrl-C. It is never bound in a keymap; the
// drive loop treats it as a request to leave.
const KeyInterrupt = "<CTRL-C>"

var named = map[tcell.Key]string{
	tcell.KeyEscape:     "<ESC>",
	tcell.KeyEnter:      "<ENTER>",
	tcell.KeyTab:        "<TAB>",
	tcell.KeyBackspace:  "<BACKSPACE>",
	tcell.KeyBackspace2: "<BACKSPACE>",
	tcell.KeyInsert:     "<INSERT>",
	tcell.KeyDelete:     "<DELETE>",
	tcell.KeyHome:       "<HOME>",
	tcell.KeyEnd:        "<END>",
	tcell.KeyPgUp:       "<PGUP>",
	tcell.KeyPgDn:       "<PGDN>",
	tcell.KeyUp:         "<UP>",
	tcell.KeyDown:       "<DOWN>",
	tcell.KeyLeft:       "<LEFT>",
	tcell.KeyRight:      "<RIGHT>",
	tcell.KeyCtrlC:      KeyInterrupt,
}

// KeyName converts a key event into a key identifier: the character itself
// for printable keys, "<SPACE>" for the space bar and a bracketed name such
// as "<F1>" or "<ESC>" for special keys. Events without a name yield "".
func KeyName(ev *tcell.EventKey) string {
	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		if ev.Rune() == ' ' {
			return "<SPACE>"
		}
		return string(ev.Rune())
	case k >= tcell.KeyF1 && k <= tcell.KeyF12:
		return fmt.Sprintf("<F%d>", int(k-tcell.KeyF1)+1)
	default:
		return named[k]
	}
}
