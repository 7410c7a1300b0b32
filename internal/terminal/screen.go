package terminal

import (
	"context"
	"errors"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ErrClosed is returned by NextKey once the screen has been finalized.
var ErrClosed = errors.New("terminal closed")

var (
	styleText   = tcell.StyleDefault
	styleStatus = tcell.StyleDefault.Reverse(true)
)

// Screen is the full-screen drive view.
type Screen struct {
	mu     sync.Mutex
	screen tcell.Screen
	lines  []string
	status string
	once   sync.Once
}

// New opens the controlling terminal.
func New() (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen)
}

// NewWithScreen initializes s and wraps it. Tests pass a simulation screen.
func NewWithScreen(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.HideCursor()
	return &Screen{screen: s}, nil
}

// SetLines replaces the body text (banner and menu) and redraws.
func (s *Screen) SetLines(lines []string) {
	s.mu.Lock()
	s.lines = append([]string(nil), lines...)
	s.mu.Unlock()
	s.Draw()
}

// SetStatus replaces the status line and redraws.
func (s *Screen) SetStatus(msg string) {
	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()
	s.Draw()
}

// Draw renders the body from the top and the status on the last row.
// Text beyond the screen size is clipped.
func (s *Screen) Draw() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Clear()
	width, height := s.screen.Size()
	body := height - 1
	for y, line := range s.lines {
		if y >= body {
			break
		}
		putString(s.screen, 0, y, width, line, styleText)
	}
	if height > 0 {
		for x := 0; x < width; x++ {
			s.screen.SetContent(x, height-1, ' ', nil, styleStatus)
		}
		putString(s.screen, 0, height-1, width, s.status, styleStatus)
	}
	s.screen.Show()
}

func putString(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= width {
			return
		}
		if r == '\t' {
			r = ' '
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// NextKey blocks until a named key is pressed and returns its identifier.
// Resize events redraw the screen. It returns ctx.Err() when ctx is done and
// ErrClosed after Close.
func (s *Screen) NextKey(ctx context.Context) (string, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		ev := s.screen.PollEvent()
		switch e := ev.(type) {
		case nil:
			return "", ErrClosed
		case *tcell.EventKey:
			if name := KeyName(e); name != "" {
				return name, nil
			}
		case *tcell.EventResize:
			s.screen.Sync()
			s.Draw()
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return "", err
			}
		}
	}
}

// Close restores the terminal. It is safe to call more than once.
func (s *Screen) Close() {
	s.once.Do(s.screen.Fini)
}
