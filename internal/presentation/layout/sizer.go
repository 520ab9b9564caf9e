package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/penwyp/go-chrono-atlas/internal/util"
)

const (
	fallbackWidth  = 80
	fallbackHeight = 24
	minWidth       = 40
)

// Sizer measures and pads text for a terminal of a given size. Widths are
// display cells, so wide and combining runes are handled.
type Sizer struct {
	Width  int
	Height int
}

func NewSizer(width, height int) *Sizer {
	return &Sizer{Width: width, Height: height}
}

// TerminalSizer sizes to stdout, falling back to 80x24 when stdout is not a
// terminal.
func TerminalSizer() *Sizer {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		util.LogDebugf("terminal size unavailable (%v), using %dx%d", err, fallbackWidth, fallbackHeight)
		return NewSizer(fallbackWidth, fallbackHeight)
	}
	return NewSizer(w, h)
}

// DisplayWidth returns the number of cells s occupies.
func (s Sizer) DisplayWidth(str string) int {
	return runewidth.StringWidth(str)
}

// PadString pads str with spaces to width cells.
func (s Sizer) PadString(str string, width int, leftAlign bool) string {
	actual := s.DisplayWidth(str)
	if actual >= width {
		return str
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return str + padding
	}
	return padding + str
}

// Truncate shortens str to at most width cells, marking the cut with "…".
func (s Sizer) Truncate(str string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(str, width, "…")
}

// MaxWidth is the usable line width, never below 40 cells.
func (s Sizer) MaxWidth() int {
	w := s.Width - 2
	if w < minWidth {
		w = minWidth
	}
	return w
}
