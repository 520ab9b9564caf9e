package e2e

import (
	"regexp"
	"strings"
	"sync"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes all ANSI escape codes from a string
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// Screen is a virtual terminal. It implements io.Writer so a display can
// draw into it directly; only the sequences the play view emits are
// interpreted (cursor moves, erase, SGR and private modes are ignored).
type Screen struct {
	mu      sync.Mutex
	rows    int
	cols    int
	buffer  [][]rune
	cursorX int
	cursorY int
	pending []rune
}

// NewScreen creates a blank screen of rows x cols cells.
func NewScreen(rows, cols int) *Screen {
	s := &Screen{rows: rows, cols: cols}
	s.buffer = make([][]rune, rows)
	for i := range s.buffer {
		s.buffer[i] = blankLine(cols)
	}
	return s
}

func blankLine(cols int) []rune {
	line := make([]rune, cols)
	for i := range line {
		line[i] = ' '
	}
	return line
}

// ParseTerminalOutput replays output onto a fresh 24x80 screen.
func ParseTerminalOutput(output string) *Screen {
	s := NewScreen(24, 80)
	_, _ = s.Write([]byte(output))
	return s
}

func (s *Screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runes := append(s.pending, []rune(string(p))...)
	s.pending = nil

	for i := 0; i < len(runes); {
		switch r := runes[i]; r {
		case '\x1b':
			next, complete := s.escape(runes, i)
			if !complete {
				s.pending = append([]rune(nil), runes[i:]...)
				return len(p), nil
			}
			i = next
			continue
		case '\r':
			s.cursorX = 0
		case '\n':
			s.cursorX = 0
			s.lineFeed()
		case '\b':
			if s.cursorX > 0 {
				s.cursorX--
			}
		default:
			s.put(r)
		}
		i++
	}
	return len(p), nil
}

// escape applies the CSI sequence starting at runes[start] and returns the
// index after it. complete is false when the sequence is cut off.
func (s *Screen) escape(runes []rune, start int) (int, bool) {
	if start+1 >= len(runes) {
		return start, false
	}
	if runes[start+1] != '[' {
		return start + 2, true
	}

	i := start + 2
	private := false
	if i < len(runes) && runes[i] == '?' {
		private = true
		i++
	}
	var params []int
	current, seen := 0, false
	for ; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r >= '0' && r <= '9':
			current = current*10 + int(r-'0')
			seen = true
		case r == ';':
			params = append(params, current)
			current, seen = 0, false
		default:
			if seen {
				params = append(params, current)
			}
			if !private {
				s.command(r, params)
			}
			return i + 1, true
		}
	}
	return start, false
}

func param(params []int, i, def int) int {
	if i < len(params) && params[i] > 0 {
		return params[i]
	}
	return def
}

func (s *Screen) command(cmd rune, params []int) {
	switch cmd {
	case 'H', 'f':
		s.cursorY = clamp(param(params, 0, 1)-1, 0, s.rows-1)
		s.cursorX = clamp(param(params, 1, 1)-1, 0, s.cols-1)
	case 'A':
		s.cursorY = clamp(s.cursorY-param(params, 0, 1), 0, s.rows-1)
	case 'B':
		s.cursorY = clamp(s.cursorY+param(params, 0, 1), 0, s.rows-1)
	case 'C':
		s.cursorX = clamp(s.cursorX+param(params, 0, 1), 0, s.cols-1)
	case 'D':
		s.cursorX = clamp(s.cursorX-param(params, 0, 1), 0, s.cols-1)
	case 'J':
		switch param(params, 0, 0) {
		case 0:
			s.clearLineFrom(s.cursorY, s.cursorX)
			for y := s.cursorY + 1; y < s.rows; y++ {
				s.buffer[y] = blankLine(s.cols)
			}
		case 1:
			for y := 0; y < s.cursorY; y++ {
				s.buffer[y] = blankLine(s.cols)
			}
			s.clearLineTo(s.cursorY, s.cursorX)
		default:
			for y := range s.buffer {
				s.buffer[y] = blankLine(s.cols)
			}
		}
	case 'K':
		switch param(params, 0, 0) {
		case 0:
			s.clearLineFrom(s.cursorY, s.cursorX)
		case 1:
			s.clearLineTo(s.cursorY, s.cursorX)
		default:
			s.buffer[s.cursorY] = blankLine(s.cols)
		}
	}
}

func (s *Screen) clearLineFrom(y, x int) {
	for ; x < s.cols; x++ {
		s.buffer[y][x] = ' '
	}
}

func (s *Screen) clearLineTo(y, x int) {
	for i := 0; i <= x && i < s.cols; i++ {
		s.buffer[y][i] = ' '
	}
}

func (s *Screen) put(r rune) {
	if s.cursorX >= s.cols {
		s.cursorX = 0
		s.lineFeed()
	}
	s.buffer[s.cursorY][s.cursorX] = r
	s.cursorX++
}

func (s *Screen) lineFeed() {
	if s.cursorY < s.rows-1 {
		s.cursorY++
		return
	}
	copy(s.buffer, s.buffer[1:])
	s.buffer[s.rows-1] = blankLine(s.cols)
}

// Render returns the screen with trailing blanks trimmed from every line
// and trailing empty lines dropped.
func (s *Screen) Render() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]string, s.rows)
	for i, line := range s.buffer {
		lines[i] = strings.TrimRight(string(line), " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// Line returns row i, trimmed.
func (s *Screen) Line(i int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= s.rows {
		return ""
	}
	return strings.TrimRight(string(s.buffer[i]), " ")
}

// ContainsText reports whether text appears on screen.
func (s *Screen) ContainsText(text string) bool {
	return strings.Contains(s.Render(), text)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
