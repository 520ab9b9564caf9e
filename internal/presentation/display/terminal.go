package display

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/penwyp/go-chrono-atlas/internal/presentation/formatter"
	"github.com/penwyp/go-chrono-atlas/internal/presentation/layout"
	"github.com/penwyp/go-chrono-atlas/internal/util"
)

const clearToEnd = "\033[J"

// PlayState is everything one frame of play mode shows.
type PlayState struct {
	Report   formatter.Report
	Start    float64
	End      float64
	Step     float64
	Playing  bool
	ShowHelp bool
	SortBy   string
	Loading  string
	Status   string
}

// Progress is the year's position in [Start, End] as a percentage.
func (s PlayState) Progress() float64 {
	span := s.End - s.Start
	if span <= 0 {
		return 100
	}
	p := (s.Report.Year - s.Start) / span * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// TerminalDisplay draws play-mode frames on the alternate screen.
type TerminalDisplay struct {
	out               io.Writer
	sizer             *layout.Sizer
	inAlternateScreen bool
	isFirstRender     bool
	lastFrame         string
}

// NewTerminalDisplay renders to out, or stdout when out is nil. A nil
// sizer measures the terminal.
func NewTerminalDisplay(out io.Writer, sizer *layout.Sizer) *TerminalDisplay {
	if out == nil {
		out = os.Stdout
	}
	if sizer == nil {
		sizer = layout.TerminalSizer()
	}
	return &TerminalDisplay{out: out, sizer: sizer, isFirstRender: true}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.EnterAltScreen, util.ClearScreen, util.MoveCursorHome,
		util.ClearScrollback, util.ResetScrollRegion, util.HideCursor)
	td.inAlternateScreen = true
	td.isFirstRender = true
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.ClearScreen, util.MoveCursorHome, util.ShowCursor, util.ExitAltScreen)
	td.inAlternateScreen = false
}

// Resize updates the terminal dimensions used for layout.
func (td *TerminalDisplay) Resize(width, height int) {
	td.sizer = layout.NewSizer(width, height)
	td.isFirstRender = true
}

// Render draws one frame. Identical consecutive frames are not rewritten.
func (td *TerminalDisplay) Render(state PlayState) {
	var buf bytes.Buffer
	switch {
	case state.Loading != "":
		td.renderLoading(&buf, state.Loading)
	case state.ShowHelp:
		td.renderHelp(&buf)
	default:
		td.renderFrame(&buf, state)
	}

	frame := buf.String()
	if frame == td.lastFrame && !td.isFirstRender {
		return
	}

	if td.isFirstRender {
		fmt.Fprint(td.out, util.ClearScreen)
		td.isFirstRender = false
	}
	fmt.Fprint(td.out, util.MoveCursorHome, frame, clearToEnd)
	td.lastFrame = frame
}

func (td *TerminalDisplay) renderFrame(w io.Writer, state PlayState) {
	width := td.sizer.MaxWidth()

	mode := "▶ playing"
	if !state.Playing {
		mode = "❚❚ paused"
	}
	header := fmt.Sprintf("%s  %s  step %g  %s", util.FormatHeaderTitle("Chrono Atlas"),
		util.FormatYear(state.Report.Year), state.Step, mode)
	fmt.Fprintln(w, header)

	barWidth := width - 30
	if barWidth < 12 {
		barWidth = 12
	}
	fmt.Fprintf(w, "%s %s %s\n", util.FormatYear(state.Start), util.CreateProgressBar(state.Progress(), barWidth), util.FormatYear(state.End))
	fmt.Fprintln(w)

	table := formatter.NewTableFormatter(width)
	rows := state.Report.Rows
	if limit := td.sizer.Height - 10; limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	visible := state.Report
	visible.Rows = rows
	_ = table.Format(w, visible)
	if hidden := len(state.Report.Rows) - len(rows); hidden > 0 {
		fmt.Fprintf(w, "… %d more\n", hidden)
	}

	fmt.Fprintln(w)
	footer := "space pause · ←/→ step · s sort"
	if state.SortBy != "" {
		footer += " (" + state.SortBy + ")"
	}
	footer += " · ? help · q quit"
	fmt.Fprintln(w, footer)

	if state.Status != "" {
		fmt.Fprintf(w, "Status: %s\n", td.sizer.Truncate(state.Status, width-8))
	}
}

func (td *TerminalDisplay) renderHelp(w io.Writer) {
	rule := strings.Repeat("═", min(td.sizer.MaxWidth(), 80))
	fmt.Fprintln(w, util.FormatHeaderTitle("Chrono Atlas - Help"))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Keyboard Shortcuts:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  space       - Pause/resume playback")
	fmt.Fprintln(w, "  ←/→ or h/l  - Step one interval back/forward")
	fmt.Fprintln(w, "  ↑/↓         - Double/halve the step")
	fmt.Fprintln(w, "  s           - Cycle sort field")
	fmt.Fprintln(w, "  o           - Reverse sort order")
	fmt.Fprintln(w, "  r           - Reload atlases from disk")
	fmt.Fprintln(w, "  ?           - Show this help")
	fmt.Fprintln(w, "  q/Esc/Ctrl+C - Quit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Press '?' to return...")
}

func (td *TerminalDisplay) renderLoading(w io.Writer, message string) {
	boxWidth := 50
	padding := strings.Repeat(" ", max((td.sizer.Width-boxWidth)/2, 0))
	inner := boxWidth - 2

	for i := 0; i < td.sizer.Height/2-4; i++ {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%s╔%s╗\n", padding, strings.Repeat("═", inner))
	fmt.Fprintf(w, "%s║%s║\n", padding, util.CenterText("Chrono Atlas", inner))
	fmt.Fprintf(w, "%s╠%s╣\n", padding, strings.Repeat("═", inner))
	for _, line := range wrapText(message, inner-2) {
		fmt.Fprintf(w, "%s║%s║\n", padding, util.CenterText(line, inner))
	}
	fmt.Fprintf(w, "%s║%s║\n", padding, util.CenterText("Press 'q' to quit", inner))
	fmt.Fprintf(w, "%s╚%s╝\n", padding, strings.Repeat("═", inner))
}

// wrapText wraps text to fit within the specified width
func wrapText(text string, width int) []string {
	if text == "" {
		return []string{}
	}

	if util.GetDisplayWidth(text) <= width {
		return []string{text}
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		if currentLine == "" {
			currentLine = word
		} else if util.GetDisplayWidth(currentLine)+1+util.GetDisplayWidth(word) <= width {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}
