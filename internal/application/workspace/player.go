package workspace

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/go-chrono-atlas/internal/data/watcher"
	"github.com/penwyp/go-chrono-atlas/internal/presentation/display"
	"github.com/penwyp/go-chrono-atlas/internal/presentation/interaction"
	"github.com/penwyp/go-chrono-atlas/internal/presentation/layout"
	"github.com/penwyp/go-chrono-atlas/internal/util"
)

// Player runs the interactive play mode.
type Player struct {
	config   *Config
	manager  *Manager
	world    *World
	display  *display.TerminalDisplay
	sorter   *interaction.RowSorter
	timeline *Timeline
	layer    string
	showHelp bool
	status   string
}

// NewPlayer creates a player over an already loaded manager. layer, when
// set, limits the listing to one layer.
func NewPlayer(m *Manager, td *display.TerminalDisplay, sorter *interaction.RowSorter, layer string) *Player {
	cfg := m.Config()
	start, end := cfg.StartYear, cfg.EndYear
	if start == 0 && end == 0 {
		if first, last, ok := m.YearSpan(); ok {
			start, end = float64(first), float64(last)
		}
	}
	return &Player{
		config:   cfg,
		manager:  m,
		world:    NewWorld(m),
		display:  td,
		sorter:   sorter,
		timeline: NewTimeline(start, end, start, cfg.Step),
		layer:    layer,
	}
}

// Timeline exposes the play clock.
func (p *Player) Timeline() *Timeline {
	return p.timeline
}

// Run takes over the terminal until the user quits or ctx ends.
func (p *Player) Run(ctx context.Context) error {
	util.LogInfo("Starting play mode...")

	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	defer keyboard.Close()

	p.display.EnterAlternateScreen()
	defer p.display.ExitAlternateScreen()

	var events <-chan watcher.Event
	var monitor *Monitor
	if p.config.Watch {
		monitor = NewMonitor(p.manager)
		fw, err := monitor.Start()
		if err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
		defer fw.Close()
		events = fw.Events()
	}

	resize := make(chan os.Signal, 1)
	signal.Notify(resize, syscall.SIGWINCH)
	defer signal.Stop(resize)

	ticker := time.NewTicker(p.config.FrameInterval())
	defer ticker.Stop()

	p.timeline.Playing = true
	p.render()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down play mode...")
			return nil

		case <-ticker.C:
			if p.timeline.Tick() {
				p.render()
			}

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			changed, err := monitor.Apply(ev)
			switch {
			case err != nil:
				p.status = err.Error()
			case changed:
				p.status = "reloaded " + ev.Path
			}
			p.render()

		case <-resize:
			size := layout.TerminalSizer()
			p.display.Resize(size.Width, size.Height)
			p.render()

		case ev := <-keyboard.Events():
			if p.HandleKey(ev) {
				return nil
			}
			p.render()
		}
	}
}

// HandleKey applies one key press and reports whether to quit.
func (p *Player) HandleKey(ev interaction.KeyEvent) bool {
	if ev.IsInterrupt() {
		return true
	}

	switch ev.Type {
	case interaction.KeyEscape:
		if p.showHelp {
			p.showHelp = false
			return false
		}
		return true
	case interaction.KeyRight:
		p.timeline.Forward()
	case interaction.KeyLeft:
		p.timeline.Back()
	case interaction.KeyUp:
		p.timeline.Faster()
	case interaction.KeyDown:
		p.timeline.Slower()
	case interaction.KeyChar:
		switch ev.Key {
		case 'q', 'Q':
			return true
		case ' ', 'p', 'P':
			p.timeline.Toggle()
		case 'l', 'L':
			p.timeline.Forward()
		case 'h', 'H':
			p.timeline.Back()
		case 's', 'S':
			p.status = "sort by " + p.sorter.Cycle().String()
		case 'o', 'O':
			p.sorter.Toggle()
		case '?':
			p.showHelp = !p.showHelp
		case 'r', 'R':
			p.reload()
		}
	}
	return false
}

func (p *Player) reload() {
	changed := 0
	for _, src := range p.manager.Sources() {
		ok, err := p.manager.Reload(src)
		if err != nil {
			p.status = err.Error()
			util.LogError(fmt.Sprintf("Failed to reload %s: %v", src, err))
			return
		}
		if ok {
			changed++
		}
	}
	p.status = fmt.Sprintf("reloaded %d atlas files", changed)
}

// State builds the frame the display would show now.
func (p *Player) State() display.PlayState {
	frame := p.world.Snapshot(p.timeline.Year)
	report := ReportFor(frame.Year, frame.Visible(), p.layer)
	p.sorter.Sort(report.Rows)
	return display.PlayState{
		Report:   report,
		Start:    p.timeline.Start,
		End:      p.timeline.End,
		Step:     p.timeline.Step,
		Playing:  p.timeline.Playing,
		ShowHelp: p.showHelp,
		SortBy:   p.sorter.Field().String(),
		Status:   p.status,
	}
}

func (p *Player) render() {
	p.display.Render(p.State())
}
