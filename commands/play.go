package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-chrono-atlas/internal/application/workspace"
	"github.com/penwyp/go-chrono-atlas/internal/presentation/display"
	"github.com/penwyp/go-chrono-atlas/internal/presentation/layout"
)

var (
	playStart float64
	playEnd   float64
	playStep  float64
	playFPS   float64
	playWatch bool
	playLayer string
	playSort  string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Scrub through time interactively",
	Long: `Takes over the terminal and plays the atlas through time, re-evaluating
every entity on each frame. Playback loops from --end back to --start.

Keys:
  space / p    pause or resume
  ← → / h l    step back or forward
  ↑ ↓          faster or slower
  s / o        cycle sort field / flip order
  r            reload atlas files
  ?            help
  q / Esc      quit

With neither --start nor --end the range spans every keyframe loaded.`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Float64Var(&playStart, "start", 0,
		"First year of the range")
	playCmd.Flags().Float64Var(&playEnd, "end", 0,
		"Last year of the range")
	playCmd.Flags().Float64Var(&playStep, "step", 10,
		"Years advanced per frame")
	playCmd.Flags().Float64Var(&playFPS, "fps", 4,
		"Frames per second (0.1-30)")
	playCmd.Flags().BoolVarP(&playWatch, "watch", "w", false,
		"Reload atlas files when they change")
	playCmd.Flags().StringVar(&playLayer, "layer", "",
		"Only list entities from atlases of this layer")
	playCmd.Flags().StringVar(&playSort, "sort", "name",
		"Initial sort field (name, id, kind, vertices, area)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	if playFPS < 0.1 || playFPS > 30 {
		return fmt.Errorf("fps must be between 0.1 and 30")
	}
	if playStep <= 0 {
		return fmt.Errorf("step must be positive")
	}
	sorter, err := newSorter(playSort, false)
	if err != nil {
		return err
	}

	cfg := newConfig()
	cfg.StartYear = playStart
	cfg.EndYear = playEnd
	cfg.Step = playStep
	cfg.FrameRate = playFPS
	cfg.Watch = playWatch

	m, err := loadWorkspace(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	td := display.NewTerminalDisplay(os.Stdout, layout.TerminalSizer())
	return workspace.NewPlayer(m, td, sorter, playLayer).Run(ctx)
}
