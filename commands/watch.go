package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-chrono-atlas/internal/application/workspace"
	"github.com/penwyp/go-chrono-atlas/internal/data/watcher"
	"github.com/penwyp/go-chrono-atlas/internal/util"
)

var (
	watchYear   float64
	watchLayer  string
	watchSort   string
	watchOutput string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-print a snapshot whenever atlas files change",
	Long: `Loads the atlases, prints the snapshot at --year and keeps watching the
atlas files. Edited files are reloaded, new files loaded and deleted files
unloaded; the snapshot is printed again after every change. Stop with Ctrl+C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Float64VarP(&watchYear, "year", "y", 0,
		"Year to evaluate (negative for BC)")
	watchCmd.Flags().StringVar(&watchLayer, "layer", "",
		"Only list entities from atlases of this layer")
	watchCmd.Flags().StringVar(&watchSort, "sort", "name",
		"Sort rows by (name, id, kind, vertices, area)")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "table",
		"Output format (table, json, csv, summary)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	sorter, err := newSorter(watchSort, false)
	if err != nil {
		return err
	}

	m, err := loadWorkspace(newConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	world := workspace.NewWorld(m)
	show := func() error {
		frame := world.Snapshot(watchYear)
		report := workspace.ReportFor(frame.Year, frame.Visible(), watchLayer)
		sorter.Sort(report.Rows)
		return writeReport(out, report, watchOutput)
	}
	if err := show(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return workspace.NewMonitor(m).Run(ctx,
		func(ev watcher.Event) {
			announce(out, ev)
			if err := show(); err != nil {
				util.LogError(err.Error())
			}
		},
		func(err error) {
			fmt.Fprintln(cmd.ErrOrStderr(), util.FormatErrorText(err.Error()))
		})
}

func announce(w io.Writer, ev watcher.Event) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, util.FormatSectionSeparator())
	fmt.Fprintf(w, "%s %s (%s)\n", util.GetClock().Now().Format("15:04:05"), ev.Path, ev.Op)
}
