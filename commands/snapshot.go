package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-chrono-atlas/internal/application/workspace"
	"github.com/penwyp/go-chrono-atlas/internal/presentation/formatter"
	"github.com/penwyp/go-chrono-atlas/internal/presentation/interaction"
	"github.com/penwyp/go-chrono-atlas/internal/presentation/layout"
)

var (
	snapshotYear   float64
	snapshotLayer  string
	snapshotSort   string
	snapshotDesc   bool
	snapshotOutput string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show every entity as it stands at a year",
	Long: `Evaluates all loaded entities at --year and lists the visible ones with
their geometry class, vertex count, centroid and bounds.

Entities outside their valid range, or without keyframes, are left out.`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().Float64VarP(&snapshotYear, "year", "y", 0,
		"Year to evaluate (negative for BC)")
	snapshotCmd.Flags().StringVar(&snapshotLayer, "layer", "",
		"Only list entities from atlases of this layer")
	snapshotCmd.Flags().StringVar(&snapshotSort, "sort", "name",
		"Sort rows by (name, id, kind, vertices, area)")
	snapshotCmd.Flags().BoolVar(&snapshotDesc, "desc", false,
		"Sort in descending order")
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "table",
		"Output format (table, json, csv, summary)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	sorter, err := newSorter(snapshotSort, snapshotDesc)
	if err != nil {
		return err
	}

	m, err := loadWorkspace(newConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	frame := workspace.NewWorld(m).Snapshot(snapshotYear)
	report := workspace.ReportFor(frame.Year, frame.Visible(), snapshotLayer)
	sorter.Sort(report.Rows)
	return writeReport(cmd.OutOrStdout(), report, snapshotOutput)
}

func newSorter(field string, desc bool) (*interaction.RowSorter, error) {
	f, err := interaction.ParseSortField(field)
	if err != nil {
		return nil, err
	}
	order := interaction.SortAscending
	if desc {
		order = interaction.SortDescending
	}
	return interaction.NewRowSorter(f, order), nil
}

// writeReport renders report in the named format, sizing tables to the
// terminal.
func writeReport(w io.Writer, report formatter.Report, format string) error {
	f, err := formatter.New(format, layout.TerminalSizer().MaxWidth())
	if err != nil {
		return err
	}
	if err := f.Format(w, report); err != nil {
		return fmt.Errorf("failed to write %s output: %w", format, err)
	}
	return nil
}
