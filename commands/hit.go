package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-chrono-atlas/internal/application/workspace"
	"github.com/penwyp/go-chrono-atlas/internal/util"
)

var (
	hitYear      float64
	hitAt        string
	hitTolerance float64
	hitOutput    string
)

var hitCmd = &cobra.Command{
	Use:   "hit",
	Short: "Find the topmost entity under a point",
	Long: `Evaluates all entities at --year and picks the one drawn on top at --at.

Points win over language areas, language areas over water, water over
everything else; among equals the entity loaded last wins. Points are hit
within --tolerance, paths within a fifth of it, areas when the point is
inside.`,
	RunE: runHit,
}

func init() {
	rootCmd.AddCommand(hitCmd)

	hitCmd.Flags().Float64VarP(&hitYear, "year", "y", 0,
		"Year to evaluate (negative for BC)")
	hitCmd.Flags().StringVar(&hitAt, "at", "",
		"Point to test as x,y")
	hitCmd.Flags().Float64Var(&hitTolerance, "tolerance", 10,
		"Hit radius in world units")
	hitCmd.Flags().StringVarP(&hitOutput, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	_ = hitCmd.MarkFlagRequired("at")
}

func runHit(cmd *cobra.Command, args []string) error {
	p, err := parsePoint(hitAt)
	if err != nil {
		return err
	}
	if hitTolerance <= 0 {
		return fmt.Errorf("tolerance must be positive")
	}

	m, err := loadWorkspace(newConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	world := workspace.NewWorld(m)
	world.Snapshot(hitYear)
	found := world.HitTest(p, hitTolerance)
	if found == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "No entity at %g,%g in %s\n", p.X, p.Y, util.FormatYear(hitYear))
		return nil
	}
	return writeReport(cmd.OutOrStdout(), workspace.ReportFor(hitYear, []*workspace.Placement{found}, ""), hitOutput)
}
