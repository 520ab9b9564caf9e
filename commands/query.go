package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-chrono-atlas/internal/application/workspace"
	"github.com/penwyp/go-chrono-atlas/internal/core/geometry"
)

var (
	queryYear   float64
	queryRect   string
	queryLayer  string
	queryOutput string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "List entities whose bounds intersect a rectangle",
	Long: `Evaluates all entities at --year, indexes them and lists the visible ones
whose bounding boxes intersect --rect, given as x,y,width,height.`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().Float64VarP(&queryYear, "year", "y", 0,
		"Year to evaluate (negative for BC)")
	queryCmd.Flags().StringVar(&queryRect, "rect", "",
		"Query rectangle as x,y,width,height")
	queryCmd.Flags().StringVar(&queryLayer, "layer", "",
		"Only list entities from atlases of this layer")
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	_ = queryCmd.MarkFlagRequired("rect")
}

func runQuery(cmd *cobra.Command, args []string) error {
	rect, err := parseRect(queryRect)
	if err != nil {
		return err
	}

	m, err := loadWorkspace(newConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	world := workspace.NewWorld(m)
	world.Snapshot(queryYear)
	report := workspace.ReportFor(queryYear, world.Query(rect), queryLayer)
	return writeReport(cmd.OutOrStdout(), report, queryOutput)
}

// parseFloats splits s on commas into exactly n numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q in %q", p, s)
		}
		out[i] = v
	}
	return out, nil
}

// parseRect reads "x,y,w,h". Width and height must not be negative.
func parseRect(s string) (geometry.Rect, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("invalid rect: %w", err)
	}
	if v[2] < 0 || v[3] < 0 {
		return geometry.Rect{}, fmt.Errorf("invalid rect %q: negative size", s)
	}
	return geometry.R(v[0], v[1], v[2], v[3]), nil
}

// parsePoint reads "x,y".
func parsePoint(s string) (geometry.Point, error) {
	v, err := parseFloats(s, 2)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid point: %w", err)
	}
	return geometry.Point{X: v[0], Y: v[1]}, nil
}
