package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-chrono-atlas/internal/core/geometry"
	"github.com/penwyp/go-chrono-atlas/internal/core/ontology"
	"github.com/penwyp/go-chrono-atlas/internal/util"
)

var taxonomyDomain string

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "List the classifications atlas entities may use",
	Long: `Prints the built-in taxonomy: every domain with its boundary defaults,
typologies and subtypes. Subtypes marked [open] or [point] change how
geometry is resampled and hit-tested.`,
	Args: cobra.NoArgs,
	RunE: runTaxonomy,
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)

	taxonomyCmd.Flags().StringVar(&taxonomyDomain, "domain", "",
		"Only show this domain")
}

func runTaxonomy(cmd *cobra.Command, args []string) error {
	reg := ontology.Default()
	domains := reg.Domains()
	if taxonomyDomain != "" {
		d, ok := reg.Domain(taxonomyDomain)
		if !ok {
			return fmt.Errorf("unknown domain %q", taxonomyDomain)
		}
		domains = []ontology.Domain{d}
	}

	out := cmd.OutOrStdout()
	for i, d := range domains {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, util.FormatOverviewTitle(fmt.Sprintf("%s (%s)", d.Label, d.ID)))
		fmt.Fprintf(out, "  boundary %s, confidence %.2f\n", d.BoundaryType, d.BoundaryConfidence)
		for _, k := range reg.TypologiesFor(d.ID) {
			fmt.Fprintf(out, "  %-4s %-22s %s\n", k.Abbr, k.ID, k.Label)
		}
		if len(d.Subtypes) > 0 {
			ids := make([]string, len(d.Subtypes))
			for j, k := range d.Subtypes {
				ids[j] = kindID(k)
			}
			fmt.Fprintf(out, "  subtypes: %s\n", strings.Join(ids, ", "))
		}
	}
	return nil
}

func kindID(k ontology.Kind) string {
	if k.Class == geometry.Closed {
		return k.ID
	}
	return k.ID + " [" + k.Class.String() + "]"
}
