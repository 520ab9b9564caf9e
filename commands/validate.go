package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-chrono-atlas/internal/core/entity"
	"github.com/penwyp/go-chrono-atlas/internal/core/ontology"
	"github.com/penwyp/go-chrono-atlas/internal/data/atlas"
	"github.com/penwyp/go-chrono-atlas/internal/data/scanner"
	"github.com/penwyp/go-chrono-atlas/internal/util"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check atlas files for structural and taxonomy problems",
	Long: `Checks each file (or every atlas under --dir) for a loadable structure,
the export rules (numeric meta.year, geometry on every entity) and the
taxonomy rules for each entity's domain and typology.

Connections must join two known entities of the same domain, each valid at
its end's year. Entities from every file checked in the same run count.

Structural problems always fail. Export, taxonomy and connection problems
are warnings unless --strict is set.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateStrict, "strict", false,
		"Treat export, taxonomy and connection warnings as failures")
}

func runValidate(cmd *cobra.Command, args []string) error {
	files := args
	if len(files) == 0 {
		files = atlasFiles
	}
	if len(files) == 0 {
		scanned, err := scanner.NewFileScanner(expandPath(dataDir)).Scan()
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", dataDir, err)
		}
		files = scanned
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No atlas files found.")
		return nil
	}

	results := make([]*validation, len(files))
	var all []*entity.Entity
	for i, f := range files {
		results[i] = validateFile(expandPath(f))
		all = append(all, results[i].entities...)
	}
	lookup := atlas.LookupIn(all)
	for _, r := range results {
		if r.fatal {
			continue
		}
		for _, err := range atlas.ValidateConnections(r.doc.Connections, lookup) {
			r.problems = append(r.problems, err.Error())
		}
	}

	out := cmd.OutOrStdout()
	failed := 0
	for i, f := range files {
		problems, fatal := results[i].problems, results[i].fatal
		switch {
		case fatal || (validateStrict && len(problems) > 0):
			failed++
			fmt.Fprintf(out, "%s %s\n", util.FormatErrorText("✗"), f)
		case len(problems) > 0:
			fmt.Fprintf(out, "%s %s\n", util.FormatWarningTitle("!"), f)
		default:
			fmt.Fprintf(out, "✓ %s\n", f)
		}
		for _, p := range problems {
			fmt.Fprintf(out, "    %s\n", p)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d atlas files failed validation", failed, len(files))
	}
	return nil
}

// validation is the outcome for one file. fatal marks problems that
// prevent loading.
type validation struct {
	doc      *atlas.Document
	entities []*entity.Entity
	problems []string
	fatal    bool
}

// validateFile lists the problems in one file. Connections are checked
// afterwards, once every file's entities are known.
func validateFile(path string) *validation {
	doc, err := atlas.ReadFile(path)
	if err != nil {
		return &validation{problems: []string{err.Error()}, fatal: true}
	}
	if err := atlas.Validate(doc); err != nil {
		return &validation{problems: []string{err.Error()}, fatal: true}
	}

	var problems []string
	report := atlas.ValidateExport(doc)
	problems = append(problems, report.Errors...)

	byEntity := atlas.ValidateEntities(doc, ontology.Default())
	ids := make([]string, 0, len(byEntity))
	for id := range byEntity {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for _, msg := range byEntity[id] {
			problems = append(problems, fmt.Sprintf("%s: %s", id, msg))
		}
	}

	es, errs := doc.Build(ontology.Default())
	for _, err := range errs {
		problems = append(problems, err.Error())
	}
	util.LogDebug(fmt.Sprintf("Validated %s: %d problems", path, len(problems)))
	return &validation{doc: doc, entities: es, problems: problems}
}
