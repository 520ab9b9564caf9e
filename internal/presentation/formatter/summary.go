package formatter

import (
	"fmt"
	"io"
	"sort"

	"github.com/penwyp/go-chrono-atlas/internal/util"
)

// SummaryFormatter prints entity counts per layer and per domain.
type SummaryFormatter struct{}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

type tally struct {
	name     string
	count    int
	vertices int
}

func (f *SummaryFormatter) Format(w io.Writer, report Report) error {
	layers := make(map[string]*tally)
	domains := make(map[string]*tally)
	totalVertices := 0

	for _, r := range report.Rows {
		count(layers, r.Layer, r.Vertices)
		count(domains, r.Domain, r.Vertices)
		totalVertices += r.Vertices
	}

	fmt.Fprintln(w, util.FormatOverviewTitle("Summary "+util.FormatYear(report.Year)))
	fmt.Fprintln(w, util.FormatSectionSeparator())
	fmt.Fprintf(w, "Entities: %s   Vertices: %s\n", util.FormatNumber(len(report.Rows)), util.FormatNumber(totalVertices))

	printTallies(w, "By layer", layers)
	printTallies(w, "By domain", domains)
	return nil
}

func count(m map[string]*tally, key string, vertices int) {
	if key == "" {
		key = "(none)"
	}
	t, ok := m[key]
	if !ok {
		t = &tally{name: key}
		m[key] = t
	}
	t.count++
	t.vertices += vertices
}

func printTallies(w io.Writer, title string, m map[string]*tally) {
	if len(m) == 0 {
		return
	}
	list := make([]*tally, 0, len(m))
	for _, t := range m {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].name < list[j].name
	})

	fmt.Fprintln(w)
	fmt.Fprintln(w, util.FormatDataTitle(title))
	for _, t := range list {
		fmt.Fprintf(w, "  %-20s %6d entities %10s vertices\n", t.name, t.count, util.FormatNumber(t.vertices))
	}
}
