package formatter

import (
	"fmt"
	"io"
	"strings"
)

// Row is one entity in a snapshot listing.
type Row struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Layer     string  `json:"layer,omitempty"`
	Domain    string  `json:"domain"`
	Typology  string  `json:"typology"`
	Subtype   string  `json:"subtype,omitempty"`
	Class     string  `json:"class"`
	Vertices  int     `json:"vertices"`
	CentroidX float64 `json:"centroidX"`
	CentroidY float64 `json:"centroidY"`
	MinX      float64 `json:"minX"`
	MinY      float64 `json:"minY"`
	MaxX      float64 `json:"maxX"`
	MaxY      float64 `json:"maxY"`
}

// Kind returns "domain/typology", plus "/subtype" when set.
func (r Row) Kind() string {
	if r.Subtype == "" {
		return r.Domain + "/" + r.Typology
	}
	return r.Domain + "/" + r.Typology + "/" + r.Subtype
}

// Report is a snapshot listing at one year.
type Report struct {
	Year float64 `json:"year"`
	Rows []Row   `json:"entities"`
}

// Formatter writes a report.
type Formatter interface {
	Format(w io.Writer, report Report) error
}

// New returns the formatter for name: table, json, csv or summary.
func New(name string, maxWidth int) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "table":
		return NewTableFormatter(maxWidth), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want table, json, csv or summary)", name)
	}
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
