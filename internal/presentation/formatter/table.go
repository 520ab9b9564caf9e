package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-chrono-atlas/internal/presentation/layout"
	"github.com/penwyp/go-chrono-atlas/internal/util"
)

type TableFormatter struct {
	headers  []string
	maxWidth int
	sizer    layout.Sizer
}

// NewTableFormatter creates a box-drawn table. A positive maxWidth shrinks
// the Name column so lines fit.
func NewTableFormatter(maxWidth int) *TableFormatter {
	return &TableFormatter{
		headers:  []string{"ID", "Name", "Kind", "Class", "Vertices", "Centroid", "Bounds"},
		maxWidth: maxWidth,
	}
}

func (f *TableFormatter) cells(r Row) []string {
	return []string{
		r.ID,
		r.Name,
		r.Kind(),
		r.Class,
		util.FormatNumber(r.Vertices),
		fmt.Sprintf("(%s, %s)", formatCoord(r.CentroidX), formatCoord(r.CentroidY)),
		fmt.Sprintf("%s,%s → %s,%s", formatCoord(r.MinX), formatCoord(r.MinY), formatCoord(r.MaxX), formatCoord(r.MaxY)),
	}
}

func (f *TableFormatter) Format(w io.Writer, report Report) error {
	rows := make([][]string, len(report.Rows))
	totalVertices := 0
	for i, r := range report.Rows {
		rows[i] = f.cells(r)
		totalVertices += r.Vertices
	}
	total := []string{"Total", fmt.Sprintf("%d entities", len(report.Rows)), "", "", util.FormatNumber(totalVertices), "", ""}

	widths := f.calculateColumnWidths(append(rows, total))
	for _, row := range append(rows, total) {
		row[1] = f.sizer.Truncate(row[1], widths[1])
	}

	fmt.Fprintln(w, util.FormatHeaderTitle("Snapshot "+util.FormatYear(report.Year)))
	f.printBorder(w, widths, "top")
	f.printRow(w, f.headers, widths)
	f.printBorder(w, widths, "middle")
	for _, row := range rows {
		f.printRow(w, row, widths)
	}
	f.printBorder(w, widths, "middle")
	f.printRow(w, total, widths)
	f.printBorder(w, widths, "bottom")
	return nil
}

// calculateColumnWidths sizes columns to their content, then narrows Name
// when the table would exceed maxWidth.
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, h := range f.headers {
		widths[i] = f.sizer.DisplayWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := f.sizer.DisplayWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	if f.maxWidth > 0 {
		total := 1
		for _, cw := range widths {
			total += cw + 3
		}
		if over := total - f.maxWidth; over > 0 {
			widths[1] = max(widths[1]-over, f.sizer.DisplayWidth(f.headers[1]))
		}
	}
	return widths
}

func (f *TableFormatter) printBorder(w io.Writer, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	fmt.Fprintln(w, b.String())
}

// printRow left-aligns text columns and right-aligns Vertices.
func (f *TableFormatter) printRow(w io.Writer, values []string, widths []int) {
	var b strings.Builder
	b.WriteString("│")
	for i, value := range values {
		b.WriteString(" ")
		b.WriteString(f.sizer.PadString(value, widths[i], i != 4))
		b.WriteString(" │")
	}
	fmt.Fprintln(w, b.String())
}
