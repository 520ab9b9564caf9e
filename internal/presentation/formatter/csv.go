package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, report Report) error {
	cw := csv.NewWriter(w)

	headers := []string{
		"year", "id", "name", "layer", "domain", "typology", "subtype", "class",
		"vertices", "centroid_x", "centroid_y", "min_x", "min_y", "max_x", "max_y",
	}
	if err := cw.Write(headers); err != nil {
		return err
	}

	year := strconv.FormatFloat(report.Year, 'f', -1, 64)
	for _, r := range report.Rows {
		record := []string{
			year, r.ID, r.Name, r.Layer, r.Domain, r.Typology, r.Subtype, r.Class,
			fmt.Sprintf("%d", r.Vertices),
			strconv.FormatFloat(r.CentroidX, 'f', -1, 64),
			strconv.FormatFloat(r.CentroidY, 'f', -1, 64),
			strconv.FormatFloat(r.MinX, 'f', -1, 64),
			strconv.FormatFloat(r.MinY, 'f', -1, 64),
			strconv.FormatFloat(r.MaxX, 'f', -1, 64),
			strconv.FormatFloat(r.MaxY, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
