package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-chrono-atlas/internal/core/entity"
	"github.com/penwyp/go-chrono-atlas/internal/data/atlas"
	"github.com/penwyp/go-chrono-atlas/internal/util"
)

var (
	exportYear    float64
	exportLayer   string
	exportAuthor  string
	exportGeoJSON bool
	exportFile    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write loaded entities as an atlas or GeoJSON file",
	Long: `Without --year every entity is written with its full timeline.

With --year only the shapes at that year are written, as snapshot features
carrying GeoJSON geometry. --geojson writes a plain FeatureCollection
instead of an atlas document.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Float64VarP(&exportYear, "year", "y", 0,
		"Export a snapshot at this year instead of full timelines")
	exportCmd.Flags().StringVar(&exportLayer, "layer", "",
		"Only export entities from atlases of this layer")
	exportCmd.Flags().StringVar(&exportAuthor, "author", "",
		"Author written into the atlas meta")
	exportCmd.Flags().BoolVar(&exportGeoJSON, "geojson", false,
		"Write a GeoJSON FeatureCollection (implies a snapshot)")
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "",
		"Output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	m, err := loadWorkspace(newConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	es := m.Entities()
	if exportLayer != "" {
		es = m.EntitiesByLayer(exportLayer)
	}
	snapshot := cmd.Flags().Changed("year")

	data, err := encodeExport(es, snapshot)
	if err != nil {
		return err
	}

	if err := writeTo(cmd.OutOrStdout(), exportFile, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportFile, err)
	}
	if exportFile == "" {
		return nil
	}
	util.LogInfo(fmt.Sprintf("Exported %d entities to %s", len(es), exportFile))
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entities to %s\n", len(es), exportFile)
	return nil
}

func encodeExport(es []*entity.Entity, snapshot bool) ([]byte, error) {
	now := util.GetClock().Now()

	if exportGeoJSON {
		data, err := atlas.SnapshotFeatureCollection(es, exportYear).MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode GeoJSON: %w", err)
		}
		return data, nil
	}

	layer := exportLayer
	if layer == "" {
		layer = "combined"
	}

	var doc *atlas.Document
	if snapshot {
		meta := atlas.SessionMeta(layer, int(exportYear), exportAuthor, now)
		meta.Description = fmt.Sprintf("Snapshot of %s layer at %s", layer, util.FormatYear(exportYear))
		doc = atlas.ExportSnapshot(meta, es, exportYear, now)
	} else {
		doc = atlas.Export(atlas.Meta{
			Layer:   layer,
			Author:  exportAuthor,
			Created: now.Format(time.RFC3339),
		}, es, now)
	}

	data, err := atlas.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode atlas: %w", err)
	}
	return data, nil
}

// writeTo writes data to path, or to w when path is empty. A file that
// already holds the same content is left untouched.
func writeTo(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(append(data, '\n'))
		return err
	}
	path = expandPath(path)
	if old, err := os.ReadFile(path); err == nil && util.FingerprintBytes(old) == util.FingerprintBytes(data) {
		util.LogDebug(fmt.Sprintf("%s unchanged, not rewritten", path))
		return nil
	}
	return os.WriteFile(path, data, 0644)
}
