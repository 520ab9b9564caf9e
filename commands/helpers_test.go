package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-chrono-atlas/internal/presentation/formatter"
)

const romeAtlas = `{
  "meta": {"id": "rome-atlas", "layer": "political", "year": 0},
  "entities": [
    {"id": "rome", "name": "Rome", "domain": "political", "typology": "empire",
     "timeline": [
       {"year": -100, "geometry": [{"x":0,"y":0},{"x":100,"y":0},{"x":100,"y":100},{"x":0,"y":100}]},
       {"year": 100, "geometry": [{"x":0,"y":0},{"x":200,"y":0},{"x":200,"y":200},{"x":0,"y":200}]}
     ]},
    {"id": "capital", "name": "Roma", "domain": "geographic", "typology": "landmass", "subtype": "city",
     "timeline": [{"year": -100, "geometry": [{"x":50,"y":50}]}]}
  ]
}`

const riversAtlas = `{
  "meta": {"id": "rivers-atlas", "layer": "geographic", "year": 0},
  "entities": [
    {"id": "tiber", "name": "Tiber", "domain": "geographic", "typology": "aquatic", "subtype": "river",
     "timeline": [{"year": 0, "geometry": [{"x":0,"y":150},{"x":300,"y":150}]}]}
  ]
}`

// resetFlags puts every flag back to its default so tests do not leak
// values into each other through the package-level variables.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--log-file", filepath.Join(t.TempDir(), "test.log")))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// atlasDir writes the rome and rivers atlases into a fresh directory.
func atlasDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "rome.json", romeAtlas)
	writeFile(t, dir, "rivers.json", riversAtlas)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func decodeReport(t *testing.T, out string) formatter.Report {
	t.Helper()
	var report formatter.Report
	require.NoError(t, sonic.UnmarshalString(out, &report), out)
	return report
}

func rowIDs(report formatter.Report) []string {
	ids := make([]string, len(report.Rows))
	for i, r := range report.Rows {
		ids[i] = r.ID
	}
	return ids
}
