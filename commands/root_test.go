package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-chrono-atlas/internal/testing/e2e"
	"github.com/penwyp/go-chrono-atlas/internal/testing/fixtures"
)

func TestRootCommandFlags(t *testing.T) {
	tests := []struct {
		flag         string
		defaultValue string
	}{
		{"dir", "."},
		{"file", "[]"},
		{"resample", "0"},
		{"margin", "0"},
		{"timezone", "Local"},
		{"debug", "false"},
		{"log-level", "info"},
		{"log-format", "text"},
		{"log-file", defaultLogFile},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flag)
			require.NotNil(t, flag)
			assert.Equal(t, tt.defaultValue, flag.DefValue)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	abs, err := filepath.Abs("relative/path")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "test/path"), expandPath("~/test/path"))
	assert.Equal(t, "/absolute/path", expandPath("/absolute/path"))
	assert.Equal(t, abs, expandPath("relative/path"))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "test", "nested", "dir")
	require.NoError(t, ensureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NoError(t, ensureDir(dir))
}

func TestListAtlases(t *testing.T) {
	out, _, err := execute(t, "--dir", atlasDir(t))
	require.NoError(t, err)

	assert.Contains(t, out, "2 atlases, 3 entities")
	assert.Contains(t, out, "rome-atlas")
	assert.Contains(t, out, "rivers-atlas")
	assert.Contains(t, out, "AD 0")
	assert.Contains(t, out, "Layers: geographic, political")
	assert.Contains(t, out, "Keyframes: 100 BC – AD 100")
	assert.Contains(t, out, " B ")
}

func TestListUsesEnvDir(t *testing.T) {
	t.Setenv(envDataDir, atlasDir(t))
	out, _, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "rome-atlas")

	// an explicit flag wins over the environment
	out, _, err = execute(t, "--dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No atlas files found.")
}

func TestListSelectedFiles(t *testing.T) {
	dir := atlasDir(t)
	out, _, err := execute(t, "--file", filepath.Join(dir, "rivers.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "1 atlases, 1 entities")
	assert.NotContains(t, out, "rome-atlas")
}

func TestListSkipsBrokenFiles(t *testing.T) {
	dir := atlasDir(t)
	writeFile(t, dir, "broken.json", `{"meta":`)

	out, errOut, err := execute(t, "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 atlases")
	assert.Contains(t, errOut, "broken.json")
}

func TestListConnections(t *testing.T) {
	dir := atlasDir(t)
	writeFile(t, dir, "links.json", linksAtlas)

	out, _, err := execute(t, "--dir", dir)
	require.NoError(t, err)
	out = e2e.StripANSI(out)
	assert.Contains(t, out, "Connections: 3 (2 invalid, see validate)")

	out, _, err = execute(t, "--dir", atlasDir(t))
	require.NoError(t, err)
	assert.NotContains(t, out, "Connections:")
}

func TestLoadFailsWhenNothingLoads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{"meta":`)

	_, _, err := execute(t, "--dir", dir)
	assert.ErrorContains(t, err, "no atlas could be loaded")
}

func TestInvalidTimezone(t *testing.T) {
	_, _, err := execute(t, "--dir", t.TempDir(), "--timezone", "Mars/Olympus")
	assert.ErrorContains(t, err, "invalid timezone")
}

func TestListNestedDirectories(t *testing.T) {
	gen := fixtures.NewAtlasGenerator(t.TempDir())
	_, err := gen.GenerateGrid("grid.json", "grid", "political", 2, 10, 0)
	require.NoError(t, err)
	_, err = gen.GenerateGrowth("nested/rome.json", "rome", -100, 100, 100, 200)
	require.NoError(t, err)
	_, err = gen.CreateEmptyDir("empty")
	require.NoError(t, err)

	out, _, err := execute(t, "--dir", gen.BaseDir())
	require.NoError(t, err)
	out = e2e.StripANSI(out)

	assert.Contains(t, out, "2 atlases, 5 entities")
	assert.Contains(t, out, "grid.json")
	assert.Contains(t, out, "rome.json")
	assert.Contains(t, out, "Layers: political")
	assert.Contains(t, out, "Keyframes: 100 BC – AD 100")
}
