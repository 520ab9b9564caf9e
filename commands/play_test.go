package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayCommandFlags(t *testing.T) {
	tests := []struct {
		flag         string
		defaultValue string
	}{
		{"start", "0"},
		{"end", "0"},
		{"step", "10"},
		{"fps", "4"},
		{"watch", "false"},
		{"layer", ""},
		{"sort", "name"},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := playCmd.Flags().Lookup(tt.flag)
			require.NotNil(t, flag)
			assert.Equal(t, tt.defaultValue, flag.DefValue)
		})
	}
}

func TestRunPlayValidation(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		args     []string
		errorMsg string
	}{
		{"fps too low", []string{"--fps", "0"}, "fps must be between 0.1 and 30"},
		{"fps too high", []string{"--fps", "60"}, "fps must be between 0.1 and 30"},
		{"zero step", []string{"--step", "0"}, "step must be positive"},
		{"bad sort", []string{"--sort", "size"}, "unknown sort field"},
		{"reversed range", []string{"--start", "100", "--end", "10"}, "end year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"play", "--dir", dir}, tt.args...)
			_, _, err := execute(t, args...)
			assert.ErrorContains(t, err, tt.errorMsg)
		})
	}
}

func TestWatchCommandFlags(t *testing.T) {
	for flag, def := range map[string]string{"year": "0", "layer": "", "sort": "name", "output": "table"} {
		f := watchCmd.Flags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, def, f.DefValue, flag)
	}
}
