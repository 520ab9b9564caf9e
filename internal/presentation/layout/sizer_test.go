package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSizer(t *testing.T) {
	s := NewSizer(120, 40)
	assert.Equal(t, 120, s.Width)
	assert.Equal(t, 40, s.Height)
	assert.Equal(t, 118, s.MaxWidth())
	assert.Equal(t, 40, NewSizer(10, 5).MaxWidth())
}

func TestTerminalSizerFallback(t *testing.T) {
	s := TerminalSizer()
	assert.Positive(t, s.Width)
	assert.Positive(t, s.Height)
}

func TestPadString(t *testing.T) {
	s := NewSizer(80, 24)
	tests := []struct {
		name  string
		in    string
		width int
		left  bool
		want  string
	}{
		{"left", "Rome", 6, true, "Rome  "},
		{"right", "42", 5, false, "   42"},
		{"wide runes", "漢字", 6, true, "漢字  "},
		{"already wide", "Byzantium", 3, true, "Byzantium"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.PadString(tt.in, tt.width, tt.left))
		})
	}
}

func TestTruncate(t *testing.T) {
	s := NewSizer(80, 24)
	assert.Equal(t, "Holy Roman…", s.Truncate("Holy Roman Empire", 11))
	assert.Equal(t, "Gaul", s.Truncate("Gaul", 10))
	assert.Equal(t, "", s.Truncate("Gaul", 0))
	assert.Equal(t, 4, s.DisplayWidth("漢字"))
}
