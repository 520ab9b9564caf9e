package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyboardReader(t *testing.T) {
	kr := &KeyboardReader{
		input: make(chan KeyEvent, 10),
		stop:  make(chan struct{}),
	}

	tests := []struct {
		name     string
		input    []byte
		expected *KeyEvent
	}{
		{name: "Regular char", input: []byte{'a'}, expected: &KeyEvent{Key: 'a', Type: KeyChar}},
		{name: "Space", input: []byte{' '}, expected: &KeyEvent{Key: ' ', Type: KeyChar}},
		{name: "Ctrl+C", input: []byte{3}, expected: &KeyEvent{Key: 3, Type: KeyChar}},
		{name: "Escape", input: []byte{27}, expected: &KeyEvent{Key: 27, Type: KeyEscape}},
		{name: "Arrow up", input: []byte{27, '[', 'A'}, expected: &KeyEvent{Type: KeyUp}},
		{name: "Arrow down", input: []byte{27, '[', 'B'}, expected: &KeyEvent{Type: KeyDown}},
		{name: "Arrow right", input: []byte{27, '[', 'C'}, expected: &KeyEvent{Type: KeyRight}},
		{name: "Arrow left", input: []byte{27, '[', 'D'}, expected: &KeyEvent{Type: KeyLeft}},
		{name: "Unknown sequence", input: []byte{27, '[', 'Z'}, expected: nil},
		{name: "Alt chord", input: []byte{27, 'x'}, expected: nil},
		{name: "Empty", input: nil, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, kr.parseInput(tt.input))
		})
	}
}

func TestKeyEvent_IsInterrupt(t *testing.T) {
	assert.True(t, KeyEvent{Key: 3, Type: KeyChar}.IsInterrupt())
	assert.False(t, KeyEvent{Key: 'q', Type: KeyChar}.IsInterrupt())
	assert.False(t, KeyEvent{Key: 3, Type: KeyEscape}.IsInterrupt())
}
