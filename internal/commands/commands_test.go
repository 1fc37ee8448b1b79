package commands

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{}},
		{"   ", Command{}},
		{"help", Command{Name: "help", Args: []string{}}},
		{"  ECHO  hello   world ", Command{Name: "echo", Args: []string{"hello", "world"}}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.line))
		})
	}
}

func TestHandle(t *testing.T) {
	fixed := time.Date(1995, 8, 24, 9, 30, 5, 0, time.UTC)
	h := NewHandler(Options{Now: func() time.Time { return fixed }})

	tests := []struct {
		line string
		want string
	}{
		{"", ""},
		{"echo hi", "hi"},
		{"echo   spaced    out", "spaced out"},
		{"echo", ""},
		{"time", "1995-08-24 09:30:05"},
		{"vibes", "Vibes = ON. 600 fps spirit mode."},
		{"dir", "Unknown command: dir"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Handle(tt.line))
		})
	}
}

func TestHelpListsEveryCommand(t *testing.T) {
	h := NewHandler(Options{})
	out := h.Handle("help")
	assert.Equal(t, out, h.Handle("?"))
	for _, name := range []string{"help", "echo", "time", "clear", "about", "vibes"} {
		assert.Contains(t, out, name)
	}
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestClearRunsCallback(t *testing.T) {
	cleared := 0
	h := NewHandler(Options{OnClear: func() { cleared++ }})

	assert.Equal(t, "", h.Handle("clear"))
	assert.Equal(t, 1, cleared)

	h.SetOnClear(nil)
	assert.Equal(t, "", h.Handle("CLEAR"))
	assert.Equal(t, 1, cleared)
}

func TestAbout(t *testing.T) {
	h := NewHandler(Options{})
	assert.Contains(t, h.Handle("about"), "webOS 95")
}
