// Package commands is the scripted vocabulary answered by the desktop terminal.
package commands

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Command is one parsed input line.
type Command struct {
	Name string
	Args []string
}

// Parse splits a line on whitespace. The name is lower-cased; an empty
// line yields an empty name.
func Parse(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}
	}
	return Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}
}

const helpText = `Commands:
  help          Show this help
  echo [text]   Echo text
  time          Show current time
  clear         Clear screen
  about         About this OS
  vibes         Show vibe status`

const aboutText = `webOS 95 Vibes, a terminal desktop with a background frame timer.
Floating windows, a taskbar and this terminal. FPS vibes on.`

// TimeLayout is how the time command prints the current time.
const TimeLayout = "2006-01-02 15:04:05"

// Options configures a Handler.
type Options struct {
	Now     func() time.Time
	OnClear func()
	Logger  *zap.Logger
}

// Handler answers command lines. It satisfies termbuf.Handler.
type Handler struct {
	now     func() time.Time
	onClear func()
	logger  *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(opts Options) *Handler {
	h := &Handler{now: opts.Now, onClear: opts.OnClear, logger: opts.Logger}
	if h.now == nil {
		h.now = time.Now
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	return h
}

// SetOnClear replaces the callback run by the clear command.
func (h *Handler) SetOnClear(fn func()) {
	h.onClear = fn
}

// Handle runs one command line and returns its output.
func (h *Handler) Handle(text string) string {
	cmd := Parse(text)
	switch cmd.Name {
	case "":
		return ""
	case "help", "?":
		return helpText
	case "echo":
		return strings.Join(cmd.Args, " ")
	case "time":
		return h.now().Format(TimeLayout)
	case "clear":
		if h.onClear != nil {
			h.onClear()
		}
		return ""
	case "about":
		return aboutText
	case "vibes":
		return "Vibes = ON. 600 fps spirit mode."
	default:
		h.logger.Debug("unknown command", zap.String("name", cmd.Name))
		return "Unknown command: " + cmd.Name
	}
}
