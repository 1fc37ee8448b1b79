// Package termbuf implements the line discipline behind the desktop terminal:
// an append-only transcript followed by one live line whose leading prompt is
// protected from editing.
//
// Positions are logical rune offsets. Every committed line counts its runes
// plus one for the line break, and the live line follows the last committed
// line. InputStart is the offset of the first editable rune of the live line.
package termbuf

import (
	"strings"

	"go.uber.org/zap"
)

// DefaultPrompt is written at the start of every input line.
const DefaultPrompt = `C:\webos95> `

// Handler answers a submitted command line. It runs on the UI goroutine and
// must return promptly.
type Handler interface {
	Handle(text string) string
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(text string) string

// Handle calls f(text).
func (f HandlerFunc) Handle(text string) string {
	return f(text)
}

// ClampMode decides where an insert or cursor move aimed before InputStart lands.
type ClampMode int

const (
	// ClampToEnd moves the position to the end of the live line.
	ClampToEnd ClampMode = iota
	// ClampToInputStart moves the position to InputStart.
	ClampToInputStart
)

// String returns the config spelling of the mode.
func (m ClampMode) String() string {
	switch m {
	case ClampToEnd:
		return "end"
	case ClampToInputStart:
		return "input_start"
	default:
		return "unknown"
	}
}

// ParseClampMode converts a config value to a ClampMode.
func ParseClampMode(s string) (ClampMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "end":
		return ClampToEnd, true
	case "input_start":
		return ClampToInputStart, true
	default:
		return ClampToEnd, false
	}
}

// Options configures a Buffer.
type Options struct {
	Prompt   string
	Clamp    ClampMode
	MaxLines int // committed lines kept; 0 keeps everything
	Handler  Handler
	Logger   *zap.Logger
}

// Buffer is the terminal transcript. It is not safe for concurrent use.
type Buffer struct {
	lines     []string
	committed int // logical length of every line ever committed, newlines included
	dropped   int // logical length of lines trimmed off the front

	live     []rune
	inputCol int // index into live where input begins
	cursor   int // index into live

	prompt   string
	clamp    ClampMode
	maxLines int
	handler  Handler
	logger   *zap.Logger
}

// New creates a buffer whose live line holds just the prompt.
func New(opts Options) *Buffer {
	b := &Buffer{
		prompt:   opts.Prompt,
		clamp:    opts.Clamp,
		maxLines: opts.MaxLines,
		handler:  opts.Handler,
		logger:   opts.Logger,
	}
	if b.prompt == "" {
		b.prompt = DefaultPrompt
	}
	if b.handler == nil {
		b.handler = HandlerFunc(func(string) string { return "" })
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	b.writePrompt()
	return b
}

// Prompt returns the prompt text.
func (b *Buffer) Prompt() string {
	return b.prompt
}

// InputStart returns the logical offset where editable input begins.
func (b *Buffer) InputStart() int {
	return b.committed + b.inputCol
}

// Cursor returns the logical cursor offset.
func (b *Buffer) Cursor() int {
	return b.committed + b.cursor
}

// Len returns the logical length of transcript plus live line.
func (b *Buffer) Len() int {
	return b.committed + len(b.live)
}

// Lines returns a copy of the committed lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// LastLine returns the most recently committed line.
func (b *Buffer) LastLine() (string, bool) {
	if len(b.lines) == 0 {
		return "", false
	}
	return b.lines[len(b.lines)-1], true
}

// LiveLine returns the prompt plus current input.
func (b *Buffer) LiveLine() string {
	return string(b.live)
}

// Input returns the editable part of the live line.
func (b *Buffer) Input() string {
	return string(b.live[b.inputCol:])
}

// CursorColumn returns the cursor position within the live line, in runes.
func (b *Buffer) CursorColumn() int {
	return b.cursor
}

// Tail returns up to n trailing rows: committed lines followed by the live line.
func (b *Buffer) Tail(n int) []string {
	if n <= 0 {
		return nil
	}
	rows := len(b.lines) + 1
	start := rows - n
	if start < 0 {
		start = 0
	}
	out := make([]string, 0, rows-start)
	for i := start; i < len(b.lines); i++ {
		out = append(out, b.lines[i])
	}
	return append(out, string(b.live))
}

// Rows returns the number of rows, live line included.
func (b *Buffer) Rows() int {
	return len(b.lines) + 1
}

// OffsetAt converts a row and rune column to a logical offset. Row indexes
// committed lines first and then the live line; out of range values are pinned.
func (b *Buffer) OffsetAt(row, col int) int {
	if row < 0 {
		row = 0
	}
	if col < 0 {
		col = 0
	}
	if row >= len(b.lines) {
		if col > len(b.live) {
			col = len(b.live)
		}
		return b.committed + col
	}

	off := 0
	for i := 0; i < row; i++ {
		off += lineLen(b.lines[i])
	}
	if n := len([]rune(b.lines[row])); col > n {
		col = n
	}
	return b.dropped + off + col
}

// AppendOutput commits text ahead of the live line, one line per line break.
// The live line keeps its input; InputStart and the cursor move by the
// inserted length.
func (b *Buffer) AppendOutput(text string) {
	for _, line := range strings.Split(text, "\n") {
		b.commit(line)
	}
	b.trim()
}

// Submit commits the live line, hands the input to the handler, appends the
// response and starts a new prompt. It returns the submitted input.
func (b *Buffer) Submit() string {
	input := string(b.live[b.inputCol:])
	b.commit(string(b.live))
	b.live = b.live[:0]
	b.inputCol = 0
	b.cursor = 0

	resp := b.handler.Handle(input)
	if resp != "" {
		for _, line := range strings.Split(resp, "\n") {
			b.commit(line)
		}
	}
	b.writePrompt()
	b.trim()

	b.logger.Debug("command submitted", zap.String("input", input), zap.Int("response_bytes", len(resp)))
	return input
}

// Clear drops the whole transcript and any pending input, leaving a fresh prompt.
func (b *Buffer) Clear() {
	b.lines = nil
	b.committed = 0
	b.live = b.live[:0]
	b.inputCol = 0
	b.cursor = 0
	b.dropped = 0
	b.writePrompt()
}

func (b *Buffer) writePrompt() {
	b.live = append(b.live[:0], []rune(b.prompt)...)
	b.inputCol = len(b.live)
	b.cursor = b.inputCol
}

func (b *Buffer) commit(line string) {
	b.lines = append(b.lines, line)
	b.committed += lineLen(line)
}

// trim enforces MaxLines by dropping the oldest committed lines.
func (b *Buffer) trim() {
	if b.maxLines <= 0 || len(b.lines) <= b.maxLines {
		return
	}
	drop := len(b.lines) - b.maxLines
	for _, line := range b.lines[:drop] {
		b.dropped += lineLen(line)
	}
	b.lines = append([]string(nil), b.lines[drop:]...)
}

func lineLen(line string) int {
	return len([]rune(line)) + 1
}
