package termbuf

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(text string) string {
	if len(text) > 5 && text[:5] == "echo " {
		return text[5:]
	}
	return ""
}

func TestNewBufferStartsAtPrompt(t *testing.T) {
	b := New(Options{})

	assert.Equal(t, DefaultPrompt, b.LiveLine())
	assert.Equal(t, len([]rune(DefaultPrompt)), b.InputStart())
	assert.Equal(t, b.InputStart(), b.Cursor())
	assert.Equal(t, b.InputStart(), b.Len())
	assert.Empty(t, b.Lines())
}

func TestDeleteAtInputStartIsNoOp(t *testing.T) {
	for n := 0; n < 6; n++ {
		b := New(Options{})
		for i := 0; i < n; i++ {
			b.TypeRune('a' + rune(i))
		}
		before := b.Len()
		input := b.Input()

		assert.False(t, b.Edit(Delete{Pos: b.InputStart()}))
		assert.False(t, b.Edit(Delete{Pos: b.InputStart() - 3}))
		assert.Equal(t, before, b.Len(), "n=%d", n)
		assert.Equal(t, input, b.Input(), "n=%d", n)
	}
}

func TestBackspaceAtInputStartKeepsPrompt(t *testing.T) {
	b := New(Options{})
	b.TypeString("ab")

	assert.True(t, b.Backspace())
	assert.True(t, b.Backspace())
	assert.False(t, b.Backspace())
	assert.Equal(t, DefaultPrompt, b.LiveLine())
}

func TestAppendOutputLastLine(t *testing.T) {
	for _, s := range []string{"", "hello", "héllo wörld", "  spaced  ", `C:\path`} {
		b := New(Options{})
		b.AppendOutput(s)
		last, ok := b.LastLine()
		require.True(t, ok)
		assert.Equal(t, s, last)
	}
}

func TestAppendOutputPreservesInFlightInput(t *testing.T) {
	b := New(Options{})
	b.TypeString("ec")
	start, cursor := b.InputStart(), b.Cursor()

	b.AppendOutput("note")

	assert.Equal(t, "ec", b.Input())
	assert.Equal(t, start+5, b.InputStart())
	assert.Equal(t, cursor+5, b.Cursor())
	assert.Equal(t, []string{"note"}, b.Lines())
}

func TestAppendOutputSplitsLines(t *testing.T) {
	b := New(Options{})
	b.AppendOutput("one\ntwo")
	assert.Equal(t, []string{"one", "two"}, b.Lines())
	assert.Equal(t, 8+len([]rune(DefaultPrompt)), b.InputStart())
}

func TestSubmitCommitsAndDispatches(t *testing.T) {
	var got []string
	b := New(Options{Handler: HandlerFunc(func(text string) string {
		got = append(got, text)
		return echoHandler(text)
	})})
	b.TypeString("echo hi")

	assert.Equal(t, "echo hi", b.Submit())
	assert.Equal(t, []string{"echo hi"}, got)
	assert.Equal(t, []string{DefaultPrompt + "echo hi", "hi"}, b.Lines())
	assert.Equal(t, b.Len(), b.InputStart())
	assert.Equal(t, DefaultPrompt, b.LiveLine())
}

func TestSubmitAlwaysEndsAtInputStart(t *testing.T) {
	responses := []string{"", "x", "a\nb\nc", "\n"}
	for _, resp := range responses {
		b := New(Options{Handler: HandlerFunc(func(string) string { return resp })})
		b.TypeString("cmd")
		b.CursorLeft()
		b.Submit()
		assert.Equal(t, b.Len(), b.InputStart(), "response %q", resp)
		assert.Equal(t, b.InputStart(), b.Cursor())
	}
}

func TestSubmitEmptyLineAddsNoResponse(t *testing.T) {
	b := New(Options{})
	assert.Equal(t, "", b.Submit())
	assert.Equal(t, []string{DefaultPrompt}, b.Lines())
}

func TestClampModes(t *testing.T) {
	tests := []struct {
		name       string
		mode       ClampMode
		wantInput  string
		wantCursor func(b *Buffer) int
	}{
		{"end", ClampToEnd, "abcx", func(b *Buffer) int { return b.Len() }},
		{"input start", ClampToInputStart, "xabc", func(b *Buffer) int { return b.InputStart() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(Options{Clamp: tt.mode})
			b.TypeString("abc")
			b.CursorHome()
			b.CursorRight()

			require.True(t, b.Edit(Insert{Ch: 'x', Pos: 2}))
			assert.Equal(t, tt.wantInput, b.Input())

			b.Edit(MoveCursor{Pos: 0})
			assert.Equal(t, tt.wantCursor(b), b.Cursor())
		})
	}
}

func TestInsertPastEndAppends(t *testing.T) {
	b := New(Options{})
	b.TypeString("ab")
	b.Edit(Insert{Ch: 'c', Pos: b.Len() + 40})
	assert.Equal(t, "abc", b.Input())
	assert.Equal(t, b.Len(), b.Cursor())
}

func TestMidLineEditing(t *testing.T) {
	b := New(Options{})
	b.TypeString("abc")
	require.True(t, b.CursorLeft())

	require.True(t, b.Backspace())
	assert.Equal(t, "ac", b.Input())
	assert.Equal(t, b.InputStart()+1, b.Cursor())

	require.True(t, b.DeleteForward())
	assert.Equal(t, "a", b.Input())
	assert.False(t, b.DeleteForward())

	b.CursorHome()
	b.TypeRune('>')
	assert.Equal(t, ">a", b.Input())
	assert.True(t, b.CursorEnd())
	assert.Equal(t, b.Len(), b.Cursor())
}

func TestCursorNeverBeforeInputStart(t *testing.T) {
	for _, mode := range []ClampMode{ClampToEnd, ClampToInputStart} {
		rng := rand.New(rand.NewSource(int64(mode) + 1))
		b := New(Options{Clamp: mode, Handler: HandlerFunc(echoHandler)})

		for step := 0; step < 500; step++ {
			pos := rng.Intn(b.Len() + 10)
			switch rng.Intn(6) {
			case 0:
				b.Edit(Insert{Ch: 'a' + rune(rng.Intn(26)), Pos: pos})
			case 1:
				b.Edit(Delete{Pos: pos})
			case 2:
				b.Edit(MoveCursor{Pos: pos})
			case 3:
				b.AppendOutput("out")
			case 4:
				if rng.Intn(10) == 0 {
					b.Submit()
				}
			case 5:
				b.Backspace()
			}

			require.GreaterOrEqual(t, b.Cursor(), b.InputStart(), "mode %s step %d", mode, step)
			require.LessOrEqual(t, b.Cursor(), b.Len())
			require.Equal(t, b.Prompt(), b.LiveLine()[:len(b.Prompt())])
		}
	}
}

func TestCommittedLinesAreImmutable(t *testing.T) {
	b := New(Options{})
	b.AppendOutput("keep me")
	snapshot := b.Lines()

	for pos := 0; pos < b.InputStart(); pos++ {
		b.Edit(Delete{Pos: pos})
		b.Edit(Insert{Ch: 'z', Pos: pos})
	}
	assert.Equal(t, snapshot, b.Lines())
}

func TestMaxLinesTrimsOldest(t *testing.T) {
	b := New(Options{MaxLines: 3})
	for _, s := range []string{"1", "2", "3", "4", "5"} {
		b.AppendOutput(s)
	}

	assert.Equal(t, []string{"3", "4", "5"}, b.Lines())
	assert.Equal(t, 10+len([]rune(DefaultPrompt)), b.InputStart())
	assert.Equal(t, 4, b.OffsetAt(0, 0))
}

func TestOffsetAt(t *testing.T) {
	b := New(Options{Prompt: "> "})
	b.AppendOutput("abc\nde")
	b.TypeString("xyz")

	assert.Equal(t, 0, b.OffsetAt(0, 0))
	assert.Equal(t, 3, b.OffsetAt(0, 99))
	assert.Equal(t, 5, b.OffsetAt(1, 1))
	assert.Equal(t, 7+2, b.OffsetAt(2, 2))
	assert.Equal(t, b.Len(), b.OffsetAt(8, 99))
	assert.Equal(t, 0, b.OffsetAt(-1, -1))
}

func TestPointerCursorIsClamped(t *testing.T) {
	b := New(Options{Prompt: "> "})
	b.AppendOutput("history")
	b.TypeString("ls")

	b.Edit(MoveCursor{Pos: b.OffsetAt(0, 2)})
	assert.Equal(t, b.Len(), b.Cursor())

	b.Edit(MoveCursor{Pos: b.OffsetAt(1, 0)})
	assert.Equal(t, b.Len(), b.Cursor())

	b.Edit(MoveCursor{Pos: b.OffsetAt(1, 3)})
	assert.Equal(t, b.InputStart()+1, b.Cursor())
}

func TestClearResetsTranscript(t *testing.T) {
	var b *Buffer
	b = New(Options{Handler: HandlerFunc(func(text string) string {
		if text == "clear" {
			b.Clear()
		}
		return ""
	})})
	b.AppendOutput("banner")
	b.TypeString("clear")
	b.Submit()

	assert.Empty(t, b.Lines())
	assert.Equal(t, DefaultPrompt, b.LiveLine())
	assert.Equal(t, len([]rune(DefaultPrompt)), b.InputStart())
	assert.Equal(t, b.Len(), b.InputStart())
}

func TestTail(t *testing.T) {
	b := New(Options{Prompt: "$ "})
	b.AppendOutput("a\nb\nc")

	assert.Equal(t, []string{"c", "$ "}, b.Tail(2))
	assert.Equal(t, []string{"a", "b", "c", "$ "}, b.Tail(10))
	assert.Nil(t, b.Tail(0))
	assert.Equal(t, 4, b.Rows())
}

func TestParseClampMode(t *testing.T) {
	tests := []struct {
		in   string
		want ClampMode
		ok   bool
	}{
		{"", ClampToEnd, true},
		{"end", ClampToEnd, true},
		{" Input_Start ", ClampToInputStart, true},
		{"front", ClampToEnd, false},
	}
	for _, tt := range tests {
		got, ok := ParseClampMode(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
	assert.Equal(t, "input_start", ClampToInputStart.String())
}
