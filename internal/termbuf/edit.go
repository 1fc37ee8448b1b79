package termbuf

// Op is an edit applied to the live line. Positions are logical offsets.
type Op interface {
	apply(b *Buffer) bool
}

// Insert places Ch at Pos and leaves the cursor after it.
type Insert struct {
	Ch  rune
	Pos int
}

// Delete removes the rune just before Pos, the way backspace does. A delete
// at or before InputStart changes nothing.
type Delete struct {
	Pos int
}

// MoveCursor places the cursor at Pos.
type MoveCursor struct {
	Pos int
}

// Edit applies op to the live line. It reports whether the buffer changed
// (for MoveCursor, whether the cursor moved). Positions before InputStart
// never touch committed text.
func (b *Buffer) Edit(op Op) bool {
	if op == nil {
		return false
	}
	return op.apply(b)
}

func (op Insert) apply(b *Buffer) bool {
	col := b.clampCol(op.Pos - b.committed)
	b.live = append(b.live, 0)
	copy(b.live[col+1:], b.live[col:])
	b.live[col] = op.Ch
	b.cursor = col + 1
	return true
}

func (op Delete) apply(b *Buffer) bool {
	col := op.Pos - b.committed
	if col <= b.inputCol || col > len(b.live) {
		return false
	}
	b.live = append(b.live[:col-1], b.live[col:]...)
	b.cursor = col - 1
	return true
}

func (op MoveCursor) apply(b *Buffer) bool {
	col := b.clampCol(op.Pos - b.committed)
	moved := col != b.cursor
	b.cursor = col
	return moved
}

// clampCol pins a live-line column into the editable range.
func (b *Buffer) clampCol(col int) int {
	if col < b.inputCol {
		if b.clamp == ClampToInputStart {
			return b.inputCol
		}
		return len(b.live)
	}
	if col > len(b.live) {
		return len(b.live)
	}
	return col
}

// TypeRune inserts r at the cursor.
func (b *Buffer) TypeRune(r rune) bool {
	return b.Edit(Insert{Ch: r, Pos: b.Cursor()})
}

// TypeString inserts every rune of s at the cursor.
func (b *Buffer) TypeString(s string) {
	for _, r := range s {
		b.TypeRune(r)
	}
}

// Backspace deletes the rune before the cursor.
func (b *Buffer) Backspace() bool {
	return b.Edit(Delete{Pos: b.Cursor()})
}

// DeleteForward deletes the rune under the cursor.
func (b *Buffer) DeleteForward() bool {
	if b.cursor < b.inputCol || b.cursor >= len(b.live) {
		return false
	}
	return b.Edit(Delete{Pos: b.Cursor() + 1})
}

// CursorLeft moves the cursor one rune left, never past InputStart.
func (b *Buffer) CursorLeft() bool {
	if b.cursor <= b.inputCol {
		return false
	}
	return b.Edit(MoveCursor{Pos: b.Cursor() - 1})
}

// CursorRight moves the cursor one rune right.
func (b *Buffer) CursorRight() bool {
	return b.Edit(MoveCursor{Pos: b.Cursor() + 1})
}

// CursorHome moves the cursor to InputStart.
func (b *Buffer) CursorHome() bool {
	return b.Edit(MoveCursor{Pos: b.InputStart()})
}

// CursorEnd moves the cursor to the end of the live line.
func (b *Buffer) CursorEnd() bool {
	return b.Edit(MoveCursor{Pos: b.Len()})
}
