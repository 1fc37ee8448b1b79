// Package shell is the single-goroutine scheduler that owns the desktop state.
//
// The scheduler queues structured events and applies them on the next fast
// tick. The fast tick also drains the metrics slot. The slow tick refreshes
// the wall clock. Nothing here blocks, and the window stack and terminal
// buffer are only ever touched from inside a tick.
package shell

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/retrodesk/internal/geom"
	"github.com/1broseidon/retrodesk/internal/metrics"
	"github.com/1broseidon/retrodesk/internal/termbuf"
	"github.com/1broseidon/retrodesk/internal/winstack"
)

const (
	DefaultFastInterval = 16 * time.Millisecond
	DefaultSlowInterval = 250 * time.Millisecond
	DefaultClockLayout  = "15:04:05"

	TerminalTitle = "Terminal"
	AboutTitle    = "About webOS 95"
)

// DefaultBanner is written to every new terminal.
var DefaultBanner = []string{"webOS 95 Terminal", "Type 'help' for commands."}

var aboutBody = []string{
	"webOS 95 Vibes",
	"Terminal desktop edition",
	"Bubble Tea UI + frame timer",
	"Vibes = ON",
}

// Config holds configuration for the scheduler.
type Config struct {
	FastInterval time.Duration
	SlowInterval time.Duration
	ClockLayout  string

	Desktop        geom.Rect // area windows are kept inside; zero disables clamping
	TerminalBounds geom.Rect
	AboutBounds    geom.Rect

	Prompt   string
	Banner   []string
	Clamp    termbuf.ClampMode
	MaxLines int
	Handler  termbuf.Handler

	Now      func() time.Time
	OnSample func(metrics.Sample)
	OnFrame  func(*Snapshot)
	Board    *Board
	Logger   *zap.Logger
}

// Scheduler owns the window stack and terminal buffer.
type Scheduler struct {
	cfg    Config
	logger *zap.Logger

	stack   *winstack.Stack
	samples *metrics.Channel
	pending []Event

	term    *termbuf.Buffer
	termID  winstack.WindowID
	dialogs map[winstack.WindowID][]string

	captured  winstack.WindowID
	capturing bool

	rate      metrics.Sample
	rateKnown bool
	clock     string
	frames    uint64
	dirty     bool
}

// New creates a scheduler that drains samples on every fast tick. samples may be nil.
func New(cfg Config, samples *metrics.Channel) *Scheduler {
	if cfg.FastInterval <= 0 {
		cfg.FastInterval = DefaultFastInterval
	}
	if cfg.SlowInterval <= 0 {
		cfg.SlowInterval = DefaultSlowInterval
	}
	if cfg.ClockLayout == "" {
		cfg.ClockLayout = DefaultClockLayout
	}
	if cfg.TerminalBounds.Empty() {
		cfg.TerminalBounds = geom.Rect{X: 12, Y: 3, Width: 64, Height: 16}
	}
	if cfg.AboutBounds.Empty() {
		cfg.AboutBounds = geom.Rect{X: 20, Y: 6, Width: 40, Height: 8}
	}
	if cfg.Banner == nil {
		cfg.Banner = DefaultBanner
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if samples == nil {
		samples = &metrics.Channel{}
	}

	return &Scheduler{
		cfg:    cfg,
		logger: cfg.Logger,
		stack: winstack.New(
			winstack.WithBounds(cfg.Desktop),
			winstack.WithLogger(cfg.Logger.Named("winstack")),
		),
		samples: samples,
		dialogs: make(map[winstack.WindowID][]string),
		clock:   cfg.Now().Format(cfg.ClockLayout),
		dirty:   true,
	}
}

// Intervals returns the fast and slow tick periods.
func (s *Scheduler) Intervals() (fast, slow time.Duration) {
	return s.cfg.FastInterval, s.cfg.SlowInterval
}

// Post queues an event for the next fast tick.
func (s *Scheduler) Post(ev Event) {
	if ev != nil {
		s.pending = append(s.pending, ev)
	}
}

// FastTick drains the metrics slot, applies queued events and, when anything
// changed since the last redraw, counts a frame. It reports whether a redraw
// is needed.
func (s *Scheduler) FastTick(now time.Time) bool {
	if sample, ok := s.samples.DrainLatest(); ok {
		if !s.rateKnown || sample.RoundedRate() != s.rate.RoundedRate() {
			s.dirty = true
		}
		s.rate = sample
		s.rateKnown = true
		if s.cfg.OnSample != nil {
			s.cfg.OnSample(sample)
		}
	}

	events := s.pending
	s.pending = nil
	for _, ev := range events {
		if s.apply(ev) {
			s.dirty = true
		}
	}

	if !s.dirty {
		return false
	}
	s.dirty = false
	s.frames++

	if s.cfg.Board != nil || s.cfg.OnFrame != nil {
		snap := s.Snapshot()
		if s.cfg.Board != nil {
			s.cfg.Board.Store(snap)
		}
		if s.cfg.OnFrame != nil {
			s.cfg.OnFrame(snap)
		}
	}
	return true
}

// SlowTick refreshes the wall clock string. It reports whether it changed.
func (s *Scheduler) SlowTick(now time.Time) bool {
	clock := now.Format(s.cfg.ClockLayout)
	if clock == s.clock {
		return false
	}
	s.clock = clock
	s.dirty = true
	return true
}

// Run drives both ticks from its own tickers until ctx is cancelled,
// queueing whatever arrives on events. Use it when no UI framework owns the loop.
func (s *Scheduler) Run(ctx context.Context, events <-chan Event) error {
	fast := time.NewTicker(s.cfg.FastInterval)
	defer fast.Stop()
	slow := time.NewTicker(s.cfg.SlowInterval)
	defer slow.Stop()

	s.logger.Info("scheduler started",
		zap.Duration("fast", s.cfg.FastInterval),
		zap.Duration("slow", s.cfg.SlowInterval))

	s.SlowTick(s.cfg.Now())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped", zap.Uint64("frames", s.frames))
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.Post(ev)
		case t := <-fast.C:
			s.FastTick(t)
		case t := <-slow.C:
			s.SlowTick(t)
		}
	}
}

// Stack exposes the window stack for read-only inspection.
func (s *Scheduler) Stack() *winstack.Stack {
	return s.stack
}

// Terminal returns the terminal buffer and window, if the terminal is open.
func (s *Scheduler) Terminal() (*termbuf.Buffer, winstack.WindowID, bool) {
	if s.term == nil {
		return nil, 0, false
	}
	return s.term, s.termID, true
}

// ClearTerminal wipes the terminal transcript. It is meant to be called
// from the command handler while a line is being submitted.
func (s *Scheduler) ClearTerminal() {
	if s.term != nil {
		s.term.Clear()
	}
}

// Rate returns the last drained sample.
func (s *Scheduler) Rate() (metrics.Sample, bool) {
	return s.rate, s.rateKnown
}

// Clock returns the wall clock string.
func (s *Scheduler) Clock() string {
	return s.clock
}

// Frames returns how many fast ticks produced a redraw.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// Snapshot builds the current view of the desktop.
func (s *Scheduler) Snapshot() *Snapshot {
	snap := &Snapshot{
		Rate:      s.rate.Rate,
		RateKnown: s.rateKnown,
		Clock:     s.clock,
		Frames:    s.frames,
	}

	for _, w := range s.stack.Windows() {
		view := WindowView{
			ID:      w.ID,
			Title:   w.Title,
			Kind:    KindDialog,
			Bounds:  w.Bounds,
			Z:       w.Z,
			Focused: w.Focused,
		}
		if w.ID == s.termID && s.term != nil {
			view.Kind = KindTerminal
			view.Body, view.Cursor = s.terminalBody(ContentRect(w.Bounds).Height)
		} else {
			view.Body = s.dialogs[w.ID]
		}
		snap.Windows = append(snap.Windows, view)
	}

	if s.term != nil {
		snap.Transcript = append(s.term.Lines(), s.term.LiveLine())
		snap.Input = s.term.Input()
	}
	return snap
}

func (s *Scheduler) terminalBody(rows int) ([]string, *geom.Point) {
	body := s.term.Tail(rows)
	if len(body) == 0 {
		return nil, nil
	}
	live := body[len(body)-1]
	cursor := geom.Point{
		X: CellWidth(live, s.term.CursorColumn()),
		Y: len(body) - 1,
	}
	return body, &cursor
}

func (s *Scheduler) apply(ev Event) bool {
	switch ev := ev.(type) {
	case PointerPress:
		return s.press(ev.At)
	case PointerMotion:
		if !s.capturing {
			return false
		}
		return s.stack.Drag(s.captured, ev.At)
	case PointerRelease:
		if !s.capturing {
			return false
		}
		s.capturing = false
		return s.stack.Release(s.captured)
	case KeyInput:
		return s.key(ev)
	case OpenTerminal:
		s.openTerminal()
		return true
	case OpenAbout:
		s.openAbout()
		return true
	case RaiseWindow:
		return s.stack.Raise(ev.ID)
	case CloseWindow:
		return s.closeWindow(ev.ID)
	case CloseFocused:
		id, ok := s.stack.Focused()
		if !ok {
			return false
		}
		return s.closeWindow(id)
	case Resize:
		s.cfg.Desktop = geom.Rect{Width: ev.Width, Height: ev.Height}
		s.stack.SetBounds(s.cfg.Desktop)
		return true
	default:
		s.logger.Debug("unhandled event", zap.Any("event", ev))
		return false
	}
}

func (s *Scheduler) press(p geom.Point) bool {
	// A new press ends any capture whose release never arrived.
	if s.capturing {
		s.capturing = false
		s.stack.Release(s.captured)
	}

	id, ok := s.stack.WindowAt(p)
	if !ok {
		return false
	}
	w, _ := s.stack.Window(id)
	if CloseButton(w.Bounds).Contains(p) {
		return s.closeWindow(id)
	}

	s.stack.Press(id, p)
	s.captured = id
	s.capturing = true

	if id == s.termID && s.term != nil {
		s.pointTerminal(w.Bounds, p)
	}
	return true
}

// pointTerminal moves the terminal cursor to the clicked cell. Clicks above
// the input line are clamped by the buffer.
func (s *Scheduler) pointTerminal(bounds geom.Rect, p geom.Point) {
	content := ContentRect(bounds)
	if !content.Contains(p) {
		return
	}
	body := s.term.Tail(content.Height)
	row := p.Y - content.Y
	if row >= len(body) {
		row = len(body) - 1
	}
	bufRow := s.term.Rows() - len(body) + row
	col := RuneIndexAt(body[row], p.X-content.X)
	s.term.Edit(termbuf.MoveCursor{Pos: s.term.OffsetAt(bufRow, col)})
}

func (s *Scheduler) key(ev KeyInput) bool {
	id, ok := s.stack.Focused()
	if !ok {
		return false
	}
	if id != s.termID || s.term == nil {
		if ev.Key == KeyEnter || ev.Key == KeyEscape {
			return s.closeWindow(id)
		}
		return false
	}

	switch ev.Key {
	case KeyRune:
		return s.term.TypeRune(ev.Rune)
	case KeyEnter:
		s.term.Submit()
		return true
	case KeyBackspace:
		return s.term.Backspace()
	case KeyDelete:
		return s.term.DeleteForward()
	case KeyLeft:
		return s.term.CursorLeft()
	case KeyRight:
		return s.term.CursorRight()
	case KeyHome:
		return s.term.CursorHome()
	case KeyEnd:
		return s.term.CursorEnd()
	default:
		return false
	}
}

func (s *Scheduler) openTerminal() {
	if s.term != nil {
		s.stack.Raise(s.termID)
		return
	}
	s.term = termbuf.New(termbuf.Options{
		Prompt:   s.cfg.Prompt,
		Clamp:    s.cfg.Clamp,
		MaxLines: s.cfg.MaxLines,
		Handler:  s.cfg.Handler,
		Logger:   s.logger.Named("termbuf"),
	})
	for _, line := range s.cfg.Banner {
		s.term.AppendOutput(line)
	}
	s.termID = s.stack.Open(TerminalTitle, s.cfg.TerminalBounds)
}

func (s *Scheduler) openAbout() {
	offset := geom.Point{X: 2 * len(s.dialogs), Y: len(s.dialogs)}
	bounds := s.cfg.AboutBounds.MoveTo(s.cfg.AboutBounds.Origin().Add(offset))
	id := s.stack.Open(AboutTitle, bounds)
	s.dialogs[id] = aboutBody
}

func (s *Scheduler) closeWindow(id winstack.WindowID) bool {
	if !s.stack.Close(id) {
		return false
	}
	if id == s.termID {
		s.term = nil
		s.termID = 0
	}
	delete(s.dialogs, id)
	if s.capturing && s.captured == id {
		s.capturing = false
	}
	return true
}
