package tui

import (
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/1broseidon/retrodesk/internal/geom"
	"github.com/1broseidon/retrodesk/internal/shell"
)

type fastTickMsg time.Time

type slowTickMsg time.Time

func fastTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return fastTickMsg(t) })
}

func slowTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return slowTickMsg(t) })
}

// Options configures the desktop program.
type Options struct {
	Scheduler *shell.Scheduler
	Wallpaper bool
	Icons     bool
	Logger    *zap.Logger
}

// model is the bubbletea model for the desktop. It owns the scheduler: every
// scheduler call happens inside Update.
type model struct {
	sched  *shell.Scheduler
	logger *zap.Logger
	keys   keyMap
	help   help.Model

	wallpaper bool
	icons     bool

	screen    screen
	snap      *shell.Snapshot
	menuOpen  bool
	menuIndex int
}

func newModel(opts Options) model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := model{
		sched:     opts.Scheduler,
		logger:    logger,
		keys:      defaultKeyMap(),
		help:      newHelp(),
		wallpaper: opts.Wallpaper,
		icons:     opts.Icons,
	}
	m.snap = m.sched.Snapshot()
	return m
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	fast, slow := m.sched.Intervals()
	return tea.Batch(fastTick(fast), slowTick(slow))
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fastTickMsg:
		if m.sched.FastTick(time.Time(msg)) {
			m.snap = m.sched.Snapshot()
		}
		fast, _ := m.sched.Intervals()
		return m, fastTick(fast)

	case slowTickMsg:
		m.sched.SlowTick(time.Time(msg))
		_, slow := m.sched.Intervals()
		return m, slowTick(slow)

	case tea.WindowSizeMsg:
		m.screen = screen{width: msg.Width, height: msg.Height}
		m.help.Width = msg.Width - 2
		d := m.screen.desktop()
		m.sched.Post(shell.Resize{Width: d.Width, Height: d.Height})
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Start):
		m.toggleMenu()
		return m, nil
	case key.Matches(msg, m.keys.Terminal):
		m.menuOpen = false
		m.sched.Post(shell.OpenTerminal{})
		return m, nil
	case key.Matches(msg, m.keys.About):
		m.menuOpen = false
		m.sched.Post(shell.OpenAbout{})
		return m, nil
	case key.Matches(msg, m.keys.Close):
		m.sched.Post(shell.CloseFocused{})
		return m, nil
	}

	if m.menuOpen {
		switch {
		case key.Matches(msg, m.keys.MenuUp):
			m.menuIndex = (m.menuIndex - 1 + len(startMenu)) % len(startMenu)
		case key.Matches(msg, m.keys.MenuDown):
			m.menuIndex = (m.menuIndex + 1) % len(startMenu)
		case key.Matches(msg, m.keys.MenuSelect):
			return m.activate(startMenu[m.menuIndex].Action)
		case key.Matches(msg, m.keys.MenuClose):
			m.menuOpen = false
		}
		return m, nil
	}

	for _, ev := range translateKey(msg) {
		m.sched.Post(ev)
	}
	return m, nil
}

// translateKey maps a bubbletea key to scheduler key events.
func translateKey(msg tea.KeyMsg) []shell.Event {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		if msg.Alt {
			return nil
		}
		return translateRunes(msg.Runes)
	case tea.KeyEnter:
		return []shell.Event{shell.KeyInput{Key: shell.KeyEnter}}
	case tea.KeyBackspace:
		return []shell.Event{shell.KeyInput{Key: shell.KeyBackspace}}
	case tea.KeyDelete:
		return []shell.Event{shell.KeyInput{Key: shell.KeyDelete}}
	case tea.KeyLeft:
		return []shell.Event{shell.KeyInput{Key: shell.KeyLeft}}
	case tea.KeyRight:
		return []shell.Event{shell.KeyInput{Key: shell.KeyRight}}
	case tea.KeyHome:
		return []shell.Event{shell.KeyInput{Key: shell.KeyHome}}
	case tea.KeyEnd:
		return []shell.Event{shell.KeyInput{Key: shell.KeyEnd}}
	case tea.KeyEsc:
		return []shell.Event{shell.KeyInput{Key: shell.KeyEscape}}
	}
	return nil
}

// translateRunes turns typed or pasted text into key events. Line breaks
// become Enter and a tab becomes a space; other control runes are dropped.
func translateRunes(runes []rune) []shell.Event {
	events := make([]shell.Event, 0, len(runes))
	for i, r := range runes {
		switch {
		case r == '\n' && i > 0 && runes[i-1] == '\r':
			// \r\n is one line break.
		case r == '\r' || r == '\n':
			events = append(events, shell.KeyInput{Key: shell.KeyEnter})
		case r == '\t':
			events = append(events, shell.KeyInput{Key: shell.KeyRune, Rune: ' '})
		case unicode.IsControl(r):
			// dropped
		default:
			events = append(events, shell.KeyInput{Key: shell.KeyRune, Rune: r})
		}
	}
	return events
}

func (m *model) toggleMenu() {
	m.menuOpen = !m.menuOpen
	m.menuIndex = 0
}

func (m model) activate(a menuAction) (tea.Model, tea.Cmd) {
	m.menuOpen = false
	switch a {
	case actionOpenTerminal:
		m.sched.Post(shell.OpenTerminal{})
	case actionAbout:
		m.sched.Post(shell.OpenAbout{})
	case actionVibes:
		m.logger.Debug("vibes already on")
	case actionExit:
		return m, tea.Quit
	}
	return m, nil
}

// handleMouse hit-tests the parts of the screen the model owns (taskbar,
// start menu, icons) and forwards everything else to the scheduler.
func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := geom.Point{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.sched.Post(shell.PointerMotion{At: p})
		return m, nil
	case tea.MouseActionRelease:
		m.sched.Post(shell.PointerRelease{At: p})
		return m, nil
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
	default:
		return m, nil
	}

	if m.menuOpen {
		if i, ok := m.screen.menuItemAt(p); ok {
			return m.activate(startMenu[i].Action)
		}
		m.menuOpen = false
		if m.screen.startButton().Contains(p) {
			return m, nil
		}
	}

	if p.Y == m.screen.taskbarY() {
		if m.screen.startButton().Contains(p) {
			m.toggleMenu()
			return m, nil
		}
		for _, it := range m.screen.taskItems(m.snap) {
			if it.Rect.Contains(p) {
				m.sched.Post(shell.RaiseWindow{ID: it.ID})
				break
			}
		}
		return m, nil
	}

	if _, onWindow := windowAt(m.snap, p); !onWindow && m.icons {
		if ic, ok := iconAt(p); ok {
			if ic.Opens {
				m.sched.Post(shell.OpenTerminal{})
			}
			return m, nil
		}
	}
	m.sched.Post(shell.PointerPress{At: p})
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.screen.width == 0 || m.screen.height == 0 {
		return ""
	}
	return m.frame().draw().Render()
}

func (m model) frame() frame {
	f := frame{
		screen:    m.screen,
		snap:      m.snap,
		wallpaper: m.wallpaper,
		icons:     m.icons,
		menuOpen:  m.menuOpen,
		menuIndex: m.menuIndex,
	}
	if m.menuOpen {
		f.hint = m.help.View(m.keys)
	}
	return f
}
