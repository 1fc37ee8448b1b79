package ipc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/retrodesk/internal/geom"
	"github.com/1broseidon/retrodesk/internal/shell"
)

// socketPath returns a short path; t.TempDir can exceed the sun_path limit.
func socketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "rd")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func startServer(t *testing.T, board *shell.Board) *Client {
	t.Helper()
	path := socketPath(t)
	srv, err := NewServer(ServerConfig{SocketPath: path, Snapshots: board, Session: "sess-1"})
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)
	return NewClientAt(path)
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"GET_STATUS"}`))
	require.NoError(t, err)
	assert.Equal(t, CommandGetStatus, req.Command)

	_, err = ParseRequest([]byte(`{`))
	assert.Error(t, err)
}

func TestStatusBeforeFirstFrame(t *testing.T) {
	c := startServer(t, &shell.Board{})

	require.NoError(t, c.Ping())
	status, err := c.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sess-1", status.Session)
	assert.Equal(t, os.Getpid(), status.PID)
	assert.False(t, status.RateKnown)
	assert.Empty(t, status.Windows)
}

func TestStatusReflectsSnapshot(t *testing.T) {
	board := &shell.Board{}
	board.Store(&shell.Snapshot{
		Rate:      599.6,
		RateKnown: true,
		Clock:     "12:00:01",
		Frames:    42,
		Windows: []shell.WindowView{
			{ID: 1, Title: "Terminal", Kind: shell.KindTerminal, Bounds: geom.Rect{X: 12, Y: 3, Width: 64, Height: 16}, Z: 0},
			{ID: 2, Title: "About webOS 95", Kind: shell.KindDialog, Bounds: geom.Rect{X: 20, Y: 6, Width: 40, Height: 8}, Z: 1, Focused: true},
		},
	})
	c := startServer(t, board)

	status, err := c.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.RateKnown)
	assert.InDelta(t, 599.6, status.Rate, 1e-9)
	assert.Equal(t, "12:00:01", status.Clock)
	assert.Equal(t, uint64(42), status.Frames)
	require.Len(t, status.Windows, 2)
	assert.Equal(t, "terminal", status.Windows[0].Kind)
	assert.Equal(t, 64, status.Windows[0].Width)
	assert.True(t, status.Windows[1].Focused)
}

func TestTranscriptTail(t *testing.T) {
	board := &shell.Board{}
	board.Store(&shell.Snapshot{
		Transcript: []string{"banner", `C:\webos95> echo hi`, "hi", `C:\webos95> ec`},
		Input:      "ec",
	})
	c := startServer(t, board)

	all, err := c.GetTranscript(0)
	require.NoError(t, err)
	assert.True(t, all.Open)
	assert.Len(t, all.Lines, 4)
	assert.Equal(t, "ec", all.Input)

	tail, err := c.GetTranscript(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi", `C:\webos95> ec`}, tail.Lines)

	_, err = c.GetTranscript(-1)
	assert.ErrorContains(t, err, "tail must be >= 0")
}

func TestTranscriptWithoutTerminal(t *testing.T) {
	board := &shell.Board{}
	board.Store(&shell.Snapshot{Clock: "00:00:00"})
	c := startServer(t, board)

	data, err := c.GetTranscript(0)
	require.NoError(t, err)
	assert.False(t, data.Open)
	assert.Empty(t, data.Lines)
}

func TestUnknownCommand(t *testing.T) {
	c := startServer(t, &shell.Board{})
	_, err := c.sendRequest(&Request{Command: "REBOOT"})
	assert.ErrorContains(t, err, "Unknown command: REBOOT")
}

func TestClientNotRunning(t *testing.T) {
	c := NewClientAt(socketPath(t))
	_, err := c.GetStatus()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRunning))
}

func TestStopRemovesSocket(t *testing.T) {
	path := socketPath(t)
	srv, err := NewServer(ServerConfig{SocketPath: path, Snapshots: &shell.Board{}})
	require.NoError(t, err)
	require.NoError(t, srv.Start())

	_, err = os.Stat(path)
	require.NoError(t, err)

	srv.Stop()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewServerRemovesStaleSocket(t *testing.T) {
	path := socketPath(t)
	require.NoError(t, os.WriteFile(path, nil, 0600))

	srv, err := NewServer(ServerConfig{SocketPath: path, Snapshots: &shell.Board{}})
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	srv.Stop()
}
