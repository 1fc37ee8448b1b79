package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/retrodesk/internal/shell"
)

// SnapshotSource yields the latest published desktop snapshot, or nil.
// *shell.Board satisfies it.
type SnapshotSource interface {
	Load() *shell.Snapshot
}

// ServerConfig holds configuration for the status server.
type ServerConfig struct {
	SocketPath string
	Snapshots  SnapshotSource
	Session    string
	Logger     *zap.Logger
}

// Server answers status queries about a running desktop. It only reads
// published snapshots and never touches live UI state.
type Server struct {
	socketPath   string
	listener     net.Listener
	snapshots    SnapshotSource
	session      string
	startTime    time.Time
	logger       *zap.Logger
	wg           sync.WaitGroup
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a status server. A stale socket left by a crashed run is removed.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.SocketPath == "" {
		return nil, fmt.Errorf("socket path is required")
	}
	if cfg.Snapshots == nil {
		return nil, fmt.Errorf("snapshot source is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.Remove(cfg.SocketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to remove stale socket: %w", err)
	}

	return &Server{
		socketPath: cfg.SocketPath,
		snapshots:  cfg.Snapshots,
		session:    cfg.Session,
		startTime:  time.Now(),
		logger:     logger,
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", zap.String("socket", s.socketPath))

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping() {
				return
			}
			s.logger.Warn("IPC accept error", zap.Error(err))
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) stopping() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	// One JSON request per line.
	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Debug("IPC read error", zap.Error(err))
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		resp = s.handleCommand(req)
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal IPC response", zap.Error(err))
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Debug("failed to send IPC response", zap.Error(err))
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandPing:
		resp, _ := NewOKResponse(nil)
		return resp
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetTranscript:
		return s.handleGetTranscript(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	status := StatusData{
		Session:       s.session,
		PID:           os.Getpid(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Windows:       []WindowStatus{},
	}
	if snap := s.snapshots.Load(); snap != nil {
		status.Rate = snap.Rate
		status.RateKnown = snap.RateKnown
		status.Clock = snap.Clock
		status.Frames = snap.Frames
		for _, w := range snap.Windows {
			status.Windows = append(status.Windows, WindowStatus{
				ID:      uint32(w.ID),
				Title:   w.Title,
				Kind:    string(w.Kind),
				X:       w.Bounds.X,
				Y:       w.Bounds.Y,
				Width:   w.Bounds.Width,
				Height:  w.Bounds.Height,
				Z:       w.Z,
				Focused: w.Focused,
			})
		}
	}

	resp, err := NewOKResponse(status)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetTranscript(payload json.RawMessage) *Response {
	var p TranscriptPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
		}
	}
	if p.Tail < 0 {
		return NewErrorResponse("tail must be >= 0")
	}

	data := TranscriptData{Lines: []string{}}
	if snap := s.snapshots.Load(); snap != nil && snap.Transcript != nil {
		lines := snap.Transcript
		if p.Tail > 0 && p.Tail < len(lines) {
			lines = lines[len(lines)-p.Tail:]
		}
		data.Open = true
		data.Lines = append(data.Lines, lines...)
		data.Input = snap.Input
	}

	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop closes the listener, waits for in-flight requests and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
