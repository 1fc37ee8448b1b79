package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing          CommandType = "PING"
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandGetTranscript CommandType = "GET_TRANSCRIPT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// WindowStatus is one open window in GET_STATUS
type WindowStatus struct {
	ID      uint32 `json:"id"`
	Title   string `json:"title"`
	Kind    string `json:"kind"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Z       int    `json:"z"`
	Focused bool   `json:"focused"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Session       string         `json:"session"`
	PID           int            `json:"pid"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Rate          float64        `json:"rate"`
	RateKnown     bool           `json:"rate_known"`
	Clock         string         `json:"clock"`
	Frames        uint64         `json:"frames"`
	Windows       []WindowStatus `json:"windows"` // back to front
}

// TranscriptPayload is the optional payload of GET_TRANSCRIPT
type TranscriptPayload struct {
	// Tail limits the reply to the last N lines; 0 returns everything.
	Tail int `json:"tail,omitempty"`
}

// TranscriptData represents the data returned by GET_TRANSCRIPT
type TranscriptData struct {
	Open  bool     `json:"open"`
	Lines []string `json:"lines"`
	Input string   `json:"input"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
