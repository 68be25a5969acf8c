package connections

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// TimeoutConfig holds the various timeout settings for WebSocket connections
type TimeoutConfig struct {
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
}

// DefaultTimeouts provides sensible default timeout values
var DefaultTimeouts = TimeoutConfig{
	PongWait:   60 * time.Second,
	PingPeriod: 54 * time.Second, // (PongWait * 9) / 10
	WriteWait:  10 * time.Second,
}

// Manager tracks open chat WebSocket connections
type Manager struct {
	connections sync.Map
	count       atomic.Int64
	timeouts    TimeoutConfig
}

// NewManager creates a new connection manager with the specified timeouts
func NewManager(timeouts TimeoutConfig) *Manager {
	return &Manager{
		timeouts: timeouts,
	}
}

// AddConnection registers a new WebSocket connection
func (m *Manager) AddConnection(conn *websocket.Conn) {
	if _, loaded := m.connections.LoadOrStore(conn, struct{}{}); !loaded {
		m.count.Add(1)
	}
}

// RemoveConnection removes a WebSocket connection
func (m *Manager) RemoveConnection(conn *websocket.Conn) {
	if _, loaded := m.connections.LoadAndDelete(conn); loaded {
		m.count.Add(-1)
	}
}

// GetConnectionCount returns the current number of active connections
func (m *Manager) GetConnectionCount() int {
	return int(m.count.Load())
}

// GetTimeouts returns the current timeout configuration
func (m *Manager) GetTimeouts() TimeoutConfig {
	return m.timeouts
}

// CloseAll sends a going-away close frame to every tracked connection
func (m *Manager) CloseAll() {
	deadline := time.Now().Add(m.timeouts.WriteWait)
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")

	m.connections.Range(func(key, _ interface{}) bool {
		conn := key.(*websocket.Conn)
		_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
		return true
	})
}
