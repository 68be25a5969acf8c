package connections

import (
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestManager(t *testing.T) {
	t.Run("basic add and remove connection", func(t *testing.T) {
		manager := NewManager(DefaultTimeouts)

		conn := &websocket.Conn{}

		manager.AddConnection(conn)
		if got := manager.GetConnectionCount(); got != 1 {
			t.Errorf("Expected 1 connection, got %d", got)
		}

		// Adding twice does not double count
		manager.AddConnection(conn)
		if got := manager.GetConnectionCount(); got != 1 {
			t.Errorf("Expected 1 connection after duplicate add, got %d", got)
		}

		manager.RemoveConnection(conn)
		if got := manager.GetConnectionCount(); got != 0 {
			t.Errorf("Expected 0 connections after removal, got %d", got)
		}

		// Removing twice does not go negative
		manager.RemoveConnection(conn)
		if got := manager.GetConnectionCount(); got != 0 {
			t.Errorf("Expected 0 connections, got %d", got)
		}
	})

	t.Run("concurrent connection operations", func(t *testing.T) {
		manager := NewManager(DefaultTimeouts)
		concurrentOps := 100

		connections := make([]*websocket.Conn, concurrentOps)
		for i := range connections {
			connections[i] = &websocket.Conn{}
		}

		var wg sync.WaitGroup
		wg.Add(concurrentOps)
		for _, conn := range connections {
			go func(conn *websocket.Conn) {
				defer wg.Done()
				manager.AddConnection(conn)
			}(conn)
		}
		wg.Wait()

		if got := manager.GetConnectionCount(); got != concurrentOps {
			t.Errorf("Expected %d connections, got %d", concurrentOps, got)
		}

		wg.Add(concurrentOps)
		for _, conn := range connections {
			go func(conn *websocket.Conn) {
				defer wg.Done()
				manager.RemoveConnection(conn)
			}(conn)
		}
		wg.Wait()

		if got := manager.GetConnectionCount(); got != 0 {
			t.Errorf("Expected 0 connections, got %d", got)
		}
	})

	t.Run("timeout configuration", func(t *testing.T) {
		customTimeouts := TimeoutConfig{
			PongWait:   1 * time.Minute,
			PingPeriod: 54 * time.Second,
			WriteWait:  20 * time.Second,
		}

		manager := NewManager(customTimeouts)
		if manager.GetTimeouts() != customTimeouts {
			t.Error("Timeout configuration not set correctly")
		}
	})
}
