package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mhkgpt/mhk-gpt/internal/api/v1/middleware"
	"github.com/mhkgpt/mhk-gpt/internal/connections"
	"github.com/mhkgpt/mhk-gpt/internal/domain/chat/models"
	"github.com/mhkgpt/mhk-gpt/internal/services/chat"
	"github.com/mhkgpt/mhk-gpt/pkg/httpext"
	"github.com/mhkgpt/mhk-gpt/pkg/ratelimit"
	"github.com/rs/zerolog/hlog"
)

// maxFrameBytes bounds a single inbound chat frame
const maxFrameBytes = 64 << 10

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin access is open, matching the HTTP CORS policy
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleChatWebSocket serves chat over a WebSocket. Each text frame is a chat
// request; each reply is a chat response or an error frame. The session token
// of the last response is reused when a request omits one. Every chat frame
// takes a hit from limiter, keyed by client IP; a nil limiter disables this.
func HandleChatWebSocket(chatService chat.Service, manager *connections.Manager, limiter *ratelimit.Limiter, w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		logger.Warn().Err(err).Msg("Could not upgrade connection")
		return
	}

	manager.AddConnection(conn)
	defer func() {
		manager.RemoveConnection(conn)
		conn.Close()
	}()

	timeouts := manager.GetTimeouts()
	conn.SetReadLimit(maxFrameBytes)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	})

	// gorilla connections allow one concurrent writer
	var writeMu sync.Mutex
	writeJSON := func(v any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(timeouts.WriteWait))
		return conn.WriteJSON(v)
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(timeouts.PingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				writeMu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(timeouts.WriteWait))
				writeMu.Unlock()
				if err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	logger.Info().Int("connections", manager.GetConnectionCount()).Msg("Chat WebSocket connected")

	clientIP := middleware.ClientIP(r)

	var sessionToken string
	for {
		// Pongs are only processed while reading, so the deadline restarts
		// after each chat turn however long it took.
		_ = conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("Unexpected WebSocket closure")
			}
			return
		}

		if messageType != websocket.TextMessage {
			if err := writeJSON(httpext.ErrorResponse{Error: "Only text frames are supported"}); err != nil {
				return
			}
			continue
		}

		var req models.ChatRequest
		if err := json.Unmarshal(message, &req); err != nil {
			if err := writeJSON(httpext.ErrorResponse{Error: "Invalid request format"}); err != nil {
				return
			}
			continue
		}
		if err := validate.Struct(req); err != nil {
			if err := writeJSON(invalidRequest(err)); err != nil {
				return
			}
			continue
		}

		if limiter != nil && !limiter.Allow(clientIP) {
			logger.Warn().Str("client_ip", clientIP).Str("limit", "chat").Msg("Rate limit exceeded")
			if err := writeJSON(httpext.ErrorResponse{Error: "Rate limit exceeded"}); err != nil {
				return
			}
			continue
		}

		if req.SessionToken == "" {
			req.SessionToken = sessionToken
		}

		resp, err := chatService.Chat(r.Context(), req)
		if err != nil {
			_, message := chatErrorStatus(err)
			logger.Error().Err(err).Msg("Failed to process WebSocket chat")
			if err := writeJSON(httpext.ErrorResponse{Error: message}); err != nil {
				return
			}
			continue
		}

		sessionToken = resp.SessionToken
		if err := writeJSON(resp); err != nil {
			logger.Warn().Err(err).Msg("Failed to write WebSocket response")
			return
		}
	}
}
