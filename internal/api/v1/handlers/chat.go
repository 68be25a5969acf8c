package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mhkgpt/mhk-gpt/internal/domain/chat/models"
	"github.com/mhkgpt/mhk-gpt/internal/services/chat"
	"github.com/mhkgpt/mhk-gpt/internal/services/prompt"
	"github.com/mhkgpt/mhk-gpt/pkg/httpext"
	"github.com/rs/zerolog/hlog"
)

// maxBodyBytes bounds chat request bodies
const maxBodyBytes = 1 << 20

// use a single instance of Validate, it caches struct info
var validate = validator.New(validator.WithRequiredStructEnabled())

// HandleChat answers a chat request
func HandleChat(chatService chat.Service, w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	var req models.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		logger.Warn().Err(err).Msg("Request validation failed")
		httpext.JsonErrorWithDetails(w, http.StatusBadRequest, invalidRequest(err))
		return
	}

	logger.Info().
		Int("history_count", len(req.History)).
		Bool("has_session", req.SessionToken != "").
		Msg("Received chat request")

	resp, err := chatService.Chat(r.Context(), req)
	if err != nil {
		status, message := chatErrorStatus(err)
		logger.Error().Err(err).Int("status", status).Msg("Failed to process chat")
		httpext.JsonError(w, message, status)
		return
	}

	httpext.JsonResponse(w, resp, http.StatusOK)
}

// HandleGetHistory returns the conversation of the session in the bearer token
func HandleGetHistory(chatService chat.Service, w http.ResponseWriter, r *http.Request) {
	token := extractToken(r)
	if token == "" {
		httpext.JsonError(w, "Missing session token", http.StatusUnauthorized)
		return
	}

	resp, err := chatService.History(r.Context(), token)
	if err != nil {
		status, message := chatErrorStatus(err)
		hlog.FromRequest(r).Warn().Err(err).Msg("Failed to load history")
		httpext.JsonError(w, message, status)
		return
	}

	httpext.JsonResponse(w, resp, http.StatusOK)
}

// HandleDeleteHistory clears the conversation of the session in the bearer token
func HandleDeleteHistory(chatService chat.Service, w http.ResponseWriter, r *http.Request) {
	token := extractToken(r)
	if token == "" {
		httpext.JsonError(w, "Missing session token", http.StatusUnauthorized)
		return
	}

	if err := chatService.ClearHistory(r.Context(), token); err != nil {
		status, message := chatErrorStatus(err)
		hlog.FromRequest(r).Warn().Err(err).Msg("Failed to clear history")
		httpext.JsonError(w, message, status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// chatErrorStatus maps chat service errors to an HTTP status and client message
func chatErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, chat.ErrInvalidSession):
		return http.StatusUnauthorized, "Invalid session token"
	case errors.Is(err, prompt.ErrInvalidTemplate):
		return http.StatusInternalServerError, "Prompt configuration error"
	case errors.Is(err, chat.ErrCompletion):
		return http.StatusBadGateway, "Failed to process chat"
	default:
		return http.StatusInternalServerError, "Failed to process chat"
	}
}

// invalidRequest describes a validation failure to the client
func invalidRequest(err error) httpext.ErrorResponse {
	return httpext.ErrorResponse{
		Error:            "Invalid request",
		ErrorDescription: err.Error(),
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
