package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mhkgpt/mhk-gpt/internal/config"
	"github.com/mhkgpt/mhk-gpt/internal/domain/chat/models"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler func(req openai.ChatCompletionRequest) (int, any)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		status, body := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestComplete(t *testing.T) {
	server := newTestServer(t, func(req openai.ChatCompletionRequest) (int, any) {
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
		assert.Equal(t, "What do you build?", req.Messages[1].Content)

		return http.StatusOK, openai.ChatCompletionResponse{
			ID:    "chatcmpl-1",
			Model: req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: "Bridges.",
				},
				FinishReason: openai.FinishReasonStop,
			}},
			Usage: openai.Usage{PromptTokens: 20, CompletionTokens: 2, TotalTokens: 22},
		}
	})

	svc := NewService(config.OpenAIConfig{Key: "test-key", BaseURL: server.URL, Model: "gpt-4o-mini"})
	got, err := svc.Complete(context.Background(), []models.Message{
		models.SystemMessage("rules"),
		models.UserMessage("What do you build?"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Bridges.", got.Content)
	assert.Equal(t, models.Usage{PromptTokens: 20, CompletionTokens: 2, TotalTokens: 22}, got.Usage)
}

func TestCompleteErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		svc := NewService(config.OpenAIConfig{Model: "gpt-4o-mini"})
		_, err := svc.Complete(context.Background(), []models.Message{models.UserMessage("hi")})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("no choices", func(t *testing.T) {
		server := newTestServer(t, func(req openai.ChatCompletionRequest) (int, any) {
			return http.StatusOK, openai.ChatCompletionResponse{ID: "chatcmpl-2"}
		})
		svc := NewService(config.OpenAIConfig{Key: "test-key", BaseURL: server.URL, Model: "gpt-4o-mini"})

		_, err := svc.Complete(context.Background(), []models.Message{models.UserMessage("hi")})
		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})

	t.Run("api error", func(t *testing.T) {
		server := newTestServer(t, func(req openai.ChatCompletionRequest) (int, any) {
			return http.StatusTooManyRequests, map[string]any{
				"error": map[string]any{"message": "rate limited", "type": "rate_limit_error"},
			}
		})
		svc := NewService(config.OpenAIConfig{Key: "test-key", BaseURL: server.URL, Model: "gpt-4o-mini"})

		_, err := svc.Complete(context.Background(), []models.Message{models.UserMessage("hi")})
		require.Error(t, err)

		var apiErr *openai.APIError
		assert.ErrorAs(t, err, &apiErr)
	})
}
