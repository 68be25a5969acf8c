package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mhkgpt/mhk-gpt/internal/config"
	"github.com/mhkgpt/mhk-gpt/internal/domain/chat/models"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

var (
	// ErrNotConfigured is returned when no API key is available
	ErrNotConfigured = errors.New("openai: OPENAI_KEY not configured")
	// ErrEmptyCompletion is returned when the API answers without choices
	ErrEmptyCompletion = errors.New("openai: no response choices returned")
)

// Completion is the assistant reply and its token usage
type Completion struct {
	Content string
	Usage   models.Usage
}

type Service struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewService creates the completion client. Without a key it returns a
// service whose calls fail with ErrNotConfigured.
func NewService(cfg config.OpenAIConfig) *Service {
	s := &Service{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}

	if cfg.Key == "" {
		log.Warn().Msg("OpenAI service not configured - OPENAI_KEY missing")
		return s
	}

	clientConfig := openai.DefaultConfig(cfg.Key)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	s.client = openai.NewClientWithConfig(clientConfig)

	return s
}

// Model returns the configured model name
func (s *Service) Model() string {
	return s.model
}

// Complete sends the messages to the chat completion API and returns the first choice
func (s *Service) Complete(ctx context.Context, messages []models.Message) (*Completion, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    toOpenAI(messages),
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("model", s.model).Msg("Failed to get chat completion")
		return nil, fmt.Errorf("failed to get chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	log.Debug().
		Str("model", resp.Model).
		Str("finish_reason", string(resp.Choices[0].FinishReason)).
		Int("total_tokens", resp.Usage.TotalTokens).
		Msg("Chat completion received")

	return &Completion{
		Content: resp.Choices[0].Message.Content,
		Usage: models.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func toOpenAI(messages []models.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}
	return out
}
