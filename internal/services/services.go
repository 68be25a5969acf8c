package services

import (
	"context"
	"fmt"

	"github.com/mhkgpt/mhk-gpt/internal/config"
	"github.com/mhkgpt/mhk-gpt/internal/infrastructure/openai"
	"github.com/mhkgpt/mhk-gpt/internal/infrastructure/redis"
	"github.com/mhkgpt/mhk-gpt/internal/infrastructure/retriever"
	"github.com/mhkgpt/mhk-gpt/internal/services/chat"
	"github.com/mhkgpt/mhk-gpt/internal/services/history"
	"github.com/mhkgpt/mhk-gpt/internal/services/prompt"
	"github.com/mhkgpt/mhk-gpt/internal/services/session"
	"github.com/rs/zerolog/log"
)

type Services struct {
	chatService  chat.Service
	redisService *redis.Service
}

// InitializeServices initializes all required services
func InitializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	log.Info().Msg("Initializing core services")

	// Prompt templates are configuration: fail fast when they do not render
	formatter, err := prompt.NewFormatter(prompt.Templates{
		System: cfg.Prompt.SystemTemplate,
		User:   cfg.Prompt.UserTemplate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	if err := formatter.Check(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	// Redis is optional, history falls back to memory
	redisService := redis.NewService(ctx, cfg.Redis)
	store := history.NewStore(redisService, cfg.History.MaxStored, cfg.History.TTL)

	openAIService := openai.NewService(cfg.OpenAI)

	chatService, err := chat.NewService(
		openAIService,
		retriever.New(cfg.Retriever),
		store,
		session.NewService(cfg.Session),
		formatter,
		prompt.NewTokenCounter(cfg.OpenAI.Model),
		chat.Options{
			CompanyName:     cfg.CompanyName,
			TopK:            cfg.Retriever.TopK,
			MaxMessages:     cfg.History.MaxMessages,
			PromptMaxTokens: cfg.Prompt.MaxTokens,
		},
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize chat service - required for message processing")
		return nil, fmt.Errorf("failed to initialize chat service: %w", err)
	}

	log.Info().Str("model", openAIService.Model()).Msg("All services initialized successfully")

	return &Services{
		chatService:  chatService,
		redisService: redisService,
	}, nil
}

// NewServices wraps an existing chat service, for tests and embedding
func NewServices(chatService chat.Service) *Services {
	return &Services{chatService: chatService}
}

// GetChatService returns the chat service
func (s *Services) GetChatService() chat.Service {
	return s.chatService
}

// Close releases external connections
func (s *Services) Close() error {
	if s.redisService != nil {
		return s.redisService.Close()
	}
	return nil
}
