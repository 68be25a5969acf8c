package chat

import (
	"context"
	"fmt"

	"github.com/mhkgpt/mhk-gpt/internal/domain/chat/models"
	"github.com/mhkgpt/mhk-gpt/internal/infrastructure/retriever"
	"github.com/mhkgpt/mhk-gpt/internal/services/history"
	"github.com/mhkgpt/mhk-gpt/internal/services/prompt"
	"github.com/mhkgpt/mhk-gpt/internal/services/session"
	"github.com/rs/zerolog/log"
)

// Options tunes how a chat request is assembled. MaxMessages is passed to
// prompt.TruncateHistory as is, so a non-positive value replays no history.
type Options struct {
	CompanyName     string
	TopK            int
	MaxMessages     int
	PromptMaxTokens int
}

type Implementation struct {
	completer Completer
	retriever retriever.Retriever
	history   history.Store
	sessions  *session.Service
	formatter *prompt.Formatter
	counter   prompt.TokenCounter
	opts      Options
}

func NewService(
	completer Completer,
	retriever retriever.Retriever,
	store history.Store,
	sessions *session.Service,
	formatter *prompt.Formatter,
	counter prompt.TokenCounter,
	opts Options,
) (*Implementation, error) {
	if completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if retriever == nil {
		return nil, fmt.Errorf("retriever is required")
	}
	if store == nil {
		return nil, fmt.Errorf("history store is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session service is required")
	}
	if formatter == nil {
		return nil, fmt.Errorf("prompt formatter is required")
	}
	if counter == nil {
		counter = prompt.EstimateCounter{}
	}

	return &Implementation{
		completer: completer,
		retriever: retriever,
		history:   store,
		sessions:  sessions,
		formatter: formatter,
		counter:   counter,
		opts:      opts,
	}, nil
}

func (s *Implementation) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	sessionID, err := s.resolveSession(req.SessionToken)
	if err != nil {
		return nil, err
	}

	logger := log.Ctx(ctx).With().Str("session_id", sessionID).Logger()

	past := req.History
	if len(past) == 0 {
		past, err = s.history.Get(ctx, sessionID)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to load history, continuing without it")
			past = nil
		}
	}

	results, err := s.retriever.Retrieve(ctx, req.Query, s.opts.TopK)
	if err != nil {
		logger.Warn().Err(err).Msg("Retrieval failed, continuing without context")
		results = nil
	}

	systemPrompt, err := s.formatter.FormatSystemPrompt(s.opts.CompanyName, prompt.FormatContext(results))
	if err != nil {
		return nil, fmt.Errorf("failed to format system prompt: %w", err)
	}
	userPrompt, err := s.formatter.FormatUserPrompt(req.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to format user prompt: %w", err)
	}

	messages := prompt.BuildMessages(systemPrompt, userPrompt, replayable(prompt.TruncateHistory(past, s.opts.MaxMessages)))
	messages = prompt.FitToBudget(messages, s.counter, s.opts.PromptMaxTokens)

	logger.Info().
		Int("documents", len(results)).
		Int("messages", len(messages)).
		Int("prompt_tokens_estimate", prompt.CountMessages(s.counter, messages)).
		Msg("Sending chat completion")

	completion, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompletion, err)
	}

	if err := s.history.Append(ctx, sessionID,
		models.UserMessage(req.Query),
		models.AssistantMessage(completion.Content),
	); err != nil {
		logger.Error().Err(err).Msg("Failed to store history")
	}

	token, err := s.sessions.Sign(sessionID)
	if err != nil {
		return nil, err
	}

	return &models.ChatResponse{
		Answer:       completion.Content,
		SessionToken: token,
		Sources:      prompt.Sources(results),
		Usage:        completion.Usage,
	}, nil
}

func (s *Implementation) History(ctx context.Context, sessionToken string) (*models.HistoryResponse, error) {
	sessionID, err := s.validate(sessionToken)
	if err != nil {
		return nil, err
	}

	messages, err := s.history.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.Message{}
	}

	return &models.HistoryResponse{SessionID: sessionID, Messages: messages}, nil
}

func (s *Implementation) ClearHistory(ctx context.Context, sessionToken string) error {
	sessionID, err := s.validate(sessionToken)
	if err != nil {
		return err
	}
	return s.history.Delete(ctx, sessionID)
}

// resolveSession validates the token when present and starts a new session otherwise
func (s *Implementation) resolveSession(token string) (string, error) {
	if token == "" {
		sessionID, _, err := s.sessions.CreateSession()
		return sessionID, err
	}
	return s.validate(token)
}

func (s *Implementation) validate(token string) (string, error) {
	sessionID, err := s.sessions.ValidateSession(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	return sessionID, nil
}

// replayable drops a leading system message so only the configured system
// prompt instructs the model.
func replayable(history []models.Message) []models.Message {
	if len(history) > 0 && history[0].Role == models.RoleSystem {
		log.Debug().Msg("Dropping system message from replayed history")
		return history[1:]
	}
	return history
}
