package chat

import (
	"context"
	"errors"

	"github.com/mhkgpt/mhk-gpt/internal/domain/chat/models"
	"github.com/mhkgpt/mhk-gpt/internal/infrastructure/openai"
)

var (
	// ErrInvalidSession is returned when a request carries a bad session token
	ErrInvalidSession = errors.New("invalid session")
	// ErrCompletion is returned when the completion service fails
	ErrCompletion = errors.New("completion failed")
)

// Service defines the interface for chat operations
type Service interface {
	// Chat answers a query, continuing the session named by the request token
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)

	// History returns the stored conversation for a session token
	History(ctx context.Context, sessionToken string) (*models.HistoryResponse, error)

	// ClearHistory deletes the stored conversation for a session token
	ClearHistory(ctx context.Context, sessionToken string) error
}

// Completer sends an assembled message list to a chat completion backend
type Completer interface {
	Complete(ctx context.Context, messages []models.Message) (*openai.Completion, error)
}
