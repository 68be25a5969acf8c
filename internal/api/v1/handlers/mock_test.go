package handlers

import (
	"context"

	"github.com/mhkgpt/mhk-gpt/internal/domain/chat/models"
	"github.com/stretchr/testify/mock"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*models.ChatResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatService) History(ctx context.Context, sessionToken string) (*models.HistoryResponse, error) {
	args := m.Called(ctx, sessionToken)
	if resp, ok := args.Get(0).(*models.HistoryResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatService) ClearHistory(ctx context.Context, sessionToken string) error {
	args := m.Called(ctx, sessionToken)
	return args.Error(0)
}
