package retriever

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mhkgpt/mhk-gpt/internal/config"
	"github.com/mhkgpt/mhk-gpt/internal/domain/chat/models"
	"github.com/rs/zerolog/log"
)

// Retriever finds the document chunks most relevant to a query
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]models.RetrievalResult, error)
}

// New returns an HTTP retriever for cfg.URL, or a no-op retriever when no
// retrieval service is configured.
func New(cfg config.RetrieverConfig) Retriever {
	if cfg.URL == "" {
		log.Warn().Msg("Retriever URL not configured - answers will have no context")
		return Noop{}
	}
	return NewService(cfg)
}

// Noop never finds anything
type Noop struct{}

func (Noop) Retrieve(context.Context, string, int) ([]models.RetrievalResult, error) {
	return nil, nil
}

type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type SearchResponse struct {
	Results []models.RetrievalResult `json:"results"`
}

// Service queries an external retrieval endpoint over HTTP
type Service struct {
	client *http.Client
	url    string
}

func NewService(cfg config.RetrieverConfig) *Service {
	return &Service{
		client: &http.Client{Timeout: cfg.Timeout},
		url:    cfg.URL,
	}
}

func (s *Service) Retrieve(ctx context.Context, query string, topK int) ([]models.RetrievalResult, error) {
	log.Debug().Str("query", query).Int("top_k", topK).Msg("Starting retrieval")

	jsonData, err := json.Marshal(SearchRequest{Query: query, TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("retriever returned status %d: %s", resp.StatusCode, string(body))
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := searchResp.Results
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	log.Debug().Int("hits", len(results)).Msg("Retrieval finished")
	for i, hit := range results {
		log.Trace().Int("rank", i+1).Str("file_name", hit.FileName()).Float64("score", hit.Score).Msg("Retrieval hit")
	}

	return results, nil
}
