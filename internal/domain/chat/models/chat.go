package models

// ChatRequest is the body of a chat request
type ChatRequest struct {
	Query        string    `json:"query" validate:"required,max=4000"`
	SessionToken string    `json:"session_token,omitempty"`
	History      []Message `json:"history,omitempty" validate:"omitempty,dive"`
}

// ChatResponse is the answer returned for a chat request
type ChatResponse struct {
	Answer       string   `json:"answer"`
	SessionToken string   `json:"session_token"`
	Sources      []Source `json:"sources"`
	Usage        Usage    `json:"usage"`
}

// Source cites a retrieved document used to build the answer
type Source struct {
	FileName   string  `json:"file_name"`
	ChunkIndex string  `json:"chunk_index"`
	Score      float64 `json:"score"`
}

// Usage represents token usage information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// HistoryResponse is the stored conversation of a session
type HistoryResponse struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}
