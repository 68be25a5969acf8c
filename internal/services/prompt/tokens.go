package prompt

import (
	"unicode/utf8"

	"github.com/mhkgpt/mhk-gpt/internal/domain/chat/models"
	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog/log"
)

// fallbackEncoding is used when the configured model has no known encoding.
const fallbackEncoding = "cl100k_base"

// Per-message overhead of the chat format, in tokens.
const (
	tokensPerMessage = 3
	tokensPerReply   = 3
)

// TokenCounter counts tokens in a piece of text
type TokenCounter interface {
	Count(text string) int
}

type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

func (c *tiktokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// EstimateCounter approximates token counts at four characters per token
type EstimateCounter struct{}

func (EstimateCounter) Count(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

// NewTokenCounter returns a tiktoken counter for the model. When no encoding
// can be loaded it falls back to an estimate.
func NewTokenCounter(model string) TokenCounter {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		log.Warn().Err(err).Str("model", model).Msg("No encoding for model, trying default encoding")
		encoding, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load token encoding, using estimate")
			return EstimateCounter{}
		}
	}
	return &tiktokenCounter{encoding: encoding}
}

// CountMessages returns the token count of a message list in chat format
func CountMessages(counter TokenCounter, messages []models.Message) int {
	total := tokensPerReply
	for _, m := range messages {
		total += tokensPerMessage + counter.Count(m.Role) + counter.Count(m.Content)
	}
	return total
}

// FitToBudget drops the oldest messages between the leading system message and
// the trailing user message until the list fits maxTokens. The first and last
// messages are always kept. A non-positive maxTokens disables the budget.
func FitToBudget(messages []models.Message, counter TokenCounter, maxTokens int) []models.Message {
	if maxTokens <= 0 || len(messages) <= 2 {
		return messages
	}

	total := CountMessages(counter, messages)
	if total <= maxTokens {
		return messages
	}

	first, last := messages[0], messages[len(messages)-1]
	middle := append([]models.Message(nil), messages[1:len(messages)-1]...)

	dropped := 0
	for total > maxTokens && len(middle) > 0 {
		total -= tokensPerMessage + counter.Count(middle[0].Role) + counter.Count(middle[0].Content)
		middle = middle[1:]
		dropped++
	}

	log.Debug().
		Int("dropped", dropped).
		Int("tokens", total).
		Int("max_tokens", maxTokens).
		Msg("Trimmed history to fit prompt token budget")

	result := make([]models.Message, 0, len(middle)+2)
	result = append(result, first)
	result = append(result, middle...)
	return append(result, last)
}
