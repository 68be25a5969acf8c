package prompt

import (
	"errors"
	"testing"

	"github.com/mhkgpt/mhk-gpt/internal/domain/chat/models"
	"github.com/pkoukk/tiktoken-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// charCounter counts one token per byte so budgets are easy to compute
type charCounter struct{}

func (charCounter) Count(text string) int { return len(text) }

// byteRanks loads a vocabulary of the 256 single bytes, so every byte of
// input encodes to exactly one token without fetching a real BPE file.
type byteRanks struct {
	err error
}

func (l byteRanks) LoadTiktokenBpe(string) (map[string]int, error) {
	if l.err != nil {
		return nil, l.err
	}
	ranks := make(map[string]int, 256)
	for b := 0; b < 256; b++ {
		ranks[string([]byte{byte(b)})] = b
	}
	return ranks, nil
}

func TestNewTokenCounter(t *testing.T) {
	// encodings are cached once loaded, so the failing loader runs first
	t.Run("falls back to estimate when no encoding loads", func(t *testing.T) {
		tiktoken.SetBpeLoader(byteRanks{err: errors.New("offline")})

		counter := NewTokenCounter("no-such-model")
		assert.IsType(t, EstimateCounter{}, counter)
	})

	t.Run("unknown model uses the default encoding", func(t *testing.T) {
		tiktoken.SetBpeLoader(byteRanks{})

		counter := NewTokenCounter("no-such-model")
		require.IsType(t, &tiktokenCounter{}, counter)
		assert.Equal(t, 11, counter.Count("hello world"))
	})

	t.Run("known model", func(t *testing.T) {
		tiktoken.SetBpeLoader(byteRanks{})

		counter := NewTokenCounter("gpt-4o-mini")
		require.IsType(t, &tiktokenCounter{}, counter)
		assert.Equal(t, 5, counter.Count("hello"))
		assert.Equal(t, 0, counter.Count(""))
		assert.Equal(t, 3+3+4+2, CountMessages(counter, []models.Message{models.UserMessage("hi")}))
	})
}

func TestEstimateCounter(t *testing.T) {
	c := EstimateCounter{}
	assert.Equal(t, 0, c.Count(""))
	assert.Equal(t, 1, c.Count("abc"))
	assert.Equal(t, 1, c.Count("abcd"))
	assert.Equal(t, 2, c.Count("abcde"))
}

func TestCountMessages(t *testing.T) {
	// 3 reply + (3 + 4 + 2) for the single user message
	got := CountMessages(charCounter{}, []models.Message{models.UserMessage("hi")})
	assert.Equal(t, 12, got)
}

func TestFitToBudget(t *testing.T) {
	messages := []models.Message{
		models.SystemMessage("s"),       // 3 + 6 + 1 = 10
		models.UserMessage("aaaa"),      // 3 + 4 + 4 = 11
		models.AssistantMessage("bbbb"), // 3 + 9 + 4 = 16
		models.UserMessage("q"),         // 3 + 4 + 1 = 8
	}
	// total = 3 + 10 + 11 + 16 + 8 = 48

	tests := []struct {
		name      string
		maxTokens int
		want      []models.Message
	}{
		{name: "Budget disabled", maxTokens: 0, want: messages},
		{name: "Fits exactly", maxTokens: 48, want: messages},
		{
			name:      "Drops the oldest history message",
			maxTokens: 40,
			want:      []models.Message{messages[0], messages[2], messages[3]},
		},
		{
			name:      "Keeps system and user when nothing fits",
			maxTokens: 10,
			want:      []models.Message{messages[0], messages[3]},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FitToBudget(messages, charCounter{}, tt.maxTokens))
		})
	}
}
