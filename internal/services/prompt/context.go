package prompt

import (
	"fmt"
	"strings"

	"github.com/mhkgpt/mhk-gpt/internal/domain/chat/models"
)

// NoContext is the context used when retrieval returned nothing.
const NoContext = "No relevant context found."

// Divider separates document blocks in the formatted context.
var Divider = "\n\n" + strings.Repeat("-", 80) + "\n\n"

// FormatContext renders retrieval results as numbered document blocks for
// the system prompt, in input order.
func FormatContext(results []models.RetrievalResult) string {
	if len(results) == 0 {
		return NoContext
	}

	parts := make([]string, 0, len(results))
	for i, r := range results {
		parts = append(parts, fmt.Sprintf(
			"Document %d (Source: %s, Chunk: %s, Relevance: %.3f):\n%s",
			i+1, r.FileName(), r.ChunkIndex(), r.Score, r.Text,
		))
	}

	return strings.Join(parts, Divider)
}

// Sources returns the citations for a set of retrieval results
func Sources(results []models.RetrievalResult) []models.Source {
	sources := make([]models.Source, 0, len(results))
	for _, r := range results {
		sources = append(sources, models.Source{
			FileName:   r.FileName(),
			ChunkIndex: r.ChunkIndex(),
			Score:      r.Score,
		})
	}
	return sources
}
