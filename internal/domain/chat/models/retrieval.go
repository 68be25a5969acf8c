package models

import "fmt"

// Metadata keys read from retrieval results.
const (
	MetadataFileName   = "file_name"
	MetadataChunkIndex = "chunk_index"
)

// RetrievalResult is one retrieved text fragment with its relevance score
// and source metadata. Results are produced by the retriever and only read here.
type RetrievalResult struct {
	Text     string         `json:"text"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// FileName returns the source file name, or "Unknown" when absent
func (r RetrievalResult) FileName() string {
	if v, ok := r.Metadata[MetadataFileName]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return "Unknown"
}

// ChunkIndex returns the chunk index rendered as text, or "N/A" when absent
func (r RetrievalResult) ChunkIndex() string {
	v, ok := r.Metadata[MetadataChunkIndex]
	if !ok || v == nil {
		return "N/A"
	}
	// JSON numbers decode as float64; render whole numbers without a fraction
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}
