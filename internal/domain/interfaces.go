package domain

import "context"

// Document represents a single topic text file loaded into the system.
type Document struct {
	Path    string
	Name    string
	Content string
}

// Chunk is a bounded, possibly overlapping piece of a document used as the
// unit of retrieval. Source carries the originating filename.
type Chunk struct {
	Source string
	Index  int
	Text   string
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single entry in the session transcript. Turns are appended in
// order and never mutated afterwards.
type Turn struct {
	Role    Role
	Content string
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
