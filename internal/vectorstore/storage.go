package vectorstore

import "github.com/y2chan/SYUGPT/internal/domain"

// Storage persists vectors and supports similarity search. Implementations
// must return domain.ErrNotInitialized from the search methods until Init
// has been called and vectors have been upserted.
type Storage interface {
	Init(dimension int) error
	Upsert(chunks []domain.Chunk, vectors [][]float64) error
	Search(vector []float64, topK int) ([]domain.SearchResult, error)
	// SearchMMR retrieves fetchK nearest neighbors and re-ranks them down to
	// k results by maximal marginal relevance. lambda in [0,1] trades
	// relevance to the query (1) against diversity among results (0).
	SearchMMR(vector []float64, k, fetchK int, lambda float64) ([]domain.SearchResult, error)
	Clear() error
}
