package memory

import (
	"errors"
	"sort"
	"sync"

	"github.com/y2chan/SYUGPT/internal/domain"
)

// Storage is an in-memory vector store using brute-force cosine similarity.
// It is built once at startup from the full chunk set and treated as
// read-only afterwards; the lock only guards against misuse.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	chunks    []domain.Chunk
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.chunks = nil
	return nil
}

func (s *Storage) Upsert(chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension == 0 {
		return domain.ErrNotInitialized
	}
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search returns the topK nearest chunks by cosine similarity. Vectors are
// assumed L2-normalized, so the dot product is the cosine.
func (s *Storage) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idxs, scores, err := s.nearest(vector, topK)
	if err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(idxs))
	for _, j := range idxs {
		results = append(results, domain.SearchResult{Chunk: s.chunks[j], Score: scores[j]})
	}
	return results, nil
}

// SearchMMR retrieves fetchK candidates by cosine similarity and greedily
// selects k of them maximizing lambda*sim(query,c) - (1-lambda)*max
// sim(c,selected). All returned results come from the candidate set.
func (s *Storage) SearchMMR(vector []float64, k, fetchK int, lambda float64) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if k <= 0 {
		k = 3
	}
	if fetchK < k {
		fetchK = k
	}
	if lambda < 0 || lambda > 1 {
		lambda = 0.5
	}
	candidates, scores, err := s.nearest(vector, fetchK)
	if err != nil {
		return nil, err
	}
	var selected []int
	remaining := append([]int(nil), candidates...)
	for len(selected) < k && len(remaining) > 0 {
		bestPos := 0
		bestScore := -1e18
		for pos, cand := range remaining {
			redundancy := 0.0
			for _, sel := range selected {
				if sim := dot(s.vectors[cand], s.vectors[sel]); sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*scores[cand] - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestPos = pos
			}
		}
		selected = append(selected, remaining[bestPos])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}
	results := make([]domain.SearchResult, 0, len(selected))
	for _, j := range selected {
		results = append(results, domain.SearchResult{Chunk: s.chunks[j], Score: scores[j]})
	}
	return results, nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.chunks = nil
	return nil
}

// nearest returns the indexes of the topK most similar stored vectors,
// ordered by descending score, plus the full score slice indexed by chunk.
// Callers must hold at least a read lock.
func (s *Storage) nearest(vector []float64, topK int) ([]int, []float64, error) {
	if s.dimension == 0 || len(s.vectors) == 0 {
		return nil, nil, domain.ErrNotInitialized
	}
	if topK <= 0 {
		topK = 5
	}
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = dot(s.vectors[i], vector)
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.Slice(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	return idxs[:topK], scores, nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
