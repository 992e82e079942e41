package qdrant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/y2chan/SYUGPT/internal/domain"
)

// Storage is a minimal REST client to Qdrant, kept as an alternative to the
// in-memory index for corpora that outgrow process memory. It assumes cosine
// distance and creates the collection if missing.
type Storage struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	// Qdrant returns 200 OK if the collection already exists with the same schema.
	return s.putJSON(fmt.Sprintf("%s/collections/%s", s.url, s.collection), body)
}

func (s *Storage) Upsert(chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	if s.dimension == 0 {
		return domain.ErrNotInitialized
	}
	points := make([]map[string]any, len(chunks))
	for i := range chunks {
		points[i] = map[string]any{
			"id":     pointID(chunks[i]),
			"vector": vectors[i],
			"payload": map[string]any{
				"source": chunks[i].Source,
				"index":  chunks[i].Index,
				"text":   chunks[i].Text,
			},
		}
	}
	body := map[string]any{"points": points}
	return s.putJSON(fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

type scoredPoint struct {
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
	Vector  []float64      `json:"vector"`
}

func (s *Storage) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	points, err := s.search(vector, topK, false)
	if err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(points))
	for _, p := range points {
		results = append(results, domain.SearchResult{Chunk: chunkFromPayload(p.Payload), Score: p.Score})
	}
	return results, nil
}

// SearchMMR fetches fetchK points with their vectors and re-ranks them
// client-side by maximal marginal relevance, the same greedy rule the
// in-memory store applies.
func (s *Storage) SearchMMR(vector []float64, k, fetchK int, lambda float64) ([]domain.SearchResult, error) {
	if k <= 0 {
		k = 3
	}
	if fetchK < k {
		fetchK = k
	}
	if lambda < 0 || lambda > 1 {
		lambda = 0.5
	}
	points, err := s.search(vector, fetchK, true)
	if err != nil {
		return nil, err
	}
	var selected []scoredPoint
	remaining := append([]scoredPoint(nil), points...)
	for len(selected) < k && len(remaining) > 0 {
		bestPos := 0
		bestScore := -1e18
		for pos, cand := range remaining {
			redundancy := 0.0
			for _, sel := range selected {
				if sim := dot(cand.Vector, sel.Vector); sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*cand.Score - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestPos = pos
			}
		}
		selected = append(selected, remaining[bestPos])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}
	results := make([]domain.SearchResult, 0, len(selected))
	for _, p := range selected {
		results = append(results, domain.SearchResult{Chunk: chunkFromPayload(p.Payload), Score: p.Score})
	}
	return results, nil
}

func (s *Storage) search(vector []float64, limit int, withVector bool) ([]scoredPoint, error) {
	if s.dimension == 0 {
		return nil, domain.ErrNotInitialized
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
		"with_vector":  withVector,
	}
	var resp struct {
		Result []scoredPoint `json:"result"`
	}
	if err := s.postJSON(fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func (s *Storage) Clear() error {
	// Best-effort: drop collection
	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil)
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	_, _ = s.client.Do(req)
	s.dimension = 0
	return nil
}

// pointID derives a deterministic UUID for a chunk. Qdrant only accepts
// unsigned-integer or UUID point IDs, and hashing source+index keeps
// upserts idempotent across re-ingests. The raw source/index stay in the
// payload.
func pointID(chunk domain.Chunk) string {
	name := fmt.Sprintf("%s:%d", chunk.Source, chunk.Index)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func chunkFromPayload(payload map[string]any) domain.Chunk {
	chunk := domain.Chunk{}
	if v, ok := payload["source"].(string); ok {
		chunk.Source = v
	}
	if v, ok := payload["index"].(float64); ok {
		chunk.Index = int(v)
	}
	if v, ok := payload["text"].(string); ok {
		chunk.Text = v
	}
	return chunk
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

func (s *Storage) putJSON(url string, body any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (s *Storage) postJSON(url string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
