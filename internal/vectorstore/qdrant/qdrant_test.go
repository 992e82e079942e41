package qdrant

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y2chan/SYUGPT/internal/domain"
)

func TestUpsertSendsUUIDPointIDs(t *testing.T) {
	var upsert map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/collections/syugpt/points" {
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &upsert))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"result":true,"status":"ok"}`)
	}))
	defer srv.Close()

	s := NewStorage(Config{URL: srv.URL, Collection: "syugpt"})
	require.NoError(t, s.Init(2))

	chunks := []domain.Chunk{
		{Source: "도서관 data.txt", Index: 0, Text: "도서관 운영 시간"},
		{Source: "도서관 data.txt", Index: 1, Text: "열람실 안내"},
	}
	vectors := [][]float64{{1, 0}, {0, 1}}
	require.NoError(t, s.Upsert(chunks, vectors))

	require.NotNil(t, upsert)
	points, ok := upsert["points"].([]any)
	require.True(t, ok)
	require.Len(t, points, 2)

	seen := map[string]struct{}{}
	for i, raw := range points {
		point := raw.(map[string]any)
		// Qdrant rejects arbitrary string IDs: every point ID must parse as
		// a UUID, and distinct chunks must get distinct IDs.
		id, ok := point["id"].(string)
		require.True(t, ok)
		_, err := uuid.Parse(id)
		assert.NoError(t, err, "point id %q is not a UUID", id)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate point id %q", id)
		seen[id] = struct{}{}

		payload := point["payload"].(map[string]any)
		assert.Equal(t, "도서관 data.txt", payload["source"])
		assert.Equal(t, float64(i), payload["index"])
	}
}

func TestPointIDIsDeterministic(t *testing.T) {
	chunk := domain.Chunk{Source: "셔틀버스 data.txt", Index: 3, Text: "배차 간격"}
	assert.Equal(t, pointID(chunk), pointID(chunk))

	other := domain.Chunk{Source: "셔틀버스 data.txt", Index: 4}
	assert.NotEqual(t, pointID(chunk), pointID(other))
}

func TestUpsertBeforeInit(t *testing.T) {
	s := NewStorage(Config{URL: "http://localhost:6333", Collection: "syugpt"})
	err := s.Upsert([]domain.Chunk{{Source: "a.txt"}}, [][]float64{{1}})
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}
