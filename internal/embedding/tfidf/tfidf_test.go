package tfidf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedRequiresPrepare(t *testing.T) {
	e := NewEmbedder()
	_, err := e.Embed(context.Background(), "도서관")
	assert.Error(t, err)
}

func TestPrepareEmptyCorpus(t *testing.T) {
	assert.Error(t, NewEmbedder().Prepare(nil))
}

func TestEmbedProducesUnitVectors(t *testing.T) {
	e := NewEmbedder()
	corpus := []string{
		"도서관 운영 시간은 평일 아홉시부터입니다",
		"셔틀버스 운행 시간표 안내",
		"장학금 신청 기간 안내",
	}
	require.NoError(t, e.Prepare(corpus))
	assert.Positive(t, e.Dimension())

	vec, err := e.Embed(context.Background(), "도서관 운영 시간")
	require.NoError(t, err)
	require.Len(t, vec, e.Dimension())

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestEmbedIsDeterministic(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"등록 기간 안내", "수강신청 일정"}))

	a, err := e.Embed(context.Background(), "등록 일정")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "등록 일정")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEmbedUnknownTokensZeroVector(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"도서관 안내"}))

	vec, err := e.Embed(context.Background(), "wholly unrelated english words")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}
