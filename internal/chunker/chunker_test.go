package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y2chan/SYUGPT/internal/domain"
)

var testProfiles = map[string]Profile{
	"도서관 data.txt":   {Size: 2000, Overlap: 300},
	"셔틀버스 data.txt":  {Size: 1000, Overlap: 300},
	"학과 data.txt":    {Size: 7000, Overlap: 500},
	"introduce.txt": {Size: 1500, Overlap: 300},
}

func newTestChunker(t *testing.T) *CharacterChunker {
	t.Helper()
	c, err := New(testProfiles, Profile{Size: 1500, Overlap: 300})
	require.NoError(t, err)
	return c
}

func TestProfileLookup(t *testing.T) {
	c := newTestChunker(t)
	assert.Equal(t, Profile{Size: 2000, Overlap: 300}, c.ProfileFor("도서관 data.txt"))
	assert.Equal(t, Profile{Size: 7000, Overlap: 500}, c.ProfileFor("학과 data.txt"))
	// Unknown filenames get exactly the default profile.
	assert.Equal(t, Profile{Size: 1500, Overlap: 300}, c.ProfileFor("기숙사 data.txt"))
}

func TestChunkBounds(t *testing.T) {
	c := newTestChunker(t)
	for name, p := range testProfiles {
		doc := domain.Document{Name: name, Content: strings.Repeat("가", p.Size*3+17)}
		chunks, err := c.Chunk(doc)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)
		step := p.Size - p.Overlap
		for i, ch := range chunks {
			assert.LessOrEqual(t, len([]rune(ch.Text)), p.Size, "%s chunk %d too long", name, i)
			assert.Equal(t, name, ch.Source)
			assert.Equal(t, i, ch.Index)
			if i > 0 {
				// Consecutive windows advance by size-overlap, so they share
				// at most overlap runes.
				prev := len([]rune(chunks[i-1].Text))
				shared := prev - step
				if shared < 0 {
					shared = 0
				}
				assert.LessOrEqual(t, shared, p.Overlap)
			}
		}
	}
}

func TestLibraryFileSplitsInTwo(t *testing.T) {
	c := newTestChunker(t)
	doc := domain.Document{Name: "도서관 data.txt", Content: strings.Repeat("도", 2500)}

	chunks, err := c.Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Len(t, []rune(chunks[0].Text), 2000)
	// Second chunk starts at rune 1700, inside the last 300 runes of the first.
	assert.Len(t, []rune(chunks[1].Text), 800)
	assert.Equal(t, string([]rune(doc.Content)[1700:]), chunks[1].Text)
}

func TestShortDocumentSingleChunk(t *testing.T) {
	c := newTestChunker(t)
	doc := domain.Document{Name: "introduce.txt", Content: "삼육대학교 소개 문서입니다."}

	chunks, err := c.Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, doc.Content, chunks[0].Text)
}

func TestEmptyDocumentNoChunks(t *testing.T) {
	c := newTestChunker(t)
	chunks, err := c.Chunk(domain.Document{Name: "introduce.txt"})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestInvalidProfilesRejected(t *testing.T) {
	_, err := New(map[string]Profile{"a.txt": {Size: 100, Overlap: 100}}, Profile{Size: 1500, Overlap: 300})
	assert.Error(t, err)

	_, err = New(nil, Profile{Size: 0, Overlap: 0})
	assert.Error(t, err)
}
