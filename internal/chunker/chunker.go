package chunker

import (
	"fmt"

	"github.com/y2chan/SYUGPT/internal/domain"
)

// Profile is a per-file chunking configuration. Size and Overlap are counted
// in characters (runes), not bytes, since the corpus is Korean text.
type Profile struct {
	Size    int
	Overlap int
}

// CharacterChunker splits documents into fixed-size character windows with
// overlap. The window profile is resolved by exact filename match against a
// static table; unrecognized filenames fall back to the default profile.
type CharacterChunker struct {
	profiles map[string]Profile
	fallback Profile
}

// New creates a chunker over the given profile table. Every profile,
// including the fallback, must have 0 <= overlap < size.
func New(profiles map[string]Profile, fallback Profile) (*CharacterChunker, error) {
	if err := validate("default", fallback); err != nil {
		return nil, err
	}
	for name, p := range profiles {
		if err := validate(name, p); err != nil {
			return nil, err
		}
	}
	return &CharacterChunker{profiles: profiles, fallback: fallback}, nil
}

func validate(name string, p Profile) error {
	if p.Size <= 0 {
		return fmt.Errorf("chunk profile %q: size must be positive, got %d", name, p.Size)
	}
	if p.Overlap < 0 || p.Overlap >= p.Size {
		return fmt.Errorf("chunk profile %q: overlap %d must be in [0, size)", name, p.Overlap)
	}
	return nil
}

// ProfileFor resolves the chunking profile for a filename.
func (c *CharacterChunker) ProfileFor(name string) Profile {
	if p, ok := c.profiles[name]; ok {
		return p
	}
	return c.fallback
}

// Chunk splits the document into ordered windows of at most Size runes where
// each window begins Size-Overlap runes after the previous one, so
// consecutive windows share up to Overlap runes. A document shorter than
// Size yields exactly one chunk; an empty document yields none.
func (c *CharacterChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	p := c.ProfileFor(document.Name)
	runes := []rune(document.Content)
	if len(runes) == 0 {
		return nil, nil
	}
	step := p.Size - p.Overlap
	var chunks []domain.Chunk
	for start := 0; ; start += step {
		end := start + p.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			Source: document.Name,
			Index:  len(chunks),
			Text:   string(runes[start:end]),
		})
		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}
