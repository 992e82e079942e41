package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/y2chan/SYUGPT/internal/domain"
)

// Load reads every .txt file directly under dir and returns one Document per
// file. Filenames are kept verbatim as provenance keys: the chunker resolves
// its per-file profile by exact name match. A missing or unreadable directory
// is an error; a directory with no .txt files yields zero documents.
func Load(dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir %s: %w", dir, err)
	}
	var documents []domain.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".txt") {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read corpus file %s: %w", path, err)
		}
		documents = append(documents, domain.Document{
			Path:    path,
			Name:    name,
			Content: string(data),
		})
	}
	return documents, nil
}
