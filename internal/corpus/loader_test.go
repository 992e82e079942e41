package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsOnlyTxtFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "도서관 data.txt"), []byte("도서관 운영 시간 안내."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "셔틀버스 data.txt"), []byte("셔틀버스 시간표."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), []byte{0x89, 0x50}, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	docs, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	names := []string{docs[0].Name, docs[1].Name}
	assert.Contains(t, names, "도서관 data.txt")
	assert.Contains(t, names, "셔틀버스 data.txt")
	for _, d := range docs {
		assert.NotEmpty(t, d.Content)
		assert.Equal(t, filepath.Join(dir, d.Name), d.Path)
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestLoadEmptyDirectory(t *testing.T) {
	docs, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, docs)
}
