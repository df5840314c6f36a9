package filewalker

import (
	"os"
	"path/filepath"
	"testing"

	"loctext/internal/language"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"b.tsv":            "key\tEnglish\nx\tX\n",
		"sub/a.ini":        "[English]\ny = Y\n",
		"sub/c.json":       `{"en": {"z": "Z"}}`,
		"notes.md":         "ignored",
		".git/config.toml": "[English]\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	w := NewWalker()
	entries, err := w.Walk(root)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, ".tsv", entries[0].Ext)
	assert.Equal(t, ".ini", entries[1].Ext)
	assert.Equal(t, ".json", entries[2].Ext)

	for _, e := range entries {
		table, err := w.ParseFile(e)
		require.NoError(t, err, e.Path)
		assert.Len(t, table.Entries[language.English], 1)
	}
}

func TestWalkErrors(t *testing.T) {
	_, err := NewWalker().Walk(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "f.tsv")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = NewWalker().Walk(file)
	assert.Error(t, err)
}
