package localfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs", "lang.json")
	s := New(path)

	require.NoError(t, s.SetLanguage("de"))
	lang, err := s.Language()
	require.NoError(t, err)
	assert.Equal(t, "de", lang)

	require.NoError(t, s.SetLanguage("ar"))
	lang, err = s.Language()
	require.NoError(t, err)
	assert.Equal(t, "ar", lang)
}

func TestPrefStoreMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "lang.json"))
	_, err := s.Language()
	assert.Error(t, err)
}

func TestPrefStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lang.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	s := New(path)
	_, err := s.Language()
	assert.Error(t, err)
}
