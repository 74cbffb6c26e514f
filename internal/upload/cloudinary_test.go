package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveTempSpoolsPart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "spool")

	path, err := SaveTemp(dir, strings.NewReader("fake image bytes"), "Room Photo.JPG")
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".jpg"), "extension should be kept lowercased: %s", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestSaveTempIgnoresClientPath(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveTemp(dir, strings.NewReader("x"), "../../escape/attempt.png")
	require.NoError(t, err)

	// Only the extension survives; the name is a fresh ULID inside dir.
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".png"))
	assert.NotContains(t, filepath.Base(path), "escape")
}

func TestSaveTempUniqueNames(t *testing.T) {
	dir := t.TempDir()

	a, err := SaveTemp(dir, strings.NewReader("a"), "same.jpg")
	require.NoError(t, err)
	b, err := SaveTemp(dir, strings.NewReader("b"), "same.jpg")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSaveTempNoExtension(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveTemp(dir, strings.NewReader("raw"), "blob")
	require.NoError(t, err)
	assert.NotContains(t, filepath.Base(path), ".")
}
