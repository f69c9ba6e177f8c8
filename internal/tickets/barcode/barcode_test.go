package barcode

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinema-ticketing/internal/logger"
)

func TestRenderWritesScaledPNG(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(dir, 300, 100)

	path, err := renderer.Render("001234560027")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "barcode_001234560027.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestRenderIsDeterministic(t *testing.T) {
	renderer := NewRenderer(t.TempDir(), 300, 100)

	first, err := renderer.Encode("400638133393")
	require.NoError(t, err)
	second, err := renderer.Encode("400638133393")
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second))
}

func TestRenderSameCodeOverwrites(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(dir, 300, 100)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName("001234560027")), []byte("stale"), 0644))

	path, err := renderer.Render("001234560027")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRenderRejectsBadPayloads(t *testing.T) {
	renderer := NewRenderer(t.TempDir(), 300, 100)

	for _, payload := range []string{"", "12345", "1234567890123", "12345678901a"} {
		_, err := renderer.Render(payload)
		assert.Error(t, err, payload)
	}
}

func TestRenderTooNarrow(t *testing.T) {
	renderer := NewRenderer(t.TempDir(), 50, 100)

	_, err := renderer.Render("001234560027")
	assert.Error(t, err)
}

func TestBars(t *testing.T) {
	bars, err := Bars("400638133393")
	require.NoError(t, err)

	runes := []rune(bars)
	assert.Len(t, runes, 95)
	// Start and end guards are bar, space, bar.
	assert.Equal(t, "█ █", string(runes[:3]))
	assert.Equal(t, "█ █", string(runes[92:]))
}

func TestCodeFromFileName(t *testing.T) {
	code, ok := CodeFromFileName("/tmp/x/barcode_001234560027.png")
	assert.True(t, ok)
	assert.Equal(t, "001234560027", code)

	_, ok = CodeFromFileName("barcode_abc.png")
	assert.False(t, ok)
	_, ok = CodeFromFileName("other_001234560027.png")
	assert.False(t, ok)
}

type fakeCache struct {
	stored map[string][]byte
	err    error
}

func (f *fakeCache) Put(_ context.Context, code string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.stored[code] = data
	return nil
}

func TestCachingRendererStoresImage(t *testing.T) {
	cache := &fakeCache{stored: map[string][]byte{}}
	renderer := &CachingRenderer{Renderer: NewRenderer(t.TempDir(), 300, 100), Cache: cache}

	path, err := renderer.Render("001234560027")
	require.NoError(t, err)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, onDisk, cache.stored["001234560027"])
}

func TestCachingRendererIgnoresCacheFailure(t *testing.T) {
	var logs bytes.Buffer
	cache := &fakeCache{err: errors.New("redis down")}
	renderer := &CachingRenderer{
		Renderer: NewRenderer(t.TempDir(), 300, 100),
		Cache:    cache,
		Logger:   logger.NewWithWriter(&logs),
	}

	path, err := renderer.Render("001234560027")
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Contains(t, logs.String(), "redis down")
}
