package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStorage keeps uploads in a map so tests never touch disk.
type memStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{files: make(map[string][]byte)}
}

func (m *memStorage) Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return path, nil
}

func (m *memStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStorage) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *memStorage) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok, nil
}

// solidImage returns a width x height PNG of one color as a base64 data URL.
func solidImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestSimilarity_SelfComparisonIsOne(t *testing.T) {
	svc := NewService(newMemStorage(), DefaultThreshold)
	img := solidImage(t, 120, 80, color.RGBA{R: 90, G: 120, B: 60, A: 255})

	assert.Equal(t, 1.0, svc.Similarity(img, img))
}

func TestSimilarity_StaysWithinBounds(t *testing.T) {
	svc := NewService(newMemStorage(), DefaultThreshold)
	black := solidImage(t, 100, 100, color.Black)
	white := solidImage(t, 100, 100, color.White)

	score := svc.Similarity(black, white)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
	// Opposite extremes should land at the bottom of the scale.
	assert.InDelta(t, 0.0, score, 0.02)
}

func TestSimilarity_SameContentDifferentDimensions(t *testing.T) {
	svc := NewService(newMemStorage(), DefaultThreshold)
	small := solidImage(t, 50, 50, color.RGBA{R: 200, G: 10, B: 10, A: 255})
	large := solidImage(t, 400, 400, color.RGBA{R: 200, G: 10, B: 10, A: 255})

	// Normalization reduces both to the same grid.
	assert.InDelta(t, 1.0, svc.Similarity(small, large), 0.01)
}

func TestSimilarity_UndecodableInputReturnsZero(t *testing.T) {
	svc := NewService(newMemStorage(), DefaultThreshold)
	valid := solidImage(t, 10, 10, color.White)
	garbage := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image at all"))

	assert.Equal(t, 0.0, svc.Similarity("!!!not-base64!!!", valid))
	assert.Equal(t, 0.0, svc.Similarity(valid, garbage))
	assert.Equal(t, 0.0, svc.Similarity("", ""))
}

func TestVerify_StrictThreshold(t *testing.T) {
	img := solidImage(t, 60, 60, color.RGBA{R: 10, G: 10, B: 10, A: 255})

	svc := NewService(newMemStorage(), DefaultThreshold)
	verified, similarity := svc.Verify(img, img)
	assert.True(t, verified)
	assert.Equal(t, 1.0, similarity)

	// A score exactly equal to the threshold must not verify.
	strict := NewService(newMemStorage(), 1.0)
	verified, similarity = strict.Verify(img, img)
	assert.False(t, verified)
	assert.Equal(t, 1.0, similarity)
}

func TestVerify_FailsClosedOnBadInput(t *testing.T) {
	svc := NewService(newMemStorage(), DefaultThreshold)

	verified, similarity := svc.Verify("garbage", "garbage")
	assert.False(t, verified)
	assert.Equal(t, 0.0, similarity)
}

func TestProcessAndStore(t *testing.T) {
	store := newMemStorage()
	svc := NewService(store, DefaultThreshold)
	occurredAt := time.Date(2026, 1, 2, 9, 30, 15, 0, time.UTC)

	img := solidImage(t, 1000, 900, color.RGBA{R: 40, G: 80, B: 160, A: 255})
	path, dataURL, err := svc.ProcessAndStore(context.Background(), img, "john@x.com", "ENTRY", occurredAt)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "john@x.com_ENTRY_2026-01-02_"), "path = %s", path)
	assert.True(t, strings.HasSuffix(path, ".jpg"), "path = %s", path)
	assert.NotContains(t, path, ":")
	assert.True(t, strings.HasPrefix(dataURL, "data:image/jpeg;base64,"))

	// The stored rendition is valid JPEG within the 800x600 bound.
	stored, ok := store.files[path]
	require.True(t, ok)
	decoded, err := jpeg.Decode(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.LessOrEqual(t, decoded.Bounds().Dx(), 800)
	assert.LessOrEqual(t, decoded.Bounds().Dy(), 600)
}

func TestProcessAndStore_NoEnlargement(t *testing.T) {
	store := newMemStorage()
	svc := NewService(store, DefaultThreshold)

	img := solidImage(t, 320, 240, color.White)
	path, _, err := svc.ProcessAndStore(context.Background(), img, "a@b.cd", "EXIT", time.Now().UTC())
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(store.files[path]))
	require.NoError(t, err)
	assert.Equal(t, 320, decoded.Bounds().Dx())
	assert.Equal(t, 240, decoded.Bounds().Dy())
}

func TestProcessAndStore_UndecodableInput(t *testing.T) {
	svc := NewService(newMemStorage(), DefaultThreshold)

	_, _, err := svc.ProcessAndStore(context.Background(), "definitely not an image", "a@b.cd", "ENTRY", time.Now().UTC())
	assert.ErrorIs(t, err, ErrProcessingFailed)
}
