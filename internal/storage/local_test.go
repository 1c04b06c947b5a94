package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: dir, BaseURL: "/uploads/"})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "properties/p1/a.jpg", bytes.NewReader([]byte("img")), "image/jpeg"))

	raw, err := os.ReadFile(filepath.Join(dir, "properties", "p1", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(raw))

	ok, err := s.Exists(ctx, "properties/p1/a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/uploads/properties/p1/a.jpg", s.URL("properties/p1/a.jpg"))

	require.NoError(t, s.Delete(ctx, "properties/p1/a.jpg"))
	ok, err = s.Exists(ctx, "properties/p1/a.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Delete(ctx, "properties/p1/missing.jpg"))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	err = s.Save(context.Background(), "../escape.txt", strings.NewReader("x"), "text/plain")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestPropertyImageKeys(t *testing.T) {
	orig, thumb := PropertyImageKeys("p1", ".PNG")
	assert.True(t, strings.HasPrefix(orig, "properties/p1/"))
	assert.True(t, strings.HasSuffix(orig, ".png"))
	assert.True(t, strings.HasSuffix(thumb, "_thumb.jpg"))
	assert.Equal(t, strings.TrimSuffix(orig, ".png")+"_thumb.jpg", thumb)
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)
}
