package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbnail(t *testing.T) {
	p := NewProcessor(80)

	out, err := p.Thumbnail(pngBytes(t, 800, 400), SizeThumbnail)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestThumbnail_NoUpscale(t *testing.T) {
	out, err := NewProcessor(0).Thumbnail(pngBytes(t, 40, 30), SizeThumbnail)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestThumbnail_Garbage(t *testing.T) {
	_, err := NewProcessor(85).Thumbnail([]byte("not an image"), SizeThumbnail)
	assert.Error(t, err)
}

func TestFitWithin(t *testing.T) {
	w, h := FitWithin(1000, 1000, 400, 300)
	assert.Equal(t, 300, w)
	assert.Equal(t, 300, h)

	w, h = FitWithin(100, 50, 400, 300)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
}
