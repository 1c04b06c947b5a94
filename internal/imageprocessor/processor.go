package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

type ImageSize struct {
	Name   string
	Width  int
	Height int
}

var (
	SizeThumbnail = ImageSize{Name: "thumbnail", Width: 400, Height: 300}
	SizeLarge     = ImageSize{Name: "large", Width: 1600, Height: 1200}
)

var ErrEmptyImage = errors.New("image has no pixels")

// Processor produces JPEG renditions of uploaded listing photos.
type Processor struct {
	quality int
}

func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{quality: quality}
}

// Thumbnail decodes a JPEG or PNG and returns a JPEG that fits inside size.
// Images already smaller than size are re-encoded without upscaling.
func (p *Processor) Thumbnail(data []byte, size ImageSize) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized, err := p.resize(img, size.Width, size.Height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resize keeps the aspect ratio and paints onto white so PNG transparency
// does not turn black in JPEG.
func (p *Processor) resize(img image.Image, maxWidth, maxHeight int) (image.Image, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, ErrEmptyImage
	}

	newWidth, newHeight := FitWithin(width, height, maxWidth, maxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst, nil
}

// FitWithin scales (w, h) down to fit (maxW, maxH), never up.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	ratio := float64(w) / float64(h)
	if float64(maxW)/float64(maxH) > ratio {
		nw := int(float64(maxH) * ratio)
		if nw < 1 {
			nw = 1
		}
		return nw, maxH
	}
	nh := int(float64(maxW) / ratio)
	if nh < 1 {
		nh = 1
	}
	return maxW, nh
}
