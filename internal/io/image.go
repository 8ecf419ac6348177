package ioutils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// coverQuality is the JPEG quality used for embedded cover art.
const coverQuality = 90

// ImageService turns video thumbnails into APIC-ready JPEG cover art.
type ImageService struct{}

func NewImageService() *ImageService {
	return &ImageService{}
}

// ResizeImage shrinks data to fit maxWidth x maxHeight and returns it as
// JPEG. Smaller images keep their size but are still re-encoded.
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, fmt.Errorf("invalid bounds %dx%d", maxWidth, maxHeight)
	}
	img, err := decodeCover(ctx, data)
	if err != nil {
		return nil, err
	}

	src := img.Bounds()
	w, h := fitWithin(src.Dx(), src.Dy(), maxWidth, maxHeight)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)
	return encodeCover(dst)
}

// ConvertToJPEG re-encodes data as JPEG without resizing.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, err := decodeCover(ctx, data)
	if err != nil {
		return nil, err
	}
	return encodeCover(img)
}

// fitWithin scales w x h down to the largest size inside maxW x maxH with the
// same aspect ratio. Sizes already inside the box are returned unchanged.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	ratio := float64(w) / float64(h)
	if float64(maxW)/float64(maxH) > ratio {
		return int(float64(maxH) * ratio), maxH
	}
	return maxW, int(float64(maxW) / ratio)
}

func decodeCover(ctx context.Context, data []byte) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover art: %w", err)
	}
	return img, nil
}

func encodeCover(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: coverQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode cover art: %w", err)
	}
	return buf.Bytes(), nil
}
