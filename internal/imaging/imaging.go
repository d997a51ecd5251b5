// Package imaging normalizes document photographs and scans before text
// recognition: grayscale conversion, upscaling of small inputs, contrast
// boosting and binarization. Every transform returns a fresh buffer; the
// caller's image is never mutated.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/jpeg"
)

// ErrInvalidImage reports bytes that cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid or undecodable image")

// Options tunes the preprocessing pipeline. The zero value is completed
// with defaults matching what document OCR needs.
type Options struct {
	// MinWidth is the width below which the image is upscaled so small
	// scans gain effective resolution. Default 1500.
	MinWidth int
	// Contrast is the contrast boost percentage applied before
	// binarization. Default 60.
	Contrast float64
	// Threshold is the brightness cutoff for binarization (0-255).
	// Default 180.
	Threshold uint8
	// Sharpen applies a mild sharpening pass after binarization.
	Sharpen bool
}

func (o Options) withDefaults() Options {
	if o.MinWidth <= 0 {
		o.MinWidth = 1500
	}
	if o.Contrast == 0 {
		o.Contrast = 60
	}
	if o.Threshold == 0 {
		o.Threshold = 180
	}
	return o
}

// Decode decodes raw image bytes (PNG, JPEG or GIF). Undecodable input
// returns ErrInvalidImage.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidImage)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, nil
}

// Preprocess runs the normalization pipeline and returns a new image
// optimized for character recognition.
func Preprocess(img image.Image, opts Options) image.Image {
	opts = opts.withDefaults()

	out := imaging.Grayscale(img)

	if width := out.Bounds().Dx(); width > 0 && width < opts.MinWidth {
		out = imaging.Resize(out, opts.MinWidth, 0, imaging.Lanczos)
	}

	out = imaging.AdjustContrast(out, opts.Contrast)

	threshold := opts.Threshold
	out = imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
		// Grayscale already, so the red channel stands in for brightness.
		if c.R > threshold {
			return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	})

	if opts.Sharpen {
		out = imaging.Sharpen(out, 1.0)
	}
	return out
}

// EncodePNG serializes an image as PNG for handing to the OCR engine.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
