// Package ocr defines the contract for plugging text-recognition engines
// into the extraction pipeline. The interface is intentionally small so
// engines can be backed by native libraries or remote services without
// leaking provider-specific concerns into callers.
package ocr

import "context"

// Input encapsulates a single image submitted for recognition.
type Input struct {
	// Image is the encoded image payload (PNG recommended).
	Image []byte
	// Languages is a list of trained-data hints (e.g. "ita", "eng").
	Languages []string
	// PageSegMode selects the page segmentation strategy for engines
	// that support one; zero means the engine default.
	PageSegMode int
	// Whitelist restricts recognition to the given characters when the
	// engine supports it. Empty means unrestricted.
	Whitelist string
	// DPI carries the effective dots-per-inch; zero means unknown.
	DPI int
}

// Result captures recognition output for a single input image.
type Result struct {
	// PlainText is the recognized text with surrounding whitespace
	// trimmed. Line breaks are not semantically reliable.
	PlainText string
	// Confidence is the engine's mean word confidence in [0,1], or zero
	// when the engine does not report one.
	Confidence float64
}

// Engine is the text-recognition provider contract: one image in, one
// result out. Implementations must be safe for concurrent use.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}
