// Package tesseract adapts the gosseract client to the ocr.Engine
// contract. A fresh client is created per request so the engine is safe
// for concurrent use.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/TeoSigno88/public-OCR-extractor/internal/ocr"
)

// DefaultLanguage is the trained-data set used when the input does not
// name one. Identity documents issued in Italy carry Italian labels.
const DefaultLanguage = "ita"

// DefaultPageSegMode treats the document as a single uniform block of
// text, which suits the label/value layout of identity cards.
const DefaultPageSegMode = 6

// Engine recognizes text via the Tesseract native library.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed engine.
func New() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on a single encoded image.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	select {
	case <-ctx.Done():
		return ocr.Result{}, ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}

	langs := in.Languages
	if len(langs) == 0 {
		langs = []string{DefaultLanguage}
	}
	if err := c.SetLanguage(langs...); err != nil {
		return ocr.Result{}, fmt.Errorf("set languages: %w", err)
	}

	psm := in.PageSegMode
	if psm == 0 {
		psm = DefaultPageSegMode
	}
	c.SetPageSegMode(gosseract.PageSegMode(psm))

	if in.Whitelist != "" {
		if err := c.SetWhitelist(in.Whitelist); err != nil {
			return ocr.Result{}, fmt.Errorf("set whitelist: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return ocr.Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}

	return ocr.Result{
		PlainText:  strings.TrimSpace(text),
		Confidence: meanConfidence(c),
	}, nil
}

func meanConfidence(c *gosseract.Client) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return sum / float64(len(boxes))
}
