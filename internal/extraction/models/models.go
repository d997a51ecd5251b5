// Package models defines the wire types of the extraction module.
package models

import (
	"github.com/TeoSigno88/public-OCR-extractor/internal/extract"
)

// ExtractionResult is the serializable outcome of one extraction. Data
// mirrors the per-document-type field map: every declared key is present
// and unrecovered values are JSON null.
type ExtractionResult struct {
	DocumentType string         `json:"document_type"`
	Data         map[string]any `json:"data"`
}

// FromExtract flattens an extraction result into its wire shape.
func FromExtract(res extract.Result) *ExtractionResult {
	data := make(map[string]any, len(res.Fields)+4)
	for k, v := range res.Fields {
		if v != nil {
			data[k] = *v
		} else {
			data[k] = nil
		}
	}
	data["raw_text"] = nullableString(res.RawText)

	switch res.Type {
	case extract.TypeCodiceFiscale:
		data["valido"] = res.Valid
	case extract.TypePassaporto:
		data["mrz_line1"] = nil
		data["mrz_line2"] = nil
		if res.MRZ != nil && len(res.MRZ.Lines) >= 2 {
			data["mrz_line1"] = res.MRZ.Lines[0]
			data["mrz_line2"] = res.MRZ.Lines[1]
			if len(res.MRZ.Lines) > 2 {
				data["mrz_line3"] = res.MRZ.Lines[2]
			}
		}
	}
	if len(res.Inconsistencies) > 0 {
		data["inconsistencies"] = res.Inconsistencies
	}
	return &ExtractionResult{DocumentType: string(res.Type), Data: data}
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Base64Request carries an image as a base64 string, optionally with a
// data-URL prefix.
type Base64Request struct {
	Base64 string `json:"base64"`
}

// ValidateRequest asks for validation of an already extracted code.
type ValidateRequest struct {
	CodiceFiscale string `json:"codice_fiscale"`
}

// BatchRequest carries several images of the same document type.
type BatchRequest struct {
	DocumentType string   `json:"document_type"`
	Images       []string `json:"images"`
}

// BatchItem is the outcome for one image of a batch.
type BatchItem struct {
	Index   int            `json:"index"`
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// DebugOCRResult exposes the raw recognition output without any parsing,
// for diagnosing image quality problems.
type DebugOCRResult struct {
	RawText    string   `json:"raw_text"`
	CharCount  int      `json:"char_count"`
	WordCount  int      `json:"word_count"`
	LineCount  int      `json:"line_count"`
	Lines      []string `json:"lines"`
	Confidence float64  `json:"confidence"`
	Advice     []string `json:"advice"`
}
