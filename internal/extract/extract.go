// Package extract turns raw OCR text from Italian identity documents into
// structured field records. Each document type carries a fixed field key
// set; extraction degrades field by field, so a result always has every
// declared key and unrecovered values stay nil.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/TeoSigno88/public-OCR-extractor/internal/mrz"
)

// DocumentType selects the extraction rule set and result shape.
type DocumentType string

const (
	TypeCartaIdentita DocumentType = "carta_identita"
	TypeCodiceFiscale DocumentType = "codice_fiscale"
	TypePassaporto    DocumentType = "passaporto"
)

// ParseDocumentType maps a wire identifier to a DocumentType.
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeCartaIdentita, TypeCodiceFiscale, TypePassaporto:
		return t, nil
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

// ErrEmptyText reports raw text too short to carry any document fields.
var ErrEmptyText = errors.New("raw text is empty or unusably short")

// minTextLen is the cutoff below which OCR output is considered unusable.
const minTextLen = 10

// Result is the outcome of one extraction. Fields always contains every
// key declared for the document type; a nil value means the field was
// not recovered. Valid and MRZ are populated only for the document types
// they apply to.
type Result struct {
	Type   DocumentType
	Fields map[string]*string

	// Valid reports the fiscal-code checksum outcome (codice fiscale only).
	Valid bool

	// MRZ is the parsed machine readable zone (passport only, when found).
	MRZ *mrz.Record

	// Inconsistencies are soft data-quality signals, not errors.
	Inconsistencies []string

	RawText string
}

var fieldKeys = map[DocumentType][]string{
	TypeCartaIdentita: {
		"nome", "cognome", "data_nascita", "luogo_nascita", "sesso",
		"statura", "cittadinanza", "comune_rilascio", "data_rilascio",
		"data_scadenza", "numero_carta", "codice_fiscale",
	},
	TypeCodiceFiscale: {
		"codice_fiscale", "cognome_code", "nome_code", "anno_nascita",
		"mese_nascita", "giorno_nascita", "sesso", "comune_nascita",
	},
	TypePassaporto: {
		"tipo_documento", "codice_stato", "numero_passaporto", "cognome",
		"nome", "cittadinanza", "data_nascita", "sesso", "luogo_nascita",
		"data_rilascio", "data_scadenza", "autorita_rilascio",
	},
}

// Keys returns the declared field key set for a document type.
func Keys(t DocumentType) []string {
	keys := fieldKeys[t]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Empty returns the all-null result shape for a document type.
func Empty(t DocumentType) Result {
	fields := make(map[string]*string, len(fieldKeys[t]))
	for _, k := range fieldKeys[t] {
		fields[k] = nil
	}
	return Result{Type: t, Fields: fields}
}

// Extract is the single dispatch entry point. It fails only when the raw
// text is empty or shorter than the usability cutoff; everything past
// that degrades per field.
func Extract(t DocumentType, rawText string) (Result, error) {
	if _, ok := fieldKeys[t]; !ok {
		return Result{}, fmt.Errorf("unknown document type %q", t)
	}
	if len(strings.TrimSpace(rawText)) < minTextLen {
		return Empty(t), ErrEmptyText
	}

	upper := strings.ToUpper(rawText)
	collapsed := collapse(upper)

	switch t {
	case TypeCartaIdentita:
		return extractCarta(rawText, upper, collapsed), nil
	case TypeCodiceFiscale:
		return extractCodiceFiscale(rawText, upper, collapsed), nil
	default:
		return extractPassaporto(rawText, upper, collapsed), nil
	}
}

func set(fields map[string]*string, key, val string) {
	if val == "" {
		return
	}
	v := val
	fields[key] = &v
}

func has(fields map[string]*string, key string) bool {
	return fields[key] != nil
}
