package extract

import (
	"fmt"
	"regexp"

	"github.com/TeoSigno88/public-OCR-extractor/internal/fiscalcode"
)

// labelSep tolerates the punctuation OCR tends to produce after a label.
const labelSep = `[:;.\t ]*`

// word captures a run of uppercase words without crossing line breaks.
const word = `([A-Z]+(?: [A-Z]+)*)`

var cartaRules = map[string][]rule{
	"nome": {
		{re: regexp.MustCompile(`(?m)\bNOME\b` + labelSep + word)},
	},
	"cognome": {
		{re: regexp.MustCompile(`(?m)\bCOGNOME\b` + labelSep + word)},
	},
	"data_nascita": {
		{re: regexp.MustCompile(`NATO/A\s+IL[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
		{re: regexp.MustCompile(`DATA\s+DI\s+NASCITA[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
		{re: regexp.MustCompile(`NASC[A-Z]*[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
	},
	"luogo_nascita": {
		{re: regexp.MustCompile(`(?m)NATO/A\s+A` + labelSep + `([A-Z]+(?: [A-Z]+)*?)(?:\s+IL\b|\s+DATA\b|\s+NASC|\s*\d|\s*$)`)},
		{re: regexp.MustCompile(`(?m)LUOGO\s+DI\s+NASCITA` + labelSep + word)},
	},
	"sesso": {
		{re: regexp.MustCompile(`SESSO[:\s]*([MF])\b`)},
	},
	"statura": {
		{re: regexp.MustCompile(`STATURA[:\s]*(\d{2,3})`), normalize: func(s string) string { return s + " cm" }},
	},
	"cittadinanza": {
		{re: regexp.MustCompile(`CITTADINANZA` + labelSep + `([A-Z]+)`)},
		// The label alone implies the default value on Italian cards.
		{re: regexp.MustCompile(`(CITTADINANZA)`), normalize: func(string) string { return "ITALIANA" }},
	},
	"comune_rilascio": {
		{re: regexp.MustCompile(`(?m)COMUNE\s+DI` + labelSep + `([A-Z]+(?: [A-Z]+)*?)(?:\s+DATA\b|\s*$)`)},
	},
	"data_rilascio": {
		{re: regexp.MustCompile(`DATA\s+(?:DI\s+)?RILASCIO[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
		{re: regexp.MustCompile(`RILASCIO[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
	},
	"data_scadenza": {
		{re: regexp.MustCompile(`DATA\s+(?:DI\s+)?SCADENZA[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
		{re: regexp.MustCompile(`SCADENZA[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
		{re: regexp.MustCompile(`VALIDA\s+FINO\s+AL[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
	},
	"numero_carta": {
		{re: regexp.MustCompile(`(?:N\.|NUMERO|NR\.?|CARTA)[:\s]*([A-Z]{2}\s*\d{5,7}[A-Z]{2})`), collapsed: true},
		{re: regexp.MustCompile(`(?:N\.|NUMERO|NR\.?)[:\s]*([A-Z0-9]{8,10})\b`), collapsed: true},
		{re: regexp.MustCompile(`\b([A-Z]{2}\d{7}[A-Z]{2})\b`), collapsed: true},
	},
}

var (
	cfShapeRe     = regexp.MustCompile(`\b[A-Z]{6}\d{2}[A-Z]\d{2}[A-Z]\d{3}[A-Z]\b`)
	cfCandidateRe = regexp.MustCompile(`\b[A-Z0-9]{16}\b`)
)

// findFiscalCode locates a fiscal-code-shaped token anywhere in the text.
// When no token matches the shape outright, 16-character alphanumeric
// candidates are retried after position-aware OCR repair.
func findFiscalCode(collapsed string) string {
	if m := cfShapeRe.FindString(collapsed); m != "" {
		return m
	}
	for _, cand := range cfCandidateRe.FindAllString(collapsed, -1) {
		fixed := fiscalcode.NormalizeOCR(cand)
		if cfShapeRe.MatchString(fixed) {
			return fixed
		}
	}
	return ""
}

func extractCarta(raw, upper, collapsed string) Result {
	res := Empty(TypeCartaIdentita)
	res.RawText = raw

	for key, rules := range cartaRules {
		applyRules(res.Fields, key, rules, upper, collapsed)
	}
	set(res.Fields, "codice_fiscale", findFiscalCode(collapsed))

	res.Inconsistencies = crossCheckFiscalCode(res.Fields)
	return res
}

// crossCheckFiscalCode validates an embedded fiscal code and compares its
// decoded birth data against the independently extracted fields. Every
// disagreement is a soft signal on the result, never an error.
func crossCheckFiscalCode(fields map[string]*string) []string {
	cfVal := fields["codice_fiscale"]
	if cfVal == nil {
		return nil
	}
	cf := *cfVal
	if !fiscalcode.Validate(cf) {
		return []string{"codice_fiscale failed checksum validation"}
	}

	dec, err := fiscalcode.Decode(cf)
	if err != nil {
		return nil
	}
	var inc []string
	if s := fields["sesso"]; s != nil && *s != dec.Sex {
		inc = append(inc, fmt.Sprintf("codice_fiscale sex %s disagrees with sesso %s", dec.Sex, *s))
	}
	// Compare day, month and two-digit year only: the century pivot can
	// legitimately differ from the printed date.
	if d := fields["data_nascita"]; d != nil && len(*d) == 10 {
		got := fmt.Sprintf("%02d/%02d/%02d", dec.Day, dec.Month, dec.Year%100)
		want := (*d)[:6] + (*d)[8:]
		if got != want {
			inc = append(inc, fmt.Sprintf("codice_fiscale birth date %s disagrees with data_nascita %s", dec.BirthDate(), *d))
		}
	}
	return inc
}
