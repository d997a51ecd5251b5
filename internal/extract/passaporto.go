package extract

import (
	"regexp"

	"github.com/TeoSigno88/public-OCR-extractor/internal/mrz"
)

var passaportoRules = map[string][]rule{
	"numero_passaporto": {
		{re: regexp.MustCompile(`(?:PASSAPORTO|PASSPORT)\s*(?:N\.|NR\.?|NUMERO)?[:\s]*([A-Z]{1,2}\d{5,7})\b`), collapsed: true},
		{re: regexp.MustCompile(`(?:N\.|NR\.?|NUMERO)[:\s]*([A-Z0-9]{6,9})\b`), collapsed: true},
	},
	"cognome": {
		{re: regexp.MustCompile(`(?m)(?:COGNOME|SURNAME)` + labelSep + word)},
	},
	"nome": {
		{re: regexp.MustCompile(`(?m)\b(?:NOME|NAME|GIVEN NAMES?)\b` + labelSep + word)},
	},
	"data_nascita": {
		{re: regexp.MustCompile(`DATA\s+DI\s+NASCITA[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
		{re: regexp.MustCompile(`DATE\s+OF\s+BIRTH[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
		{re: regexp.MustCompile(`NASC[A-Z]*[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
	},
	"sesso": {
		{re: regexp.MustCompile(`(?:SESSO|SEX)[:\s]*([MF])\b`)},
	},
	"luogo_nascita": {
		{re: regexp.MustCompile(`(?m)(?:LUOGO\s+DI\s+NASCITA|PLACE\s+OF\s+BIRTH)` + labelSep + word)},
	},
	"data_rilascio": {
		{re: regexp.MustCompile(`DATA\s+DI\s+RILASCIO[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
		{re: regexp.MustCompile(`DATE\s+OF\s+ISSUE[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
		{re: regexp.MustCompile(`RILASCIO[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
	},
	"data_scadenza": {
		{re: regexp.MustCompile(`DATA\s+DI\s+SCADENZA[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
		{re: regexp.MustCompile(`DATE\s+OF\s+EXPIRY[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
		{re: regexp.MustCompile(`SCADENZA[:\s]*` + dateBody), collapsed: true, normalize: normalizeDate},
	},
	"autorita_rilascio": {
		{re: regexp.MustCompile(`(?m)(?:AUTORIT[AÀ]|AUTHORITY)` + labelSep + word)},
	},
}

func extractPassaporto(raw, upper, collapsed string) Result {
	res := Empty(TypePassaporto)
	res.RawText = raw
	set(res.Fields, "tipo_documento", "PASSAPORTO")

	// MRZ-derived values take precedence; label rules only fill the gaps.
	if lines := mrz.Locate(upper); lines != nil {
		if rec, err := mrz.Parse(lines); err == nil {
			res.MRZ = &rec
			set(res.Fields, "codice_stato", rec.IssuingState)
			set(res.Fields, "numero_passaporto", rec.DocumentNumber)
			set(res.Fields, "cognome", rec.Surname)
			set(res.Fields, "nome", rec.GivenNames)
			set(res.Fields, "cittadinanza", rec.Nationality)
			set(res.Fields, "data_nascita", rec.BirthDate)
			set(res.Fields, "sesso", rec.Sex)
			set(res.Fields, "data_scadenza", rec.ExpiryDate)
			if !rec.ChecksumValid {
				res.Inconsistencies = append(res.Inconsistencies, "mrz composite check digit failed")
			}
		}
	}

	for key, rules := range passaportoRules {
		applyRules(res.Fields, key, rules, upper, collapsed)
	}

	// Italian passports rarely print the nationality outside the MRZ.
	if !has(res.Fields, "cittadinanza") {
		set(res.Fields, "cittadinanza", "ITA")
	}
	return res
}
