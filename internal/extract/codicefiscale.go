package extract

import (
	"fmt"

	"github.com/TeoSigno88/public-OCR-extractor/internal/fiscalcode"
)

func extractCodiceFiscale(raw, upper, collapsed string) Result {
	res := Empty(TypeCodiceFiscale)
	res.RawText = raw

	cf := findFiscalCode(collapsed)
	if cf == "" {
		return res
	}

	set(res.Fields, "codice_fiscale", cf)
	set(res.Fields, "cognome_code", cf[0:3])
	set(res.Fields, "nome_code", cf[3:6])
	set(res.Fields, "comune_nascita", cf[11:15])
	res.Valid = fiscalcode.Validate(cf)

	dec, err := fiscalcode.Decode(cf)
	if err != nil {
		return res
	}
	set(res.Fields, "anno_nascita", fmt.Sprintf("%04d", dec.Year))
	set(res.Fields, "mese_nascita", fmt.Sprintf("%02d", dec.Month))
	set(res.Fields, "giorno_nascita", fmt.Sprintf("%02d", dec.Day))
	set(res.Fields, "sesso", dec.Sex)
	return res
}

// DecodeFiscalCode builds the codice-fiscale result shape directly from a
// code string, without any OCR stage. Used by the validation endpoint.
func DecodeFiscalCode(code string) Result {
	res, err := Extract(TypeCodiceFiscale, "CODICE FISCALE "+code)
	if err != nil {
		return Empty(TypeCodiceFiscale)
	}
	return res
}
