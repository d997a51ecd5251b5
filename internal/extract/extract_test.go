package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	specimenMRZ1 = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<"
	specimenMRZ2 = "L898902C36UTO7408122F1204159ZE184226B<<<<<10"
)

func field(t *testing.T, res Result, key string) string {
	t.Helper()
	v, ok := res.Fields[key]
	require.True(t, ok, "key %s missing from result", key)
	require.NotNil(t, v, "key %s is nil", key)
	return *v
}

func assertShape(t *testing.T, res Result, docType DocumentType) {
	t.Helper()
	assert.Len(t, res.Fields, len(Keys(docType)))
	for _, k := range Keys(docType) {
		_, ok := res.Fields[k]
		assert.True(t, ok, "key %s missing from result", k)
	}
}

func TestParseDocumentType(t *testing.T) {
	tests := []struct {
		in      string
		want    DocumentType
		wantErr bool
	}{
		{in: "carta_identita", want: TypeCartaIdentita},
		{in: " Passaporto ", want: TypePassaporto},
		{in: "CODICE_FISCALE", want: TypeCodiceFiscale},
		{in: "patente", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDocumentType(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestExtractRejectsShortText(t *testing.T) {
	for _, docType := range []DocumentType{TypeCartaIdentita, TypeCodiceFiscale, TypePassaporto} {
		res, err := Extract(docType, "   ab  ")
		require.ErrorIs(t, err, ErrEmptyText)
		assertShape(t, res, docType)
		for k, v := range res.Fields {
			assert.Nil(t, v, "key %s should be nil", k)
		}
	}
}

func TestExtractUnknownType(t *testing.T) {
	_, err := Extract(DocumentType("patente"), "some long enough text")
	assert.Error(t, err)
}

func TestCartaSurnameAndNameOnSeparateLines(t *testing.T) {
	res, err := Extract(TypeCartaIdentita, "COGNOME: ROSSI\nNOME: MARIO")
	require.NoError(t, err)

	assert.Equal(t, "ROSSI", field(t, res, "cognome"))
	assert.Equal(t, "MARIO", field(t, res, "nome"))
	assertShape(t, res, TypeCartaIdentita)
}

func TestCartaFullDocument(t *testing.T) {
	text := strings.Join([]string{
		"REPUBBLICA ITALIANA",
		"COMUNE DI ROMA",
		"COGNOME: ROSSI",
		"NOME: MARIO",
		"NATO/A IL: 10.12.1985",
		"NATO/A A: ROMA",
		"SESSO: M",
		"STATURA: 175",
		"CITTADINANZA: ITALIANA",
		"DATA DI RILASCIO: 01/02/2020",
		"DATA DI SCADENZA 01.02.2030",
		"NUMERO: CA1234567AB",
		"RSSMRA85T10A562S",
	}, "\n")

	res, err := Extract(TypeCartaIdentita, text)
	require.NoError(t, err)

	assert.Equal(t, "ROSSI", field(t, res, "cognome"))
	assert.Equal(t, "MARIO", field(t, res, "nome"))
	assert.Equal(t, "10/12/1985", field(t, res, "data_nascita"))
	assert.Equal(t, "ROMA", field(t, res, "luogo_nascita"))
	assert.Equal(t, "M", field(t, res, "sesso"))
	assert.Equal(t, "175 cm", field(t, res, "statura"))
	assert.Equal(t, "ITALIANA", field(t, res, "cittadinanza"))
	assert.Equal(t, "ROMA", field(t, res, "comune_rilascio"))
	assert.Equal(t, "01/02/2020", field(t, res, "data_rilascio"))
	assert.Equal(t, "01/02/2030", field(t, res, "data_scadenza"))
	assert.Equal(t, "CA1234567AB", field(t, res, "numero_carta"))
	assert.Equal(t, "RSSMRA85T10A562S", field(t, res, "codice_fiscale"))
	assert.Empty(t, res.Inconsistencies)
}

func TestCartaShapeInvariantWithUnlabelledText(t *testing.T) {
	res, err := Extract(TypeCartaIdentita, "TESTO SENZA ETICHETTE UTILI")
	require.NoError(t, err)
	assertShape(t, res, TypeCartaIdentita)
	for k, v := range res.Fields {
		assert.Nil(t, v, "key %s should be nil", k)
	}
}

func TestCartaFiscalCodeChecksumInconsistency(t *testing.T) {
	res, err := Extract(TypeCartaIdentita, "COGNOME: ROSSI\nRSSMRA85T10A562X")
	require.NoError(t, err)

	assert.Equal(t, "RSSMRA85T10A562X", field(t, res, "codice_fiscale"))
	require.Len(t, res.Inconsistencies, 1)
	assert.Contains(t, res.Inconsistencies[0], "checksum")
}

func TestCartaFiscalCodeSexInconsistency(t *testing.T) {
	res, err := Extract(TypeCartaIdentita, "SESSO: F\nRSSMRA85T10A562S")
	require.NoError(t, err)

	require.Len(t, res.Inconsistencies, 1)
	assert.Contains(t, res.Inconsistencies[0], "sesso")
}

func TestCartaFiscalCodeOCRNoiseRepaired(t *testing.T) {
	// Letter zone reads 5 for S, digit zone reads O for 0.
	res, err := Extract(TypeCartaIdentita, "CODICE FISCALE: RS5MRA85T1OA562S")
	require.NoError(t, err)

	assert.Equal(t, "RSSMRA85T10A562S", field(t, res, "codice_fiscale"))
	assert.Empty(t, res.Inconsistencies)
}

func TestCodiceFiscaleDocument(t *testing.T) {
	res, err := Extract(TypeCodiceFiscale, "CODICE FISCALE\nRSSMRA85T10A562S")
	require.NoError(t, err)

	assert.True(t, res.Valid)
	assert.Equal(t, "RSSMRA85T10A562S", field(t, res, "codice_fiscale"))
	assert.Equal(t, "RSS", field(t, res, "cognome_code"))
	assert.Equal(t, "MRA", field(t, res, "nome_code"))
	assert.Equal(t, "1985", field(t, res, "anno_nascita"))
	assert.Equal(t, "12", field(t, res, "mese_nascita"))
	assert.Equal(t, "10", field(t, res, "giorno_nascita"))
	assert.Equal(t, "M", field(t, res, "sesso"))
	assert.Equal(t, "A562", field(t, res, "comune_nascita"))
}

func TestCodiceFiscaleFemaleDayOffset(t *testing.T) {
	res, err := Extract(TypeCodiceFiscale, "CODICE FISCALE RSSMRA85T50A562W")
	require.NoError(t, err)

	assert.True(t, res.Valid)
	assert.Equal(t, "F", field(t, res, "sesso"))
	assert.Equal(t, "10", field(t, res, "giorno_nascita"))
}

func TestCodiceFiscaleAbsent(t *testing.T) {
	res, err := Extract(TypeCodiceFiscale, "NESSUN CODICE IN QUESTO TESTO")
	require.NoError(t, err)

	assert.False(t, res.Valid)
	assertShape(t, res, TypeCodiceFiscale)
	for k, v := range res.Fields {
		assert.Nil(t, v, "key %s should be nil", k)
	}
}

func TestDecodeFiscalCode(t *testing.T) {
	res := DecodeFiscalCode("RSSMRA85T10A562S")
	assert.True(t, res.Valid)
	assert.Equal(t, "RSSMRA85T10A562S", field(t, res, "codice_fiscale"))

	res = DecodeFiscalCode("RSSMRA85T10A562X")
	assert.False(t, res.Valid)
}

func TestPassaportoMRZTakesPrecedence(t *testing.T) {
	text := strings.Join([]string{
		"PASSAPORTO REPUBBLICA ITALIANA",
		"COGNOME: BIANCHI",
		specimenMRZ1,
		specimenMRZ2,
	}, "\n")

	res, err := Extract(TypePassaporto, text)
	require.NoError(t, err)

	require.NotNil(t, res.MRZ)
	assert.True(t, res.MRZ.ChecksumValid)
	assert.Equal(t, "PASSAPORTO", field(t, res, "tipo_documento"))
	assert.Equal(t, "UTO", field(t, res, "codice_stato"))
	assert.Equal(t, "L898902C3", field(t, res, "numero_passaporto"))
	assert.Equal(t, "ERIKSSON", field(t, res, "cognome"))
	assert.Equal(t, "ANNA MARIA", field(t, res, "nome"))
	assert.Equal(t, "UTO", field(t, res, "cittadinanza"))
	assert.Equal(t, "12/08/1974", field(t, res, "data_nascita"))
	assert.Equal(t, "F", field(t, res, "sesso"))
	assert.Equal(t, "15/04/2012", field(t, res, "data_scadenza"))
	assert.Empty(t, res.Inconsistencies)
}

func TestPassaportoTextFallback(t *testing.T) {
	text := strings.Join([]string{
		"PASSAPORTO",
		"NUMERO: YA1234567",
		"COGNOME: VERDI",
		"NOME: LUIGI",
		"DATA DI NASCITA: 01/01/1990",
		"SESSO: M",
		"DATA DI SCADENZA: 01/01/2030",
	}, "\n")

	res, err := Extract(TypePassaporto, text)
	require.NoError(t, err)

	assert.Nil(t, res.MRZ)
	assert.Equal(t, "YA1234567", field(t, res, "numero_passaporto"))
	assert.Equal(t, "VERDI", field(t, res, "cognome"))
	assert.Equal(t, "LUIGI", field(t, res, "nome"))
	assert.Equal(t, "01/01/1990", field(t, res, "data_nascita"))
	assert.Equal(t, "M", field(t, res, "sesso"))
	assert.Equal(t, "01/01/2030", field(t, res, "data_scadenza"))
	assert.Equal(t, "ITA", field(t, res, "cittadinanza"))
	assertShape(t, res, TypePassaporto)
}

func TestPassaportoCompositeFailureFlagged(t *testing.T) {
	corrupted := specimenMRZ2[:43] + "1"
	res, err := Extract(TypePassaporto, specimenMRZ1+"\n"+corrupted)
	require.NoError(t, err)

	require.NotNil(t, res.MRZ)
	assert.False(t, res.MRZ.ChecksumValid)
	assert.Equal(t, "L898902C3", field(t, res, "numero_passaporto"))
	require.Len(t, res.Inconsistencies, 1)
	assert.Contains(t, res.Inconsistencies[0], "mrz")
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1/2/85", "01/02/1985"},
		{"10.12.2020", "10/12/2020"},
		{"31-12-99", "31/12/1999"},
		{"5/6/10", "05/06/2010"},
		{"32/1/2000", ""},
		{"1/13/2000", ""},
		{"123", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeDate(tt.in), tt.in)
	}
}
